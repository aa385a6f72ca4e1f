package main

// scoreBoard tracks round wins per member within a single room. Not safe for
// concurrent use on its own; the owning room's lock covers it.
type scoreBoard struct {
	wins map[string]int
}

func newScoreBoard() *scoreBoard {
	return &scoreBoard{wins: make(map[string]int)}
}

func (s *scoreBoard) increment(memberID string) {
	s.wins[memberID]++
}

func (s *scoreBoard) reset() {
	s.wins = make(map[string]int)
}

func (s *scoreBoard) leader() int {
	best := 0
	for _, wins := range s.wins {
		if wins > best {
			best = wins
		}
	}
	return best
}

// hasWinner returns every member at or above the threshold. Ties return all
// co-leaders; presentation is the caller's problem.
func (s *scoreBoard) hasWinner(threshold int) []string {
	var winners []string
	for memberID, wins := range s.wins {
		if wins >= threshold {
			winners = append(winners, memberID)
		}
	}
	return winners
}

// snapshot returns wins for the given members, including zero entries for
// members who have not scored yet.
func (s *scoreBoard) snapshot(memberIDs []string) []ScoreEntry {
	entries := make([]ScoreEntry, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		entries = append(entries, ScoreEntry{
			MemberID: memberID,
			Wins:     s.wins[memberID],
		})
	}
	return entries
}
