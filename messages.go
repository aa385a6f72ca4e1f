package main

// Messages coming from clients
type ClientMessage struct {
	Type      string            `json:"type"`                // "list_rooms", "create_room", "join_room", "spectate_room", "leave_room", "ready", "guess", "chat"
	RoomID    string            `json:"room_id,omitempty"`   // everything except list_rooms and create_room
	MaxWins   int               `json:"max_wins,omitempty"`  // create_room
	Guess     string            `json:"guess,omitempty"`     // guess
	Candidate *PlayerAttributes `json:"candidate,omitempty"` // guess; fallback attributes for names the roster does not know
	Text      string            `json:"text,omitempty"`      // chat
}

// RoomSummary is one row of the room browser.
type RoomSummary struct {
	ID      string `json:"id"`
	Members int    `json:"members"`
	MaxWins int    `json:"max_wins"`
	Phase   string `json:"phase"`
	Round   int    `json:"round"`
}

type RoomsListMessage struct {
	Type  string        `json:"type"` // "rooms_list"
	Rooms []RoomSummary `json:"rooms"`
}

type RoomCreatedMessage struct {
	Type    string `json:"type"` // "room_created"
	RoomID  string `json:"room_id"`
	MaxWins int    `json:"max_wins"`
}

type RoomJoinedMessage struct {
	Type    string `json:"type"` // "room_joined" or "room_spectated"
	RoomID  string `json:"room_id"`
	Phase   string `json:"phase"`
	MaxWins int    `json:"max_wins"`
	Round   int    `json:"round"`
}

type MemberJoinedMessage struct {
	Type     string `json:"type"` // "member_joined"
	MemberID string `json:"member_id"`
}

type MemberLeftMessage struct {
	Type     string `json:"type"` // "member_left"
	MemberID string `json:"member_id"`
}

type ReadyStatusMessage struct {
	Type         string   `json:"type"` // "ready_status"
	ReadyMembers []string `json:"ready_members"`
}

type RoundStartingMessage struct {
	Type             string `json:"type"` // "round_starting"
	CountdownSeconds int    `json:"countdown"`
}

// RoundStartedMessage carries the target's non-identifying attributes plus an
// opaque handle standing in for the name.
type RoundStartedMessage struct {
	Type       string           `json:"type"` // "round_started"
	Round      int              `json:"round"`
	Attributes PlayerAttributes `json:"attributes"`
	Handle     string           `json:"handle"`
}

// GuessResultMessage reports one guess to the whole room. During an active
// round Result carries the graded comparison; outside one, Echo repeats the
// raw candidate attributes with no verdict attached.
type GuessResultMessage struct {
	Type      string            `json:"type"` // "guess_result"
	MemberID  string            `json:"member_id"`
	Guess     string            `json:"guess"`
	Correct   bool              `json:"correct"`
	Result    *Comparison       `json:"result,omitempty"`
	Echo      *PlayerAttributes `json:"echo,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

type ScoreEntry struct {
	MemberID string `json:"member_id"`
	Wins     int    `json:"wins"`
}

type RoundEndedMessage struct {
	Type     string       `json:"type"` // "round_ended"
	WinnerID string       `json:"winner_id,omitempty"`
	Revealed string       `json:"revealed"`
	Scores   []ScoreEntry `json:"scores"`
}

type MatchEndedMessage struct {
	Type    string       `json:"type"` // "match_ended"
	Winners []string     `json:"winners"`
	Scores  []ScoreEntry `json:"scores"`
}

type ChatMessage struct {
	Type      string `json:"type"` // "chat_message"
	SenderID  string `json:"sender_id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type ChatHistoryMessage struct {
	Type     string        `json:"type"` // "chat_history"
	Messages []ChatMessage `json:"messages"`
}

// RoomErrorMessage is sent to the offending client only, except for
// lookup_failed after the final retry, which the whole room sees.
type RoomErrorMessage struct {
	Type    string `json:"type"` // "room_error"
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
