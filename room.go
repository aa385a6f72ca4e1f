package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type roomPhase string

const (
	phaseLobby    roomPhase = "lobby"    // waiting for seats and the ready barrier
	phaseStarting roomPhase = "starting" // countdown running, target not yet drawn
	phaseActive   roomPhase = "active"   // target hidden, guesses graded
	phaseResolved roomPhase = "resolved" // round over, intermission running
)

const (
	maxMembers       = 2
	chatLogLimit     = 50
	lookupRetryDelay = time.Second
)

var errInvalidAction = errors.New("invalid action")

// directory is the read-only player lookup rooms draw targets from.
// *Roster satisfies it; tests substitute doubles.
type directory interface {
	GetByName(name string) (PlayerAttributes, error)
	Random() (string, PlayerAttributes, error)
}

// Room is one isolated two-seat match. Every mutation happens under mu, which
// is the room's critical section: timer fires, guesses, and membership changes
// all serialize through it.
type Room struct {
	id      string
	maxWins int

	cfg *Config
	dir directory
	box *secretBox

	mu         sync.Mutex
	closed     bool
	members    map[string]*Client
	spectators map[string]*Client
	ready      map[string]bool
	phase      roomPhase
	round      int

	targetName  string
	targetAttrs PlayerAttributes

	timer *roundTimer
	gen   uint64

	scores  *scoreBoard
	chatLog []ChatMessage

	lastActive time.Time
}

func newRoom(id string, maxWins int, cfg *Config, dir directory, box *secretBox) *Room {
	return &Room{
		id:         id,
		maxWins:    maxWins,
		cfg:        cfg,
		dir:        dir,
		box:        box,
		members:    make(map[string]*Client),
		spectators: make(map[string]*Client),
		ready:      make(map[string]bool),
		phase:      phaseLobby,
		scores:     newScoreBoard(),
		lastActive: time.Now(),
	}
}

// scheduleLocked replaces the room's single outstanding timer. The generation
// check inside the callback makes a cancelled or superseded fire inert even if
// it already left time.AfterFunc's hands.
func (r *Room) scheduleLocked(d time.Duration, fn func()) {
	r.timer.cancel()
	r.gen++
	gen := r.gen
	r.timer = schedule(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || gen != r.gen {
			return
		}
		fn()
	})
}

func (r *Room) invalidateTimerLocked() {
	r.gen++
	r.timer.cancel()
	r.timer = nil
}

func (r *Room) broadcastLocked(msg any) {
	for _, c := range r.members {
		if !c.trySend(msg) {
			logf(r.cfg, "GAMES: Dropped message to slow member %s in %s", c.id, r.id)
		}
	}
	for _, c := range r.spectators {
		if !c.trySend(msg) {
			logf(r.cfg, "GAMES: Dropped message to slow spectator %s in %s", c.id, r.id)
		}
	}
}

func (r *Room) memberIDsLocked() []string {
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Room) readyIDsLocked() []string {
	ids := make([]string, 0, len(r.ready))
	for id := range r.ready {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Room) joinedMessageLocked(msgType string) RoomJoinedMessage {
	return RoomJoinedMessage{
		Type:    msgType,
		RoomID:  r.id,
		Phase:   string(r.phase),
		MaxWins: r.maxWins,
		Round:   r.round,
	}
}

// join seats a member. A client reconnecting with the same identity takes its
// old seat back without counting as a new member.
func (r *Room) join(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRoomNotFound
	}
	r.lastActive = time.Now()

	if _, rejoining := r.members[c.id]; !rejoining {
		if len(r.members) >= maxMembers {
			return errRoomFull
		}
		r.members[c.id] = c
		for _, other := range r.members {
			if other.id != c.id {
				other.trySend(MemberJoinedMessage{Type: "member_joined", MemberID: c.id})
			}
		}
		for _, s := range r.spectators {
			s.trySend(MemberJoinedMessage{Type: "member_joined", MemberID: c.id})
		}
	} else {
		r.members[c.id] = c
	}

	c.trySend(r.joinedMessageLocked("room_joined"))
	if len(r.chatLog) > 0 {
		c.trySend(ChatHistoryMessage{Type: "chat_history", Messages: append([]ChatMessage(nil), r.chatLog...)})
	}
	c.trySend(ReadyStatusMessage{Type: "ready_status", ReadyMembers: r.readyIDsLocked()})

	return nil
}

// spectate attaches a watch-only client: it receives broadcasts but holds no
// seat, cannot ready or guess, and never keeps the room alive.
func (r *Room) spectate(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRoomNotFound
	}
	r.lastActive = time.Now()

	r.spectators[c.id] = c
	c.trySend(r.joinedMessageLocked("room_spectated"))
	if len(r.chatLog) > 0 {
		c.trySend(ChatHistoryMessage{Type: "chat_history", Messages: append([]ChatMessage(nil), r.chatLog...)})
	}

	return nil
}

// setReady records a member at the pre-round barrier. Once every seated
// member is ready the countdown begins.
func (r *Room) setReady(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRoomNotFound
	}
	r.lastActive = time.Now()

	if _, ok := r.members[c.id]; !ok {
		return fmt.Errorf("%w: only seated members can ready up", errInvalidAction)
	}
	if r.phase != phaseLobby {
		return fmt.Errorf("%w: the match is already underway", errInvalidAction)
	}
	if len(r.members) < maxMembers {
		return fmt.Errorf("%w: waiting for an opponent", errInvalidAction)
	}

	r.ready[c.id] = true
	r.broadcastLocked(ReadyStatusMessage{Type: "ready_status", ReadyMembers: r.readyIDsLocked()})

	if len(r.ready) == len(r.members) {
		r.phase = phaseStarting
		r.broadcastLocked(RoundStartingMessage{
			Type:             "round_starting",
			CountdownSeconds: int(r.cfg.countdown / time.Second),
		})
		r.scheduleLocked(r.cfg.countdown, func() {
			r.startRoundLocked(1)
		})
	}

	return nil
}

// startRoundLocked draws a target and opens the round. The draw happens
// inside the critical section, so no guess can observe a half-started round.
// Failed draws are retried on the timer rather than slept out under the lock.
func (r *Room) startRoundLocked(attempt int) {
	if r.phase != phaseStarting && r.phase != phaseResolved {
		return
	}

	name, attrs, err := r.dir.Random()
	if err != nil {
		if attempt < r.cfg.lookupRetries {
			logf(r.cfg, "GAMES: Draw attempt %d failed in %s: %v", attempt, r.id, err)
			r.scheduleLocked(lookupRetryDelay, func() {
				r.startRoundLocked(attempt + 1)
			})
			return
		}
		logf(r.cfg, "GAMES: Abandoning round start in %s after %d attempts: %v", r.id, attempt, err)
		r.broadcastLocked(RoomErrorMessage{
			Type:    "room_error",
			Kind:    errKindLookupFailed,
			Message: "could not draw a player to guess; returning to the lobby",
		})
		r.resetToLobbyLocked()
		return
	}

	handle, err := r.box.sealTarget(name, attrs)
	if err != nil {
		logf(r.cfg, "GAMES: Sealing target failed in %s: %v", r.id, err)
		r.broadcastLocked(RoomErrorMessage{
			Type:    "room_error",
			Kind:    errKindLookupFailed,
			Message: "could not prepare the round; returning to the lobby",
		})
		r.resetToLobbyLocked()
		return
	}

	r.round++
	r.phase = phaseActive
	r.targetName = name
	r.targetAttrs = attrs

	public := attrs
	public.Link = ""
	r.broadcastLocked(RoundStartedMessage{
		Type:       "round_started",
		Round:      r.round,
		Attributes: public,
		Handle:     handle,
	})

	r.scheduleLocked(r.cfg.roundLength, func() {
		r.resolveRoundLocked("")
	})
}

// submitGuess grades a guess during an active round, or just echoes it to the
// room otherwise. Candidate attributes are re-resolved against the roster;
// the client-supplied tuple is only trusted for names the roster lacks.
func (r *Room) submitGuess(c *Client, name string, candidate *PlayerAttributes) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty guess", errInvalidAction)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRoomNotFound
	}
	r.lastActive = time.Now()

	if _, ok := r.members[c.id]; !ok {
		return fmt.Errorf("%w: spectators cannot guess", errInvalidAction)
	}

	attrs, err := r.dir.GetByName(name)
	if err != nil && candidate != nil {
		attrs = *candidate
	}
	now := time.Now().UnixMilli()

	if r.phase != phaseActive {
		// Pre-game banter: echo the raw attributes, grade nothing.
		echo := attrs
		echo.Link = ""
		r.broadcastLocked(GuessResultMessage{
			Type:      "guess_result",
			MemberID:  c.id,
			Guess:     name,
			Echo:      &echo,
			Timestamp: now,
		})
		return nil
	}

	correct := strings.EqualFold(name, r.targetName)
	result := Evaluate(name, attrs, r.targetAttrs)
	r.broadcastLocked(GuessResultMessage{
		Type:      "guess_result",
		MemberID:  c.id,
		Guess:     name,
		Correct:   correct,
		Result:    &result,
		Timestamp: now,
	})

	if correct {
		r.resolveRoundLocked(c.id)
	}

	return nil
}

// resolveRoundLocked ends the active round, by correct guess or deadline.
// The timer is invalidated first, so whichever mechanism got here second can
// never resolve the same round again.
func (r *Room) resolveRoundLocked(winnerID string) {
	if r.phase != phaseActive {
		return
	}
	r.invalidateTimerLocked()
	r.phase = phaseResolved

	if winnerID != "" {
		r.scores.increment(winnerID)
	}

	r.broadcastLocked(RoundEndedMessage{
		Type:     "round_ended",
		WinnerID: winnerID,
		Revealed: r.targetName,
		Scores:   r.scores.snapshot(r.memberIDsLocked()),
	})

	winners := r.scores.hasWinner(r.maxWins)
	if len(winners) > 0 {
		sort.Strings(winners)
		r.broadcastLocked(MatchEndedMessage{
			Type:    "match_ended",
			Winners: winners,
			Scores:  r.scores.snapshot(r.memberIDsLocked()),
		})
		r.resetToLobbyLocked()
		return
	}

	r.scheduleLocked(r.cfg.intermission, func() {
		r.startRoundLocked(1)
	})
}

func (r *Room) resetToLobbyLocked() {
	r.invalidateTimerLocked()
	r.phase = phaseLobby
	r.round = 0
	r.targetName = ""
	r.targetAttrs = PlayerAttributes{}
	r.ready = make(map[string]bool)
	r.scores.reset()
}

func (r *Room) chat(c *Client, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: empty message", errInvalidAction)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRoomNotFound
	}
	r.lastActive = time.Now()

	_, member := r.members[c.id]
	_, spectator := r.spectators[c.id]
	if !member && !spectator {
		return fmt.Errorf("%w: join the room before chatting", errInvalidAction)
	}

	msg := ChatMessage{
		Type:      "chat_message",
		SenderID:  c.id,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
	r.chatLog = append(r.chatLog, msg)
	if len(r.chatLog) > chatLogLimit {
		r.chatLog = r.chatLog[len(r.chatLog)-chatLogLimit:]
	}
	r.broadcastLocked(msg)

	return nil
}

// leave detaches a client. Returns true when the member set emptied and the
// room must be removed from the registry. A room that keeps one member keeps
// playing: an active round continues and the survivor may still win it.
func (r *Room) leave(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}

	if _, ok := r.spectators[c.id]; ok {
		delete(r.spectators, c.id)
		return false
	}

	seated, ok := r.members[c.id]
	if !ok || seated != c {
		// A reconnected session owns this seat now.
		return false
	}

	delete(r.members, c.id)
	delete(r.ready, c.id)

	if len(r.members) == 0 {
		r.teardownLocked()
		return true
	}

	r.lastActive = time.Now()
	r.broadcastLocked(MemberLeftMessage{Type: "member_left", MemberID: c.id})
	if r.phase == phaseLobby {
		r.broadcastLocked(ReadyStatusMessage{Type: "ready_status", ReadyMembers: r.readyIDsLocked()})
	}

	return false
}

// expire shuts down an idle room: the reaper's path.
func (r *Room) expire() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.broadcastLocked(RoomErrorMessage{
		Type:    "room_error",
		Kind:    errKindRoomNotFound,
		Message: "room closed after inactivity",
	})
	r.teardownLocked()
}

func (r *Room) teardownLocked() {
	r.closed = true
	r.invalidateTimerLocked()
	r.members = make(map[string]*Client)
	r.spectators = make(map[string]*Client)
}

func (r *Room) idle(cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive.Before(cutoff)
}

func (r *Room) summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomSummary{
		ID:      r.id,
		Members: len(r.members),
		MaxWins: r.maxWins,
		Phase:   string(r.phase),
		Round:   r.round,
	}
}
