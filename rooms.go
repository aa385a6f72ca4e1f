package main

import (
	"context"
	"crypto/rand"
	"sort"
	"sync"
	"time"
)

// roomsListInterval is how often the room browser is pushed to every
// connected client, on top of explicit list_rooms requests.
const roomsListInterval = 5 * time.Second

// RoomManager is the registry of live rooms plus the set of connected
// clients. It is the only structure shared across rooms; each room guards its
// own state.
type RoomManager struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	clients map[*Client]bool

	cfg *Config
	dir directory
	box *secretBox
}

func newRoomManager(cfg *Config, dir directory, box *secretBox) *RoomManager {
	return &RoomManager{
		rooms:   make(map[string]*Room),
		clients: make(map[*Client]bool),
		cfg:     cfg,
		dir:     dir,
		box:     box,
	}
}

func (m *RoomManager) addClient(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c] = true
}

func (m *RoomManager) dropClient(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, c)
}

// newRoomID generates a crypto-random room code and ensures it doesn't
// collide with a live room.
func (m *RoomManager) newRoomID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 6)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		m.mu.Lock()
		_, exists := m.rooms[id]
		m.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// create registers a new room and seats the creator in it.
func (m *RoomManager) create(c *Client, maxWins int) *Room {
	if maxWins < 1 {
		maxWins = 1
	}

	var room *Room
	for {
		id := m.newRoomID()

		m.mu.Lock()
		if _, exists := m.rooms[id]; exists {
			m.mu.Unlock()
			continue
		}
		room = newRoom(id, maxWins, m.cfg, m.dir, m.box)
		m.rooms[id] = room
		m.mu.Unlock()
		break
	}

	logf(m.cfg, "GAMES: Created room %s (first to %d)", room.id, maxWins)

	c.trySend(RoomCreatedMessage{
		Type:    "room_created",
		RoomID:  room.id,
		MaxWins: maxWins,
	})
	_ = room.join(c)

	return room
}

func (m *RoomManager) get(id string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[id]
	if !ok {
		return nil, errRoomNotFound
	}
	return room, nil
}

func (m *RoomManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, id)
}

// list snapshots every live room for the room browser.
func (m *RoomManager) list() []RoomSummary {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mu.Unlock()

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

func (m *RoomManager) broadcastRooms() {
	msg := RoomsListMessage{
		Type:  "rooms_list",
		Rooms: m.list(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for c := range m.clients {
		c.trySend(msg)
	}
}

// run drives the periodic rooms-list push and the idle-room reaper until the
// context ends.
func (m *RoomManager) run(ctx context.Context) {
	listTicker := time.NewTicker(roomsListInterval)
	defer listTicker.Stop()

	reapTicker := time.NewTicker(m.cfg.roomTimeout / 2)
	defer reapTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-listTicker.C:
			m.broadcastRooms()

		case <-reapTicker.C:
			cutoff := time.Now().Add(-m.cfg.roomTimeout)

			m.mu.Lock()
			stale := make([]*Room, 0)
			for _, room := range m.rooms {
				stale = append(stale, room)
			}
			m.mu.Unlock()

			for _, room := range stale {
				if !room.idle(cutoff) {
					continue
				}
				logf(m.cfg, "GAMES: Reaping idle room %s", room.id)
				room.expire()
				m.remove(room.id)
			}
		}
	}
}
