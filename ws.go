package main

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const memberCookieName = "prodle_id"

// getOrSetMemberID identifies a browser across connections, so a reconnect
// reclaims the same seat.
func getOrSetMemberID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(memberCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     memberCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// Client is one websocket connection. Outbound events go through a buffered
// send channel drained by the write pump; trySend never blocks room critical
// sections on a slow socket.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan any
	done chan struct{}

	mu   sync.Mutex
	room *Room
}

func (c *Client) trySend(msg any) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) currentRoom() *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *Client) setRoom(r *Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = r
}

func (c *Client) reportError(err error) {
	kind := errKindInvalidAction
	switch {
	case errors.Is(err, errRoomNotFound):
		kind = errKindRoomNotFound
	case errors.Is(err, errRoomFull):
		kind = errKindRoomFull
	case errors.Is(err, errPlayerNotFound):
		kind = errKindLookupFailed
	}
	c.trySend(RoomErrorMessage{
		Type:    "room_error",
		Kind:    kind,
		Message: err.Error(),
	})
}

func serveWS(cfg *Config, mgr *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		memberID := getOrSetMemberID(w, r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "SOCKET: Upgrade error from %s: %v", realIP(r), err)
			return
		}

		client := &Client{
			id:   memberID,
			conn: conn,
			send: make(chan any, 16),
			done: make(chan struct{}),
		}

		mgr.addClient(client)
		logf(cfg, "SOCKET: Client %s connected from %s", client.id, realIP(r))

		client.trySend(RoomsListMessage{Type: "rooms_list", Rooms: mgr.list()})

		go client.writePump()
		client.readPump(cfg, mgr)
	}
}

func (c *Client) readPump(cfg *Config, mgr *RoomManager) {
	defer func() {
		if room := c.currentRoom(); room != nil {
			if room.leave(c) {
				mgr.remove(room.id)
			}
		}
		mgr.dropClient(c)
		close(c.done)
		_ = c.conn.Close()
		logf(cfg, "SOCKET: Client %s disconnected", c.id)
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.dispatch(mgr, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// dispatch routes one inbound action. Registry and room errors are reported
// to this client only; nothing here interrupts anyone else's session.
func (c *Client) dispatch(mgr *RoomManager, msg ClientMessage) {
	switch msg.Type {
	case "list_rooms":
		c.trySend(RoomsListMessage{Type: "rooms_list", Rooms: mgr.list()})

	case "create_room":
		if c.currentRoom() != nil {
			c.reportError(fmt.Errorf("%w: leave your current room first", errInvalidAction))
			return
		}
		c.setRoom(mgr.create(c, msg.MaxWins))

	case "join_room":
		if c.currentRoom() != nil {
			c.reportError(fmt.Errorf("%w: leave your current room first", errInvalidAction))
			return
		}
		room, err := mgr.get(msg.RoomID)
		if err != nil {
			c.reportError(err)
			return
		}
		if err := room.join(c); err != nil {
			c.reportError(err)
			return
		}
		c.setRoom(room)

	case "spectate_room":
		if c.currentRoom() != nil {
			c.reportError(fmt.Errorf("%w: leave your current room first", errInvalidAction))
			return
		}
		room, err := mgr.get(msg.RoomID)
		if err != nil {
			c.reportError(err)
			return
		}
		if err := room.spectate(c); err != nil {
			c.reportError(err)
			return
		}
		c.setRoom(room)

	case "leave_room":
		room := c.currentRoom()
		if room == nil {
			c.reportError(fmt.Errorf("%w: not in a room", errInvalidAction))
			return
		}
		if room.leave(c) {
			mgr.remove(room.id)
		}
		c.setRoom(nil)

	case "ready":
		room, err := mgr.get(msg.RoomID)
		if err != nil {
			c.reportError(err)
			return
		}
		if err := room.setReady(c); err != nil {
			c.reportError(err)
		}

	case "guess":
		room, err := mgr.get(msg.RoomID)
		if err != nil {
			c.reportError(err)
			return
		}
		if err := room.submitGuess(c, msg.Guess, msg.Candidate); err != nil {
			c.reportError(err)
		}

	case "chat":
		room, err := mgr.get(msg.RoomID)
		if err != nil {
			c.reportError(err)
			return
		}
		if err := room.chat(c, msg.Text); err != nil {
			c.reportError(err)
		}

	default:
		// ignore unknown types
	}
}
