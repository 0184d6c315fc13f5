package websocket

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrClientDisconnected = errors.New("client disconnected")

// Conn is one live session as seen by the hub.
type Conn interface {
	ID() string
	UserID() uint
	// Send enqueues without blocking and reports false when the session
	// could not take the frame.
	Send(data []byte) bool
	Close()
}

// PresenceTracker mirrors who is online outside this process.
type PresenceTracker interface {
	SetUserOnline(ctx context.Context, userID uint) error
	SetUserOffline(ctx context.Context, userID uint) error
}

type presenceUpdate struct {
	userID uint
	online bool
}

type HubStats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}

// Hub is the process-local presence room registry: one room per user id,
// holding every session that joined it. Nothing here survives a restart.
type Hub struct {
	// user id -> conn id -> conn
	rooms map[uint]map[string]Conn

	// conn id -> rooms it joined, for LeaveAll
	memberships map[string]map[uint]struct{}

	presence        PresenceTracker
	presenceUpdates chan presenceUpdate

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex
}

func NewHub(presence PresenceTracker) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		rooms:           make(map[uint]map[string]Conn),
		memberships:     make(map[string]map[uint]struct{}),
		presence:        presence,
		presenceUpdates: make(chan presenceUpdate, 1024),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Run applies presence updates in order until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case update := <-h.presenceUpdates:
			h.applyPresence(update)
		case <-h.ctx.Done():
			slog.Info("WebSocket hub shutting down")
			return
		}
	}
}

// Stop closes every session and ends Run.
func (h *Hub) Stop() {
	h.mu.Lock()
	conns := make([]Conn, 0)
	seen := make(map[string]bool)
	for _, room := range h.rooms {
		for id, conn := range room {
			if !seen[id] {
				seen[id] = true
				conns = append(conns, conn)
			}
		}
	}
	h.rooms = make(map[uint]map[string]Conn)
	h.memberships = make(map[string]map[uint]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	h.cancel()
}

// Join adds conn to userID's room. Joining twice is a no-op.
func (h *Hub) Join(userID uint, conn Conn) {
	h.mu.Lock()
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[string]Conn)
		h.rooms[userID] = room
	}
	_, already := room[conn.ID()]
	room[conn.ID()] = conn

	joined, ok := h.memberships[conn.ID()]
	if !ok {
		joined = make(map[uint]struct{})
		h.memberships[conn.ID()] = joined
	}
	joined[userID] = struct{}{}
	// queued under the lock so transitions reach Run in registry order
	if !already && len(room) == 1 {
		h.queuePresence(userID, true)
	}
	h.mu.Unlock()

	if !already {
		slog.Debug("Joined room", "userID", userID, "clientID", conn.ID())
	}
}

// Leave removes conn from userID's room. Leaving a room never joined is a
// no-op.
func (h *Hub) Leave(userID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.removeLocked(userID, conn.ID()) {
		h.queuePresence(userID, false)
	}
}

// LeaveAll drops conn from every room it joined.
func (h *Hub) LeaveAll(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	joined := make([]uint, 0, len(h.memberships[conn.ID()]))
	for userID := range h.memberships[conn.ID()] {
		joined = append(joined, userID)
	}
	for _, userID := range joined {
		if h.removeLocked(userID, conn.ID()) {
			h.queuePresence(userID, false)
		}
	}
	delete(h.memberships, conn.ID())
}

// removeLocked reports whether the room became empty.
func (h *Hub) removeLocked(userID uint, connID string) bool {
	room, ok := h.rooms[userID]
	if !ok {
		return false
	}
	if _, ok := room[connID]; !ok {
		return false
	}

	delete(room, connID)
	if joined, ok := h.memberships[connID]; ok {
		delete(joined, userID)
		if len(joined) == 0 {
			delete(h.memberships, connID)
		}
	}
	slog.Debug("Left room", "userID", userID, "clientID", connID)

	if len(room) == 0 {
		delete(h.rooms, userID)
		return true
	}
	return false
}

// Room returns a snapshot of the sessions in userID's room.
func (h *Hub) Room(userID uint) []Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.rooms[userID]
	conns := make([]Conn, 0, len(room))
	for _, conn := range room {
		conns = append(conns, conn)
	}
	return conns
}

func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID]) > 0
}

func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HubStats{Rooms: len(h.rooms), Connections: len(h.memberships)}
}

// queuePresence must be called with h.mu held.
func (h *Hub) queuePresence(userID uint, online bool) {
	if h.presence == nil {
		return
	}
	select {
	case h.presenceUpdates <- presenceUpdate{userID: userID, online: online}:
	default:
		slog.Warn("Presence queue full, dropping update", "userID", userID, "online", online)
	}
}

func (h *Hub) applyPresence(update presenceUpdate) {
	ctx, cancel := context.WithTimeout(h.ctx, 2*time.Second)
	defer cancel()

	var err error
	if update.online {
		err = h.presence.SetUserOnline(ctx, update.userID)
	} else {
		err = h.presence.SetUserOffline(ctx, update.userID)
	}
	if err != nil {
		slog.Warn("Failed to mirror presence", "userID", update.userID, "online", update.online, "error", err)
	}
}
