package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBufferSize = 256
)

type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint

	ctx    context.Context
	cancel context.CancelFunc
	closed int32
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:     uuid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) UserID() uint {
	return c.userID
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// Send never blocks. A full buffer means the peer is not keeping up, so the
// session is closed rather than stalling the sender.
func (c *Client) Send(data []byte) bool {
	if c.isClosed() {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		slog.Warn("Send buffer full, closing client", "clientID", c.id, "userID", c.userID)
		c.Close()
		return false
	}
}

// Close stops both pumps. The write pump sends a close frame on its way out.
func (c *Client) Close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
		slog.Debug("Client marked as closed", "clientID", c.id, "userID", c.userID)
	}
}

func (c *Client) sendMessage(msgType MessageType, payload interface{}) {
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		slog.Error("Failed to encode message", "clientID", c.id, "type", msgType, "error", err)
		return
	}
	c.Send(data)
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(MessageTypeError, ErrorData{Code: code, Message: message})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.LeaveAll(c)
		c.Close()
		if err := c.conn.Close(); err != nil {
			slog.Debug("Error closing connection", "clientID", c.id, "userID", c.userID, "error", err)
		}
		slog.Info("WebSocket connection closed", "clientID", c.id, "userID", c.userID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "userID", c.userID, "error", err)
			}
			return
		}
		if c.isClosed() {
			return
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			slog.Debug("Failed to unmarshal message", "clientID", c.id, "userID", c.userID, "error", err)
			c.sendError("INVALID_MESSAGE", "Invalid message format")
			continue
		}

		if !c.handleMessage(&msg) {
			return
		}
	}
}

// handleMessage reports false when the session should end.
func (c *Client) handleMessage(msg *Message) bool {
	switch msg.Type {
	case MessageTypeJoinChat:
		target := msg.targetUserID(c.userID)
		if target != c.userID {
			c.sendError("FORBIDDEN", "You can only join your own room")
			return true
		}
		c.hub.Join(target, c)
		c.sendMessage(MessageTypeJoinChat, RoomData{UserID: &target, Status: "joined"})

	case MessageTypeLeaveChat:
		target := msg.targetUserID(c.userID)
		c.hub.Leave(target, c)
		c.sendMessage(MessageTypeLeaveChat, RoomData{UserID: &target, Status: "left"})

	case MessageTypeDisconnect:
		slog.Debug("Client requested disconnect", "clientID", c.id, "userID", c.userID)
		return false

	default:
		c.sendError("INVALID_MESSAGE", "Unsupported message type: "+msg.Type.String())
	}
	return true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		// unblock readPump if the peer never answers the close frame
		c.conn.SetReadDeadline(time.Now().Add(writeWait))
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				slog.Debug("Error getting next writer", "clientID", c.id, "userID", c.userID, "error", err)
				c.Close()
				return
			}
			if _, err := w.Write(message); err != nil {
				w.Close()
				c.Close()
				return
			}
			if err := w.Close(); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Error sending ping", "clientID", c.id, "userID", c.userID, "error", err)
				c.Close()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// ServeWS upgrades the request and starts the pumps for an authenticated
// user. The session joins no room until the client sends join_chat.
func ServeWS(hub *Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "userID", userID, "error", err)
		return
	}

	client := NewClient(hub, conn, userID)
	slog.Info("New WebSocket connection established", "clientID", client.id, "userID", client.userID)

	client.sendMessage(MessageTypeConnect, ConnectData{ClientID: client.id, UserID: userID, Status: "connected"})

	go client.writePump()
	go client.readPump()
}
