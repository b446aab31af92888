package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Message is the WebSocket envelope format for both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connection represents one WebSocket client.
type Connection struct {
	ID   string
	Send chan []byte
	Hub  *Hub
}

type opKind int

const (
	opBind opKind = iota
	opUnbind
	opToSession
	opToConn
	opDrop
)

// op is one ordered gateway operation. Membership changes and broadcasts for
// a session flow through a single channel so events reach members in the
// order their causes were applied.
type op struct {
	kind   opKind
	code   string
	connID string
	data   []byte
}

// Hub routes messages between connections and game sessions. It implements
// game.Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]*Connection
	members map[string]map[string]*Connection // session code -> connID -> conn

	ops chan op
}

// NewHub creates the gateway hub and starts its routing goroutine.
func NewHub() *Hub {
	h := &Hub{
		conns:   make(map[string]*Connection),
		members: make(map[string]map[string]*Connection),
		ops:     make(chan op, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for o := range h.ops {
		switch o.kind {
		case opBind:
			h.mu.Lock()
			if conn, ok := h.conns[o.connID]; ok {
				if h.members[o.code] == nil {
					h.members[o.code] = make(map[string]*Connection)
				}
				h.members[o.code][o.connID] = conn
			}
			h.mu.Unlock()

		case opUnbind:
			h.mu.Lock()
			if members, ok := h.members[o.code]; ok {
				delete(members, o.connID)
				if len(members) == 0 {
					delete(h.members, o.code)
				}
			}
			h.mu.Unlock()

		case opDrop:
			h.mu.Lock()
			delete(h.members, o.code)
			h.mu.Unlock()

		case opToSession:
			h.mu.RLock()
			for _, conn := range h.members[o.code] {
				select {
				case conn.Send <- o.data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case opToConn:
			h.mu.RLock()
			if conn, ok := h.conns[o.connID]; ok {
				select {
				case conn.Send <- o.data:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection. Called before the connection's read loop starts
// so that binds issued by the game layer always find it.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.mu.Unlock()
	log.Debug().Str("conn", conn.ID).Msg("client connected")
}

// Unregister removes a connection and closes its send channel.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	if existing, ok := h.conns[conn.ID]; ok && existing == conn {
		delete(h.conns, conn.ID)
		for code, members := range h.members {
			if _, member := members[conn.ID]; member {
				delete(members, conn.ID)
				if len(members) == 0 {
					delete(h.members, code)
				}
			}
		}
		close(conn.Send)
	}
	h.mu.Unlock()
	log.Debug().Str("conn", conn.ID).Msg("client disconnected")
}

// Bind adds a connection to a session's fan-out set (implements game.Broadcaster).
func (h *Hub) Bind(code, connID string) {
	h.ops <- op{kind: opBind, code: code, connID: connID}
}

// Unbind removes a connection from a session's fan-out set (implements game.Broadcaster).
func (h *Hub) Unbind(code, connID string) {
	h.ops <- op{kind: opUnbind, code: code, connID: connID}
}

// ToSession sends an event to every member of a session (implements game.Broadcaster).
func (h *Hub) ToSession(code, event string, payload interface{}) {
	h.ops <- op{kind: opToSession, code: code, data: encode(event, payload)}
}

// ToConn sends an event to a single connection (implements game.Broadcaster).
func (h *Hub) ToConn(connID, event string, payload interface{}) {
	h.ops <- op{kind: opToConn, connID: connID, data: encode(event, payload)}
}

// DropSession forgets a session's fan-out set once its final broadcast has
// been queued (implements game.Broadcaster). Connections stay open.
func (h *Hub) DropSession(code string) {
	h.ops <- op{kind: opDrop, code: code}
}

func encode(event string, payload interface{}) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal payload")
	}
	data, _ := json.Marshal(&Message{Type: event, Payload: raw})
	return data
}
