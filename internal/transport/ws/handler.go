package ws

import (
	"encoding/json"
	"net/http"
	"time"
	"versequest/internal/game"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades client sockets and dispatches their events to the game
// registry.
type Handler struct {
	hub      *Hub
	registry *game.Registry
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, registry *game.Registry) *Handler {
	return &Handler{
		hub:      hub,
		registry: registry,
	}
}

// GameWS handles GET /v1/ws/game.
func (h *Handler) GameWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		ID:   uuid.New().String(),
		Send: make(chan []byte, 256),
		Hub:  h.hub,
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		h.registry.Disconnect(conn.ID)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("conn", conn.ID).Msg("websocket read error")
			}
			break
		}
		h.dispatch(conn, data)
	}
}

// dispatch routes one inbound frame. Game errors go back to the sender only
// and never close the connection.
func (h *Handler) dispatch(conn *Connection, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(conn, "malformed message")
		return
	}

	var err error
	switch msg.Type {
	case MsgCreateGame:
		var req CreateGameRequest
		if msg.Payload != nil {
			if jsonErr := json.Unmarshal(msg.Payload, &req); jsonErr != nil {
				h.sendError(conn, "invalid createGame payload")
				return
			}
		}
		_, err = h.registry.CreateSession(conn.ID, req.TotalRounds)

	case MsgJoinGame:
		var req JoinGameRequest
		if jsonErr := json.Unmarshal(msg.Payload, &req); jsonErr != nil {
			h.sendError(conn, "invalid joinGame payload")
			return
		}
		_, err = h.registry.JoinSession(normalizeCode(req.Code), conn.ID)

	case MsgStartGame:
		var req StartGameRequest
		if jsonErr := json.Unmarshal(msg.Payload, &req); jsonErr != nil {
			h.sendError(conn, "invalid startGame payload")
			return
		}
		err = h.registry.StartGame(normalizeCode(req.Code), conn.ID)

	case MsgSubmitGuess:
		var req SubmitGuessRequest
		if jsonErr := json.Unmarshal(msg.Payload, &req); jsonErr != nil || req.Guess == nil {
			h.sendError(conn, game.ErrInvalidGuess.Error())
			return
		}
		err = h.registry.SubmitGuess(normalizeCode(req.Code), conn.ID, *req.Guess)

	default:
		h.sendError(conn, "unknown event type")
		return
	}

	if err != nil {
		h.sendError(conn, err.Error())
	}
}

func (h *Handler) sendError(conn *Connection, message string) {
	h.hub.ToConn(conn.ID, game.EvtError, ErrorPayload{Message: message})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
