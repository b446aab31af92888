package game

// Outbound event types sent to clients through the gateway.
const (
	EvtGameCreated    = "gameCreated"
	EvtPlayerJoined   = "playerJoined"
	EvtPlayerLeft     = "playerLeft"
	EvtGameStarted    = "gameStarted"
	EvtRoundStarted   = "roundStarted"
	EvtGuessSubmitted = "guessSubmitted"
	EvtRoundEnded     = "roundEnded"
	EvtGameEnded      = "gameEnded"
	EvtError          = "error"
)

// Broadcaster delivers game events to connected clients. Implemented by the
// WebSocket hub (interface lives here to avoid an import cycle with transport).
// Bind/Unbind and the broadcast calls must be applied by the implementation in
// the order they were issued for any one session.
type Broadcaster interface {
	Bind(code, connID string)
	Unbind(code, connID string)
	ToSession(code, event string, payload interface{})
	ToConn(connID, event string, payload interface{})
	DropSession(code string)
}

// PlayerView is the externally visible state of one player.
type PlayerView struct {
	ConnectionID string `json:"connectionId"`
	Score        int    `json:"score"`
	Answered     bool   `json:"answered"`
}

// GameCreatedPayload acknowledges session creation to the creator only.
type GameCreatedPayload struct {
	Code        string `json:"code"`
	TotalRounds int    `json:"totalRounds"`
}

// RosterPayload carries the current membership of a session.
type RosterPayload struct {
	Code    string       `json:"code"`
	Players []PlayerView `json:"players"`
}

// GameStartedPayload announces the transition out of the lobby.
type GameStartedPayload struct {
	Code        string `json:"code"`
	TotalRounds int    `json:"totalRounds"`
}

// RoundStartedPayload announces a new active round.
type RoundStartedPayload struct {
	Code  string `json:"code"`
	Round int    `json:"round"`
}

// GuessSubmittedPayload acknowledges a guess without revealing its value.
type GuessSubmittedPayload struct {
	Code         string `json:"code"`
	ConnectionID string `json:"connectionId"`
}

// RoundEndedPayload carries updated scores after a round resolves.
type RoundEndedPayload struct {
	Code         string       `json:"code"`
	Round        int          `json:"round"`
	CorrectIndex int          `json:"correctIndex"`
	Players      []PlayerView `json:"players"`
}

// GameEndedPayload carries the final standings, best score first.
type GameEndedPayload struct {
	Code    string       `json:"code"`
	Players []PlayerView `json:"players"`
}
