package ws

import "strings"

// Inbound client event types. Dispatch is over this closed set; anything else
// answers an error to the sender.
const (
	MsgCreateGame  = "createGame"
	MsgJoinGame    = "joinGame"
	MsgStartGame   = "startGame"
	MsgSubmitGuess = "submitGuess"
)

// CreateGameRequest is the payload for createGame. TotalRounds is optional;
// zero means the server default.
type CreateGameRequest struct {
	TotalRounds int `json:"totalRounds"`
}

// JoinGameRequest is the payload for joinGame.
type JoinGameRequest struct {
	Code string `json:"code"`
}

// StartGameRequest is the payload for startGame.
type StartGameRequest struct {
	Code string `json:"code"`
}

// SubmitGuessRequest is the payload for submitGuess. Guess is a pointer so a
// missing or non-numeric value is rejected rather than read as zero.
type SubmitGuessRequest struct {
	Code  string `json:"code"`
	Guess *int   `json:"guess"`
}

// ErrorPayload is sent to the originating connection only.
type ErrorPayload struct {
	Message string `json:"message"`
}

// normalizeCode case-normalizes a client-supplied session code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
