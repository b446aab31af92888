package game

import (
	"context"
	"crypto/rand"
	"fmt"
	mathrand "math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// AnswerSource is the fixed corpus of candidate answers. The game only ever
// needs its size to pick a uniformly random correct index.
type AnswerSource interface {
	Size() int
}

// Registry owns every live session, keyed by code. The registry map and the
// connection index are guarded by mu; per-session state is guarded by each
// session's own lock so independent sessions make progress independently.
type Registry struct {
	source        AnswerSource
	broadcast     Broadcaster
	clock         clockwork.Clock
	roundDuration time.Duration
	defaultRounds int
	// randIndex picks a correct answer; replaced in tests for determinism.
	randIndex func(n int) int

	mu       sync.RWMutex
	sessions map[string]*Session
	// byConn indexes which session each connection belongs to, for
	// transport-level disconnect handling.
	byConn map[string]string
}

// NewRegistry creates a session registry. Use clockwork.NewRealClock() in
// production; tests inject a fake clock to drive round deadlines.
func NewRegistry(source AnswerSource, b Broadcaster, clock clockwork.Clock, roundDuration time.Duration, defaultRounds int) *Registry {
	return &Registry{
		source:        source,
		broadcast:     b,
		clock:         clock,
		roundDuration: roundDuration,
		defaultRounds: defaultRounds,
		randIndex:     mathrand.IntN,
		sessions:      make(map[string]*Session),
		byConn:        make(map[string]string),
	}
}

// CreateSession registers a new session in the lobby state with the creator
// as host and sole player, and returns its join code.
func (r *Registry) CreateSession(connID string, totalRounds int) (string, error) {
	if totalRounds <= 0 {
		totalRounds = r.defaultRounds
	}

	r.mu.Lock()
	if _, ok := r.byConn[connID]; ok {
		r.mu.Unlock()
		return "", ErrDuplicateConnection
	}
	code, err := r.generateCodeLocked()
	if err != nil {
		r.mu.Unlock()
		return "", err
	}
	s := &Session{
		code:        code,
		hostID:      connID,
		state:       StateLobby,
		players:     []*Player{{ConnectionID: connID, Connected: true}},
		totalRounds: totalRounds,
		lastActive:  r.clock.Now(),
	}
	r.sessions[code] = s
	r.byConn[connID] = code
	r.mu.Unlock()

	r.broadcast.Bind(code, connID)
	r.broadcast.ToConn(connID, EvtGameCreated, GameCreatedPayload{Code: code, TotalRounds: totalRounds})
	log.Info().Str("code", code).Str("conn", connID).Int("rounds", totalRounds).Msg("session created")
	return code, nil
}

// JoinSession seats a connection in an existing session and broadcasts the
// updated roster to every member.
func (r *Registry) JoinSession(code, connID string) ([]PlayerView, error) {
	r.mu.Lock()
	if _, ok := r.byConn[connID]; ok {
		r.mu.Unlock()
		return nil, ErrDuplicateConnection
	}
	s, ok := r.sessions[code]
	if !ok {
		r.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	// Reserve the membership slot before touching session state so a
	// concurrent destroy cannot strand the index entry.
	r.byConn[connID] = code
	r.mu.Unlock()

	s.mu.Lock()
	var joinErr error
	switch {
	case s.state == StateFinished:
		joinErr = ErrSessionNotFound
	case len(s.players) >= MaxPlayers:
		joinErr = ErrSessionFull
	case s.findPlayerLocked(connID) != nil:
		joinErr = ErrDuplicateConnection
	}
	if joinErr != nil {
		s.mu.Unlock()
		r.mu.Lock()
		delete(r.byConn, connID)
		r.mu.Unlock()
		return nil, joinErr
	}
	s.players = append(s.players, &Player{ConnectionID: connID, Connected: true})
	s.lastActive = r.clock.Now()
	roster := s.rosterLocked()
	s.mu.Unlock()

	r.broadcast.Bind(code, connID)
	r.broadcast.ToSession(code, EvtPlayerJoined, RosterPayload{Code: code, Players: roster})
	log.Info().Str("code", code).Str("conn", connID).Msg("player joined")
	return roster, nil
}

// LookupSession returns a diagnostic snapshot of one session.
func (r *Registry) LookupSession(code string) (SessionSnapshot, error) {
	s, err := r.lookup(code)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return s.snapshot(), nil
}

// ListSessions returns read-only snapshots of every live session.
func (r *Registry) ListSessions() []SessionSnapshot {
	r.mu.RLock()
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.RUnlock()

	snaps := make([]SessionSnapshot, len(live))
	for i, s := range live {
		snaps[i] = s.snapshot()
	}
	return snaps
}

// RemoveSession drops a session regardless of its state. Idempotent.
func (r *Registry) RemoveSession(code string) {
	s, err := r.lookup(code)
	if err != nil {
		return
	}
	s.mu.Lock()
	r.destroyLocked(s)
	s.mu.Unlock()
}

// Disconnect removes a connection from whatever session it belongs to.
// A departure during an active round does not abort the round: the seat stays
// until resolution and is scored as an absent guess; the host leaving the
// lobby invalidates the whole session.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	code, ok := r.byConn[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.byConn, connID)
	s, live := r.sessions[code]
	r.mu.Unlock()
	if !live {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPlayerLocked(connID)
	if p == nil {
		return
	}

	if s.state == StateLobby {
		if connID == s.hostID {
			log.Info().Str("code", code).Msg("host left lobby, closing session")
			r.destroyLocked(s)
			return
		}
		s.removePlayerLocked(connID)
		if len(s.players) == 0 {
			r.destroyLocked(s)
			return
		}
		r.broadcast.Unbind(code, connID)
		r.broadcast.ToSession(code, EvtPlayerLeft, RosterPayload{Code: code, Players: s.rosterLocked()})
		return
	}

	// Mid-game: keep the seat for the current round, score it as absent.
	p.Connected = false
	p.Answered = false
	r.broadcast.Unbind(code, connID)
	log.Info().Str("code", code).Str("conn", connID).Msg("player disconnected mid-game")

	remaining := 0
	for _, pl := range s.players {
		if pl.Connected {
			remaining++
		}
	}
	if remaining == 0 {
		r.destroyLocked(s)
		return
	}
	if s.state == StateRoundActive && s.allAnsweredLocked() {
		r.resolveLocked(s)
	}
}

// Run reaps idle sessions until ctx is cancelled. The worst-case leak is a
// session whose host never starts the game; this keeps it time-bounded.
func (r *Registry) Run(ctx context.Context, interval, idleTTL time.Duration) {
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.reap(idleTTL)
		}
	}
}

func (r *Registry) reap(idleTTL time.Duration) {
	now := r.clock.Now()
	r.mu.RLock()
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.RUnlock()

	for _, s := range live {
		s.mu.Lock()
		if now.Sub(s.lastActive) >= idleTTL {
			log.Info().Str("code", s.code).Msg("reaping idle session")
			r.destroyLocked(s)
		}
		s.mu.Unlock()
	}
}

func (r *Registry) lookup(code string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[code]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// destroyLocked unregisters a session and releases its resources. Caller
// holds the session lock.
func (r *Registry) destroyLocked(s *Session) {
	s.cancelTimerLocked()
	s.state = StateFinished
	r.mu.Lock()
	delete(r.sessions, s.code)
	for _, p := range s.players {
		if r.byConn[p.ConnectionID] == s.code {
			delete(r.byConn, p.ConnectionID)
		}
	}
	r.mu.Unlock()
	r.broadcast.DropSession(s.code)
}

func (s *Session) removePlayerLocked(connID string) {
	for i, p := range s.players {
		if p.ConnectionID == connID {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return
		}
	}
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLen = 5

// generateCodeLocked creates a 5-char alphanumeric code unique among live
// sessions. Caller holds the registry lock.
func (r *Registry) generateCodeLocked() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := make([]byte, codeLen)
		for i := range code {
			code[i] = codeChars[int(b[i])%len(codeChars)]
		}
		if _, taken := r.sessions[string(code)]; !taken {
			return string(code), nil
		}
	}
	return "", fmt.Errorf("failed to generate unique session code")
}
