package game

import (
	"github.com/rs/zerolog/log"
)

// StartGame begins round 1. Only the host may start, and only from the lobby.
func (r *Registry) StartGame(code, connID string) error {
	s, err := r.lookup(code)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if connID != s.hostID {
		return ErrNotHost
	}
	if s.state != StateLobby {
		return ErrNotInLobby
	}
	s.lastActive = r.clock.Now()
	r.broadcast.ToSession(code, EvtGameStarted, GameStartedPayload{Code: code, TotalRounds: s.totalRounds})
	r.startRoundLocked(s, 1)
	log.Info().Str("code", code).Int("rounds", s.totalRounds).Msg("game started")
	return nil
}

// SubmitGuess records a member's guess for the active round. A repeat
// submission within the same round overwrites the previous one.
func (r *Registry) SubmitGuess(code, connID string, guess int) error {
	if guess < 0 || guess >= r.source.Size() {
		return ErrInvalidGuess
	}
	s, err := r.lookup(code)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRoundActive {
		return ErrRoundNotActive
	}
	p := s.findPlayerLocked(connID)
	if p == nil || !p.Connected {
		return ErrSessionNotFound
	}
	p.Guess = guess
	p.Answered = true
	s.lastActive = r.clock.Now()
	r.broadcast.ToSession(code, EvtGuessSubmitted, GuessSubmittedPayload{Code: code, ConnectionID: connID})

	if s.allAnsweredLocked() {
		r.resolveLocked(s)
	}
	return nil
}

// startRoundLocked arms round n: fresh correct answer, per-round player state
// reset, new deadline timer. Any previous timer is cancelled first and the
// generation counter is bumped so its callback, if already queued, is inert.
func (r *Registry) startRoundLocked(s *Session, n int) {
	s.cancelTimerLocked()
	s.gen++
	s.round = n
	s.correctIndex = r.randIndex(r.source.Size())
	s.resetRoundLocked()
	s.state = StateRoundActive

	gen := s.gen
	s.timer = r.clock.AfterFunc(r.roundDuration, func() {
		r.onDeadline(s, gen)
	})

	r.broadcast.ToSession(s.code, EvtRoundStarted, RoundStartedPayload{Code: s.code, Round: n})
}

// onDeadline is the round timer callback. It races with early resolution by
// design; the generation check makes the loser a silent no-op.
func (r *Registry) onDeadline(s *Session, gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state != StateRoundActive {
		return
	}
	log.Debug().Str("code", s.code).Int("round", s.round).Msg("round deadline reached")
	r.resolveLocked(s)
}

// resolveLocked scores the current round exactly once, then either starts the
// next round or finishes the game. Caller holds the session lock and has
// verified the session is in StateRoundActive.
func (r *Registry) resolveLocked(s *Session) {
	s.state = StateRoundResolving
	s.cancelTimerLocked()

	guesses := make([]Guess, len(s.players))
	for i, p := range s.players {
		guesses[i] = Guess{
			ConnectionID: p.ConnectionID,
			Index:        p.Guess,
			Submitted:    p.Connected && p.Answered,
		}
	}
	deltas := ScoreRound(s.correctIndex, guesses)
	for _, p := range s.players {
		p.Score += deltas[p.ConnectionID]
	}
	r.broadcast.ToSession(s.code, EvtRoundEnded, RoundEndedPayload{
		Code:         s.code,
		Round:        s.round,
		CorrectIndex: s.correctIndex,
		Players:      s.rosterLocked(),
	})
	log.Debug().Str("code", s.code).Int("round", s.round).Msg("round resolved")

	if s.dropDepartedLocked() && len(s.players) > 0 {
		r.broadcast.ToSession(s.code, EvtPlayerLeft, RosterPayload{Code: s.code, Players: s.rosterLocked()})
	}
	if len(s.players) == 0 {
		r.destroyLocked(s)
		return
	}

	s.lastActive = r.clock.Now()
	if s.round < s.totalRounds {
		r.startRoundLocked(s, s.round+1)
		return
	}

	s.state = StateFinished
	r.broadcast.ToSession(s.code, EvtGameEnded, GameEndedPayload{Code: s.code, Players: s.standingsLocked()})
	log.Info().Str("code", s.code).Msg("game ended")
	r.destroyLocked(s)
}
