package game

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// State is the lifecycle phase of a session.
type State string

const (
	StateLobby          State = "lobby"
	StateRoundActive    State = "roundActive"
	StateRoundResolving State = "roundResolving"
	StateFinished       State = "finished"
)

// MaxPlayers caps session membership.
const MaxPlayers = 8

// Player is one seated connection. Guess and Answered reset every round;
// Score accumulates for the life of the session.
type Player struct {
	ConnectionID string
	Score        int
	Guess        int
	Answered     bool
	Connected    bool
}

// Session is one live game. All mutable fields are guarded by mu, which is
// the single serialization point for every mutation of the session: guess
// submissions, starts, deadline callbacks and disconnects for the same code
// each run to completion before the next is applied.
type Session struct {
	code   string
	hostID string

	mu          sync.Mutex
	state       State
	players     []*Player
	totalRounds int
	// round is 1-based; 0 means the game has not started.
	round        int
	correctIndex int
	// gen increments every time a round is armed; a deadline callback
	// carrying a stale generation is a no-op.
	gen        int
	timer      clockwork.Timer
	lastActive time.Time
}

func (s *Session) findPlayerLocked(connID string) *Player {
	for _, p := range s.players {
		if p.ConnectionID == connID {
			return p
		}
	}
	return nil
}

func (s *Session) rosterLocked() []PlayerView {
	views := make([]PlayerView, len(s.players))
	for i, p := range s.players {
		views[i] = PlayerView{
			ConnectionID: p.ConnectionID,
			Score:        p.Score,
			Answered:     p.Answered,
		}
	}
	return views
}

// standingsLocked returns the roster sorted descending by cumulative score.
func (s *Session) standingsLocked() []PlayerView {
	views := s.rosterLocked()
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Score > views[j].Score
	})
	return views
}

func (s *Session) resetRoundLocked() {
	for _, p := range s.players {
		p.Guess = 0
		p.Answered = false
	}
}

func (s *Session) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// allAnsweredLocked reports whether every still-connected player has answered.
// Departed players never block early resolution.
func (s *Session) allAnsweredLocked() bool {
	connected := 0
	for _, p := range s.players {
		if !p.Connected {
			continue
		}
		connected++
		if !p.Answered {
			return false
		}
	}
	return connected > 0
}

// dropDepartedLocked removes players that disconnected mid-round and reports
// whether the roster changed.
func (s *Session) dropDepartedLocked() bool {
	kept := s.players[:0]
	changed := false
	for _, p := range s.players {
		if p.Connected {
			kept = append(kept, p)
		} else {
			changed = true
		}
	}
	s.players = kept
	return changed
}

// SessionSnapshot is a read-only copy of one session for diagnostics.
type SessionSnapshot struct {
	Code        string       `json:"code"`
	State       State        `json:"state"`
	Round       int          `json:"round"`
	TotalRounds int          `json:"totalRounds"`
	Players     []PlayerView `json:"players"`
}

func (s *Session) snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		Code:        s.code,
		State:       s.state,
		Round:       s.round,
		TotalRounds: s.totalRounds,
		Players:     s.rosterLocked(),
	}
}
