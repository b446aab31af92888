package game

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	op      string // bind, unbind, session, conn, drop
	code    string
	connID  string
	event   string
	payload interface{}
}

// stubBroadcaster records gateway operations in the order they were issued.
type stubBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *stubBroadcaster) record(e recordedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *stubBroadcaster) Bind(code, connID string) {
	b.record(recordedEvent{op: "bind", code: code, connID: connID})
}

func (b *stubBroadcaster) Unbind(code, connID string) {
	b.record(recordedEvent{op: "unbind", code: code, connID: connID})
}

func (b *stubBroadcaster) ToSession(code, event string, payload interface{}) {
	b.record(recordedEvent{op: "session", code: code, event: event, payload: payload})
}

func (b *stubBroadcaster) ToConn(connID, event string, payload interface{}) {
	b.record(recordedEvent{op: "conn", connID: connID, event: event, payload: payload})
}

func (b *stubBroadcaster) DropSession(code string) {
	b.record(recordedEvent{op: "drop", code: code})
}

func (b *stubBroadcaster) count(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (b *stubBroadcaster) payloads(event string) []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []interface{}
	for _, e := range b.events {
		if e.event == event {
			out = append(out, e.payload)
		}
	}
	return out
}

type fixedSource struct {
	n int
}

func (s fixedSource) Size() int { return s.n }

const testCorpusSize = 1000

func newTestRegistry(b *stubBroadcaster, clock clockwork.Clock) *Registry {
	return NewRegistry(fixedSource{n: testCorpusSize}, b, clock, time.Minute, 3)
}

func TestCreateSession_CodesAreUniqueAndWellFormed(t *testing.T) {
	b := &stubBroadcaster{}
	r := newTestRegistry(b, clockwork.NewFakeClock())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := r.CreateSession(connName(i), 3)
		require.NoError(t, err)
		require.Len(t, code, 5)
		for _, c := range code {
			assert.Contains(t, codeChars, string(c))
		}
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Len(t, r.ListSessions(), 50)
}

func TestCreateSession_CreatorIsSoleHostPlayer(t *testing.T) {
	b := &stubBroadcaster{}
	r := newTestRegistry(b, clockwork.NewFakeClock())

	code, err := r.CreateSession("host", 5)
	require.NoError(t, err)

	snap, err := r.LookupSession(code)
	require.NoError(t, err)
	assert.Equal(t, StateLobby, snap.State)
	assert.Equal(t, 0, snap.Round)
	assert.Equal(t, 5, snap.TotalRounds)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "host", snap.Players[0].ConnectionID)
	assert.Equal(t, 0, snap.Players[0].Score)

	assert.Equal(t, 1, b.count(EvtGameCreated))
}

func TestJoinSession(t *testing.T) {
	b := &stubBroadcaster{}
	r := newTestRegistry(b, clockwork.NewFakeClock())
	code, err := r.CreateSession("host", 3)
	require.NoError(t, err)

	roster, err := r.JoinSession(code, "p2")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "p2", roster[1].ConnectionID)

	t.Run("unknown code", func(t *testing.T) {
		_, err := r.JoinSession("XXXXX", "p3")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("duplicate connection", func(t *testing.T) {
		_, err := r.JoinSession(code, "p2")
		assert.ErrorIs(t, err, ErrDuplicateConnection)
	})

	t.Run("ninth join fails with full", func(t *testing.T) {
		for i := 3; i <= MaxPlayers; i++ {
			_, err := r.JoinSession(code, connName(i))
			require.NoError(t, err)
		}
		_, err := r.JoinSession(code, "p9")
		assert.ErrorIs(t, err, ErrSessionFull)

		snap, err := r.LookupSession(code)
		require.NoError(t, err)
		assert.Len(t, snap.Players, MaxPlayers)
	})
}

func TestStartGame_HostOnly(t *testing.T) {
	b := &stubBroadcaster{}
	r := newTestRegistry(b, clockwork.NewFakeClock())
	code, err := r.CreateSession("host", 3)
	require.NoError(t, err)
	_, err = r.JoinSession(code, "p2")
	require.NoError(t, err)

	err = r.StartGame(code, "p2")
	assert.ErrorIs(t, err, ErrNotHost)
	assert.Zero(t, b.count(EvtGameStarted))

	snap, err := r.LookupSession(code)
	require.NoError(t, err)
	assert.Equal(t, StateLobby, snap.State)

	require.NoError(t, r.StartGame(code, "host"))
	assert.Equal(t, 1, b.count(EvtGameStarted))
	assert.Equal(t, 1, b.count(EvtRoundStarted))

	snap, err = r.LookupSession(code)
	require.NoError(t, err)
	assert.Equal(t, StateRoundActive, snap.State)
	assert.Equal(t, 1, snap.Round)

	t.Run("second start rejected", func(t *testing.T) {
		err := r.StartGame(code, "host")
		assert.ErrorIs(t, err, ErrNotInLobby)
	})
}

func TestSubmitGuess_Validation(t *testing.T) {
	b := &stubBroadcaster{}
	r := newTestRegistry(b, clockwork.NewFakeClock())
	code, err := r.CreateSession("host", 3)
	require.NoError(t, err)
	_, err = r.JoinSession(code, "p2")
	require.NoError(t, err)

	t.Run("before start", func(t *testing.T) {
		err := r.SubmitGuess(code, "host", 1)
		assert.ErrorIs(t, err, ErrRoundNotActive)
	})

	require.NoError(t, r.StartGame(code, "host"))

	t.Run("out of corpus range", func(t *testing.T) {
		assert.ErrorIs(t, r.SubmitGuess(code, "host", -1), ErrInvalidGuess)
		assert.ErrorIs(t, r.SubmitGuess(code, "host", testCorpusSize), ErrInvalidGuess)
	})

	t.Run("unknown code", func(t *testing.T) {
		assert.ErrorIs(t, r.SubmitGuess("XXXXX", "host", 1), ErrSessionNotFound)
	})

	t.Run("non-member", func(t *testing.T) {
		assert.ErrorIs(t, r.SubmitGuess(code, "stranger", 1), ErrSessionNotFound)
	})

	t.Run("valid guess acknowledged", func(t *testing.T) {
		require.NoError(t, r.SubmitGuess(code, "host", 10))
		assert.Equal(t, 1, b.count(EvtGuessSubmitted))
	})
}

func TestRemoveSession_Idempotent(t *testing.T) {
	b := &stubBroadcaster{}
	r := newTestRegistry(b, clockwork.NewFakeClock())
	code, err := r.CreateSession("host", 3)
	require.NoError(t, err)

	r.RemoveSession(code)
	r.RemoveSession(code)

	_, err = r.LookupSession(code)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	// The host's connection is free to create or join again.
	_, err = r.CreateSession("host", 3)
	assert.NoError(t, err)
}

func TestDisconnect_HostInLobbyClosesSession(t *testing.T) {
	b := &stubBroadcaster{}
	r := newTestRegistry(b, clockwork.NewFakeClock())
	code, err := r.CreateSession("host", 3)
	require.NoError(t, err)
	_, err = r.JoinSession(code, "p2")
	require.NoError(t, err)

	r.Disconnect("host")

	_, err = r.JoinSession(code, "p3")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	// The orphaned member is released too.
	_, err = r.CreateSession("p2", 3)
	assert.NoError(t, err)
}

func TestDisconnect_NonHostInLobbyBroadcastsLeave(t *testing.T) {
	b := &stubBroadcaster{}
	r := newTestRegistry(b, clockwork.NewFakeClock())
	code, err := r.CreateSession("host", 3)
	require.NoError(t, err)
	_, err = r.JoinSession(code, "p2")
	require.NoError(t, err)

	r.Disconnect("p2")

	assert.Equal(t, 1, b.count(EvtPlayerLeft))
	snap, err := r.LookupSession(code)
	require.NoError(t, err)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "host", snap.Players[0].ConnectionID)
}

func TestReaper_RemovesIdleSessions(t *testing.T) {
	b := &stubBroadcaster{}
	fc := clockwork.NewFakeClock()
	r := newTestRegistry(b, fc)

	code, err := r.CreateSession("host", 3)
	require.NoError(t, err)

	fc.Advance(29 * time.Minute)
	r.reap(30 * time.Minute)
	_, err = r.LookupSession(code)
	require.NoError(t, err, "session should survive below the idle TTL")

	fc.Advance(2 * time.Minute)
	r.reap(30 * time.Minute)
	_, err = r.LookupSession(code)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func connName(i int) string {
	return "conn-" + string(rune('A'+i/26)) + string(rune('A'+i%26))
}
