package lobby

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"duel/protocol"
	"duel/world"
)

type fakeConn struct {
	sendCh chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{sendCh: make(chan []byte, 256)}
}

func (f *fakeConn) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case f.sendCh <- cp:
		return nil
	default:
		return errors.New("fake conn buffer full")
	}
}

func (f *fakeConn) Close() error {
	return nil
}

// drain returns every frame delivered so far.
func (f *fakeConn) drain(t *testing.T) []protocol.Envelope {
	t.Helper()
	var out []protocol.Envelope
	for {
		select {
		case b := <-f.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

// waitFor reads frames until one of type typ arrives.
func (f *fakeConn) waitFor(t *testing.T, typ string, within time.Duration) protocol.Envelope {
	t.Helper()
	timeout := time.After(within)
	for {
		select {
		case b := <-f.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T == typ {
				return env
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", typ)
		}
	}
}

func testOptions() Options {
	return Options{
		RequestTimeout: time.Minute,
		GracePeriod:    time.Minute,
		Logger:         zerolog.Nop(),
	}
}

func startLobby(t *testing.T, opts Options) *Lobby {
	t.Helper()
	l := New(opts)
	go l.Run()
	t.Cleanup(l.Stop)
	return l
}

// setup connects, registers and places every id in the world, then discards
// the frames produced along the way.
func setup(t *testing.T, opts Options, ids ...string) (*Lobby, map[string]*fakeConn) {
	t.Helper()
	l := startLobby(t, opts)
	conns := make(map[string]*fakeConn, len(ids))
	for i, id := range ids {
		fc := newFakeConn()
		conns[id] = fc
		l.Post(Connect{ConnID: id, Conn: fc})
		l.Post(Register{ConnID: id, Name: "name-" + id, Symbol: "sym-" + id, Level: i + 1})
		l.Post(EnterWorld{ConnID: id, Pos: world.Position{X: float64(i), Y: float64(i)}})
	}
	settle(t, l)
	for _, fc := range conns {
		fc.drain(t)
	}
	return l, conns
}

// settle waits until every command posted so far has been handled.
func settle(t *testing.T, l *Lobby) {
	t.Helper()
	if !l.do(func() {}) {
		t.Fatalf("lobby stopped")
	}
}

func only(t *testing.T, envs []protocol.Envelope, typ string) []protocol.Envelope {
	t.Helper()
	var out []protocol.Envelope
	for _, e := range envs {
		if e.T == typ {
			out = append(out, e)
		}
	}
	return out
}

func one(t *testing.T, envs []protocol.Envelope, typ string) protocol.Envelope {
	t.Helper()
	got := only(t, envs, typ)
	if len(got) != 1 {
		t.Fatalf("got %d %q frames, want 1 (all: %v)", len(got), typ, types(envs))
	}
	return got[0]
}

func none(t *testing.T, envs []protocol.Envelope, typ string) {
	t.Helper()
	if got := only(t, envs, typ); len(got) != 0 {
		t.Fatalf("unexpected %q frames: %v", typ, types(envs))
	}
}

func types(envs []protocol.Envelope) []string {
	out := make([]string, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.T)
	}
	return out
}

func lastWorld(t *testing.T, envs []protocol.Envelope) map[string]protocol.PresenceSnapshot {
	t.Helper()
	updates := only(t, envs, protocol.MsgWorldUpdate)
	if len(updates) == 0 {
		t.Fatalf("no worldUpdate among %v", types(envs))
	}
	snap, err := protocol.DecodePayload[[]protocol.PresenceSnapshot](updates[len(updates)-1])
	if err != nil {
		t.Fatalf("decode world update: %v", err)
	}
	out := make(map[string]protocol.PresenceSnapshot, len(snap))
	for _, p := range snap {
		out[p.ID] = p
	}
	return out
}

func TestConnectSendsWelcome(t *testing.T) {
	l := startLobby(t, testOptions())
	fc := newFakeConn()
	l.Post(Connect{ConnID: "c1", Conn: fc})
	settle(t, l)

	welcome, err := protocol.DecodePayload[protocol.Welcome](one(t, fc.drain(t), protocol.MsgWelcome))
	if err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.ID != "c1" {
		t.Fatalf("welcome id = %q", welcome.ID)
	}
	if s := l.Stats(); s.Connections != 1 || s.Registered != 0 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestStopRejectsPosts(t *testing.T) {
	l := New(testOptions())
	go l.Run()
	l.Stop()
	if l.Post(LeaveWorld{ConnID: "x"}) {
		t.Fatalf("Post after Stop should report false")
	}
	if s := l.Stats(); s != (Stats{}) {
		t.Fatalf("stats after stop = %+v", s)
	}
}

func TestDuplicateDisconnectIsNoop(t *testing.T) {
	l, conns := setup(t, testOptions(), "a", "b")
	l.Post(Disconnect{ConnID: "a"})
	l.Post(Disconnect{ConnID: "a"})
	settle(t, l)

	if got := only(t, conns["b"].drain(t), protocol.MsgWorldUpdate); len(got) != 1 {
		t.Fatalf("want exactly one broadcast for one real disconnect, got %d", len(got))
	}
}
