package lobby

import (
	"encoding/json"

	"duel/world"
)

// Conn is the outbound half of a client connection. Send must not block; the
// lobby goroutine calls it while holding all coordinator state.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Connect: issued once when the transport accepts a connection.
type Connect struct {
	ConnID string
	Conn   Conn
}

// Disconnect: issued once when the transport loses a connection.
type Disconnect struct {
	ConnID string
}

type Register struct {
	ConnID string
	Name   string
	Symbol string
	Level  int
}

type EnterWorld struct {
	ConnID string
	Pos    world.Position
}

type LeaveWorld struct {
	ConnID string
}

type SetBattle struct {
	ConnID   string
	InBattle bool
}

type RequestDuel struct {
	ConnID   string
	TargetID string
}

type CancelRequest struct {
	ConnID   string
	TargetID string
}

// RespondRequest answers the request pending against ConnID.
type RespondRequest struct {
	ConnID   string
	Accepted bool
}

// Relay carries a duel message for the sender's opponent. Payload is never
// inspected.
type Relay struct {
	ConnID  string
	Event   string
	Payload json.RawMessage
}

// Timer firings, posted by time.AfterFunc callbacks.

type requestExpired struct {
	targetID string
	token    uint64
}

type graceExpired struct {
	survivorID string
	token      uint64
}

// inspect runs fn on the lobby goroutine.
type inspect struct {
	fn   func()
	done chan struct{}
}
