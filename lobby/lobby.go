package lobby

import (
	"time"

	"github.com/rs/zerolog"

	"duel/observability"
	"duel/protocol"
	"duel/world"
)

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultGracePeriod    = 20 * time.Second
)

type Options struct {
	RequestTimeout time.Duration
	GracePeriod    time.Duration
	Logger         zerolog.Logger
}

// Lobby coordinates presence, duel requests and duel sessions. All state is
// owned by the Run goroutine; connection events and timer firings reach it
// through Inbox and are handled one at a time.
type Lobby struct {
	Inbox chan any

	requestTimeout time.Duration
	gracePeriod    time.Duration
	log            zerolog.Logger

	clients  map[string]Conn
	registry *world.Registry
	pending  map[string]*pendingRequest // keyed by target id
	duels    map[string]*duelEntry      // one entry per participant

	nextToken uint64
	quit      chan struct{}
}

func New(opts Options) *Lobby {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	return &Lobby{
		Inbox:          make(chan any, 256),
		requestTimeout: opts.RequestTimeout,
		gracePeriod:    opts.GracePeriod,
		log:            opts.Logger.With().Str("component", "lobby").Logger(),
		clients:        make(map[string]Conn),
		registry:       world.NewRegistry(),
		pending:        make(map[string]*pendingRequest),
		duels:          make(map[string]*duelEntry),
		quit:           make(chan struct{}),
	}
}

func (l *Lobby) Stop() {
	close(l.quit)
}

func (l *Lobby) Run() {
	for {
		select {
		case <-l.quit:
			l.stopTimers()
			return
		case cmd := <-l.Inbox:
			l.handleCommand(cmd)
		}
	}
}

// Post queues cmd for the lobby goroutine. It reports false once the lobby
// has stopped.
func (l *Lobby) Post(cmd any) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case <-l.quit:
		return false
	case l.Inbox <- cmd:
		return true
	}
}

func (l *Lobby) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Connect:
		l.handleConnect(c)
	case Register:
		l.handleRegister(c)
	case EnterWorld:
		l.handleEnterWorld(c)
	case LeaveWorld:
		l.handleLeaveWorld(c)
	case SetBattle:
		l.handleSetBattle(c)
	case RequestDuel:
		l.handleRequestDuel(c)
	case CancelRequest:
		l.handleCancelRequest(c)
	case RespondRequest:
		l.handleRespondRequest(c)
	case Relay:
		l.handleRelay(c)
	case Disconnect:
		l.handleDisconnect(c.ConnID)
	case requestExpired:
		l.handleRequestExpired(c)
	case graceExpired:
		l.handleGraceExpired(c)
	case inspect:
		c.fn()
		close(c.done)
	default:
		l.log.Warn().Msgf("unknown lobby command %T", cmd)
	}
	observability.SetLobbyGauges(len(l.clients), l.registry.NumInWorld(), len(l.duels))
}

func (l *Lobby) handleConnect(c Connect) {
	if c.Conn == nil || c.ConnID == "" {
		return
	}
	l.clients[c.ConnID] = c.Conn
	l.sendTo(c.ConnID, protocol.MsgWelcome, protocol.Welcome{ID: c.ConnID})
	l.log.Debug().Str("conn", c.ConnID).Msg("connected")
}

// handleDisconnect runs the cleanup cascade: duel session first, then
// pending requests, then presence, so the final broadcast reflects the
// state after every other cleanup.
func (l *Lobby) handleDisconnect(id string) {
	if _, ok := l.clients[id]; !ok && !l.known(id) {
		l.log.Debug().Str("conn", id).Msg("disconnect for unknown connection")
		return
	}
	l.duelDisconnect(id)
	l.requestsDisconnect(id)
	delete(l.clients, id)
	l.registry.Remove(id)
	l.broadcastWorld()
	l.log.Info().Str("conn", id).Msg("disconnected")
}

func (l *Lobby) known(id string) bool {
	if _, ok := l.registry.Profile(id); ok {
		return true
	}
	if _, ok := l.duels[id]; ok {
		return true
	}
	_, ok := l.pending[id]
	return ok
}

func (l *Lobby) token() uint64 {
	l.nextToken++
	return l.nextToken
}

// after schedules cmd to be posted once d has elapsed.
func (l *Lobby) after(d time.Duration, cmd any) *time.Timer {
	return time.AfterFunc(d, func() { l.Post(cmd) })
}

func (l *Lobby) stopTimers() {
	for _, req := range l.pending {
		req.timer.Stop()
	}
	for _, d := range l.duels {
		d.stopGrace()
	}
}

// Stats is a point-in-time view of the lobby population.
type Stats struct {
	Connections     int `json:"connections"`
	Registered      int `json:"registered"`
	InWorld         int `json:"inWorld"`
	PendingRequests int `json:"pendingRequests"`
	DuelEntries     int `json:"duelEntries"`
}

// Stats queries the lobby goroutine. It returns the zero value once the
// lobby has stopped.
func (l *Lobby) Stats() Stats {
	var s Stats
	l.do(func() {
		s = Stats{
			Connections:     len(l.clients),
			Registered:      l.registry.NumRegistered(),
			InWorld:         l.registry.NumInWorld(),
			PendingRequests: len(l.pending),
			DuelEntries:     len(l.duels),
		}
	})
	return s
}

// do runs fn on the lobby goroutine and waits for it. Every command posted
// before do has been handled when it returns.
func (l *Lobby) do(fn func()) bool {
	done := make(chan struct{})
	if !l.Post(inspect{fn: fn, done: done}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-l.quit:
		return false
	}
}
