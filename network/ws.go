package network

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"duel/lobby"
	"duel/protocol"
)

type WSConfig struct {
	// AllowedOrigins lists accepted Origin headers; "*" accepts any.
	AllowedOrigins []string
	SendBuffer     int
	Logger         zerolog.Logger
}

// WSHandler upgrades HTTP requests and bridges each socket to the lobby.
type WSHandler struct {
	lobby    *lobby.Lobby
	upgrader websocket.Upgrader
	buffer   int
	log      zerolog.Logger
	newID    func() string
}

func NewWSHandler(l *lobby.Lobby, cfg WSConfig) *WSHandler {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	return &WSHandler{
		lobby: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		buffer: cfg.SendBuffer,
		log:    cfg.Logger.With().Str("component", "ws").Logger(),
		newID:  uuid.NewString,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade failed")
		return
	}

	c := newWSConn(h.newID(), ws, h.buffer)
	if !h.lobby.Post(lobby.Connect{ConnID: c.id, Conn: c}) {
		c.Close()
		return
	}
	go c.writePump()
	h.readPump(c)
}

// readPump decodes inbound frames until the socket fails, then reports the
// disconnect to the lobby exactly once.
func (h *WSHandler) readPump(c *wsConn) {
	defer func() {
		c.Close()
		h.lobby.Post(lobby.Disconnect{ConnID: c.id})
	}()

	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			h.log.Debug().Err(err).Str("conn", c.id).Msg("read ended")
			return
		}
		// Any frame proves the peer is alive.
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			h.log.Warn().Err(err).Str("conn", c.id).Msg("discarding malformed frame")
			continue
		}
		cmd, err := decodeCommand(c.id, env)
		if err != nil {
			h.log.Warn().Err(err).Str("conn", c.id).Msg("discarding frame")
			continue
		}
		if !h.lobby.Post(cmd) {
			return
		}
	}
}
