package lobby

import (
	"duel/protocol"
)

// broadcastWorld sends the complete presence set to every connection.
func (l *Lobby) broadcastWorld() {
	b, err := protocol.Encode(protocol.MsgWorldUpdate, l.buildSnapshot())
	if err != nil {
		l.log.Error().Err(err).Msg("encode world update")
		return
	}
	for id, c := range l.clients {
		if err := c.Send(b); err != nil {
			l.log.Debug().Err(err).Str("conn", id).Msg("world update not delivered")
		}
	}
}

func (l *Lobby) buildSnapshot() []protocol.PresenceSnapshot {
	present := l.registry.Snapshot()
	snapshot := make([]protocol.PresenceSnapshot, 0, len(present))
	for _, p := range present {
		snapshot = append(snapshot, protocol.PresenceSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Symbol:   p.Symbol,
			Level:    p.Level,
			Pos:      protocol.Position{X: p.Pos.X, Y: p.Pos.Y},
			InBattle: p.InBattle,
		})
	}
	return snapshot
}

// sendTo delivers one event to id. Unknown ids are ignored: the connection
// is already gone.
func (l *Lobby) sendTo(id, t string, payload any) {
	c, ok := l.clients[id]
	if !ok {
		return
	}
	b, err := protocol.Encode(t, payload)
	if err != nil {
		l.log.Error().Err(err).Str("event", t).Msg("encode outbound event")
		return
	}
	if err := c.Send(b); err != nil {
		l.log.Debug().Err(err).Str("conn", id).Str("event", t).Msg("event not delivered")
	}
}
