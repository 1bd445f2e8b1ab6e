package lobby

import (
	"time"

	"duel/observability"
	"duel/protocol"
)

// ReasonOpponentDisconnected is sent with the forced win after a grace period.
const ReasonOpponentDisconnected = "Opponent disconnected."

// duelEntry is one side of a duel session. Entries are mirrored for both
// participants, except while a survivor waits out its opponent's grace period.
type duelEntry struct {
	opponentID string
	grace      *time.Timer
	graceToken uint64
}

func (d *duelEntry) stopGrace() {
	if d.grace != nil {
		d.grace.Stop()
		d.grace = nil
		d.graceToken = 0
	}
}

func (l *Lobby) inDuel(id string) bool {
	_, ok := l.duels[id]
	return ok
}

// startDuel marks both participants in battle, broadcasts once, creates the
// session and tells each side who it faces. a is the requester.
func (l *Lobby) startDuel(a, b string) {
	l.registry.SetInBattle(a, true)
	l.registry.SetInBattle(b, true)
	l.broadcastWorld()

	l.createSession(a, b)

	pa, pb := l.profileOf(a), l.profileOf(b)
	l.sendTo(a, protocol.MsgPvPStart, protocol.PvPStart{
		Role:       protocol.RoleA,
		OpponentID: b,
		Name:       pb.Name,
		Symbol:     pb.Symbol,
		Level:      pb.Level,
	})
	l.sendTo(b, protocol.MsgPvPStart, protocol.PvPStart{
		Role:       protocol.RoleB,
		OpponentID: a,
		Name:       pa.Name,
		Symbol:     pa.Symbol,
		Level:      pa.Level,
	})
	l.log.Info().Str("a", a).Str("b", b).Msg("duel started")
}

func (l *Lobby) createSession(a, b string) {
	l.duels[a] = &duelEntry{opponentID: b}
	l.duels[b] = &duelEntry{opponentID: a}
}

// handleRelay forwards a duel message to the sender's opponent. A duelEnded
// from either side also ends the session.
func (l *Lobby) handleRelay(c Relay) {
	if !protocol.IsRelay(c.Event) {
		return
	}
	d, ok := l.duels[c.ConnID]
	if !ok {
		l.log.Debug().Str("conn", c.ConnID).Str("event", c.Event).Msg("relay without session dropped")
		return
	}

	var payload any
	if len(c.Payload) > 0 {
		payload = c.Payload
	}
	l.sendTo(d.opponentID, c.Event, payload)
	observability.RecordRelay(c.Event)

	if c.Event == protocol.MsgDuelEnded {
		l.cleanup(c.ConnID, d.opponentID)
		l.log.Info().Str("a", c.ConnID).Str("b", d.opponentID).Msg("duel ended")
	}
}

// duelDisconnect handles a participant leaving mid-duel. The opponent is
// notified and given a grace period; when the opponent is itself waiting out
// a grace period its session is finished at once.
func (l *Lobby) duelDisconnect(id string) {
	d, ok := l.duels[id]
	if !ok {
		return
	}
	delete(l.duels, id)

	opp, ok := l.duels[d.opponentID]
	if !ok || opp.opponentID != id {
		d.stopGrace()
		l.cleanup(id, d.opponentID)
		return
	}

	l.sendTo(d.opponentID, protocol.MsgOppDisconnected, nil)
	opp.stopGrace()
	opp.graceToken = l.token()
	opp.grace = l.after(l.gracePeriod, graceExpired{survivorID: d.opponentID, token: opp.graceToken})
	l.log.Info().Str("conn", id).Str("opponent", d.opponentID).Msg("duel participant disconnected")
}

func (l *Lobby) handleGraceExpired(e graceExpired) {
	d, ok := l.duels[e.survivorID]
	if !ok || d.grace == nil || d.graceToken != e.token {
		l.log.Debug().Str("conn", e.survivorID).Msg("stale grace expiry ignored")
		return
	}
	observability.RecordGraceExpired()
	l.sendTo(e.survivorID, protocol.MsgDuelEnded, protocol.DuelResult{
		Won:    true,
		Reason: ReasonOpponentDisconnected,
	})
	l.cleanup(e.survivorID, d.opponentID)
}

// cleanup ends the session between a and b. Safe to call for ids that no
// longer hold sessions.
func (l *Lobby) cleanup(a, b string) {
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		id, other := pair[0], pair[1]
		if d, ok := l.duels[id]; ok && d.opponentID == other {
			d.stopGrace()
			delete(l.duels, id)
		}
		l.registry.SetInBattle(id, false)
	}
	l.broadcastWorld()
}
