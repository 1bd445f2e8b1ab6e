package lobby

import (
	"time"

	"duel/observability"
	"duel/protocol"
	"duel/world"
)

// Reasons carried by reqFailed.
const (
	ReasonTargetLeft    = "Player left."
	ReasonTargetInDuel  = "Player is in a duel."
	ReasonTargetPending = "Player has a pending request."
	ReasonSelf          = "You cannot duel yourself."
	ReasonNotInWorld    = "You are not in the world."
)

// pendingRequest is an outstanding duel request. At most one exists per
// target; the requester side is not limited.
type pendingRequest struct {
	targetID string
	fromID   string
	timer    *time.Timer
	token    uint64
}

func (l *Lobby) handleRequestDuel(c RequestDuel) {
	if reason, outcome := l.requestPrecondition(c.ConnID, c.TargetID); reason != "" {
		observability.RecordRequest(outcome)
		l.sendTo(c.ConnID, protocol.MsgReqFailed, protocol.ReqFailed{Reason: reason})
		return
	}

	token := l.token()
	l.pending[c.TargetID] = &pendingRequest{
		targetID: c.TargetID,
		fromID:   c.ConnID,
		token:    token,
		timer:    l.after(l.requestTimeout, requestExpired{targetID: c.TargetID, token: token}),
	}
	observability.RecordRequest(observability.OutcomeSent)

	me := l.profileOf(c.ConnID)
	l.sendTo(c.TargetID, protocol.MsgIncomingReq, protocol.IncomingReq{
		FromID: c.ConnID,
		Name:   me.Name,
		Symbol: me.Symbol,
		Level:  me.Level,
	})
	l.sendTo(c.ConnID, protocol.MsgReqSent, nil)
	l.log.Debug().Str("from", c.ConnID).Str("target", c.TargetID).Msg("duel requested")
}

// requestPrecondition returns the first failing check as a reqFailed reason
// and metrics outcome, or empty strings when the request may proceed.
func (l *Lobby) requestPrecondition(fromID, targetID string) (string, string) {
	tgt, ok := l.registry.Presence(targetID)
	switch {
	case !ok:
		return ReasonTargetLeft, observability.OutcomeFailedTargetLeft
	case tgt.InBattle:
		return ReasonTargetInDuel, observability.OutcomeFailedTargetInDuel
	}
	if _, exists := l.pending[targetID]; exists {
		return ReasonTargetPending, observability.OutcomeFailedPending
	}
	if fromID == targetID {
		return ReasonSelf, observability.OutcomeFailedOther
	}
	if !l.registry.InWorld(fromID) {
		return ReasonNotInWorld, observability.OutcomeFailedOther
	}
	return "", ""
}

func (l *Lobby) handleCancelRequest(c CancelRequest) {
	req, ok := l.pending[c.TargetID]
	if !ok || req.fromID != c.ConnID {
		return
	}
	l.dropRequest(req)
	observability.RecordRequest(observability.OutcomeCancelled)
	l.sendTo(req.targetID, protocol.MsgReqTimedOut, nil)
}

func (l *Lobby) handleRespondRequest(c RespondRequest) {
	req, ok := l.pending[c.ConnID]
	if !ok {
		return
	}
	l.dropRequest(req)

	if !c.Accepted {
		observability.RecordRequest(observability.OutcomeDeclined)
		l.sendTo(req.fromID, protocol.MsgReqDeclined, nil)
		return
	}

	// Pending requests are keyed by target only, so either side may have
	// entered another duel while this one waited.
	if l.inDuel(req.fromID) || l.inDuel(req.targetID) {
		observability.RecordRequest(observability.OutcomeFailedOther)
		l.sendTo(req.targetID, protocol.MsgReqFailed, protocol.ReqFailed{Reason: ReasonTargetInDuel})
		l.sendTo(req.fromID, protocol.MsgReqDeclined, nil)
		return
	}

	observability.RecordRequest(observability.OutcomeAccepted)
	l.startDuel(req.fromID, req.targetID)
}

func (l *Lobby) handleRequestExpired(e requestExpired) {
	req, ok := l.pending[e.targetID]
	if !ok || req.token != e.token {
		l.log.Debug().Str("target", e.targetID).Msg("stale request expiry ignored")
		return
	}
	delete(l.pending, e.targetID)
	observability.RecordRequest(observability.OutcomeExpired)
	l.sendTo(req.fromID, protocol.MsgReqExpired, nil)
	l.sendTo(req.targetID, protocol.MsgReqTimedOut, nil)
}

// requestsDisconnect drops every request id sent and the one pending against
// it, if any.
func (l *Lobby) requestsDisconnect(id string) {
	for _, req := range l.pending {
		if req.fromID != id {
			continue
		}
		l.dropRequest(req)
		observability.RecordRequest(observability.OutcomeAborted)
		l.sendTo(req.targetID, protocol.MsgReqTimedOut, nil)
	}
	if req, ok := l.pending[id]; ok {
		l.dropRequest(req)
		observability.RecordRequest(observability.OutcomeAborted)
		l.sendTo(req.fromID, protocol.MsgReqExpired, nil)
	}
}

func (l *Lobby) dropRequest(req *pendingRequest) {
	req.timer.Stop()
	delete(l.pending, req.targetID)
}

// profileOf prefers the in-world copy, falling back to the registered profile.
func (l *Lobby) profileOf(id string) world.Profile {
	if p, ok := l.registry.Presence(id); ok {
		return p.Profile
	}
	p, _ := l.registry.Profile(id)
	return p
}
