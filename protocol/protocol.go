package protocol

import (
	"encoding/json"
)

// Inbound events, client -> server.
const (
	MsgRegister    = "register"
	MsgEnterWorld  = "enterWorld"
	MsgLeaveWorld  = "leaveWorld"
	MsgSetBattle   = "setBattle"
	MsgRequestDuel = "requestDuel"
	MsgCancelReq   = "cancelReq"
	MsgRespondReq  = "respondReq"
)

// Duel relay events. Accepted inbound and forwarded to the opponent unchanged.
const (
	MsgChoiceMade  = "choiceMade"
	MsgActionTaken = "actionTaken"
	MsgDuelEnded   = "duelEnded"
)

// Outbound events, server -> client.
const (
	MsgWelcome         = "welcome"
	MsgWorldUpdate     = "worldUpdate"
	MsgReqFailed       = "reqFailed"
	MsgReqSent         = "reqSent"
	MsgIncomingReq     = "incomingReq"
	MsgReqExpired      = "reqExpired"
	MsgReqTimedOut     = "reqTimedOut"
	MsgReqDeclined     = "reqDeclined"
	MsgPvPStart        = "pvpStart"
	MsgOppDisconnected = "oppDisconnected"
)

// Duel roles carried by pvpStart. A is the requester, B the responder.
const (
	RoleA = "A"
	RoleB = "B"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}

// IsRelay reports whether t is forwarded verbatim between duel opponents.
func IsRelay(t string) bool {
	switch t {
	case MsgChoiceMade, MsgActionTaken, MsgDuelEnded:
		return true
	}
	return false
}
