package protocol

import "testing"

func TestMessageConstants(t *testing.T) {
	cases := map[string]string{
		MsgRegister:        "register",
		MsgEnterWorld:      "enterWorld",
		MsgLeaveWorld:      "leaveWorld",
		MsgSetBattle:       "setBattle",
		MsgRequestDuel:     "requestDuel",
		MsgCancelReq:       "cancelReq",
		MsgRespondReq:      "respondReq",
		MsgChoiceMade:      "choiceMade",
		MsgActionTaken:     "actionTaken",
		MsgDuelEnded:       "duelEnded",
		MsgWorldUpdate:     "worldUpdate",
		MsgReqFailed:       "reqFailed",
		MsgReqSent:         "reqSent",
		MsgIncomingReq:     "incomingReq",
		MsgReqExpired:      "reqExpired",
		MsgReqTimedOut:     "reqTimedOut",
		MsgReqDeclined:     "reqDeclined",
		MsgPvPStart:        "pvpStart",
		MsgOppDisconnected: "oppDisconnected",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("constant = %q, want %q", got, want)
		}
	}
}

func TestIsRelay(t *testing.T) {
	for _, name := range []string{MsgChoiceMade, MsgActionTaken, MsgDuelEnded} {
		if !IsRelay(name) {
			t.Fatalf("IsRelay(%q) = false, want true", name)
		}
	}
	for _, name := range []string{MsgRegister, MsgRespondReq, MsgWorldUpdate, ""} {
		if IsRelay(name) {
			t.Fatalf("IsRelay(%q) = true, want false", name)
		}
	}
}
