package network

import (
	"fmt"

	"duel/lobby"
	"duel/protocol"
	"duel/world"
)

// decodeCommand maps one inbound envelope from connID to a lobby command.
func decodeCommand(connID string, env protocol.Envelope) (any, error) {
	switch env.T {
	case protocol.MsgRegister:
		p, err := protocol.DecodePayload[protocol.Register](env)
		if err != nil {
			return nil, err
		}
		return lobby.Register{ConnID: connID, Name: p.Name, Symbol: p.Symbol, Level: p.Level}, nil
	case protocol.MsgEnterWorld:
		var pos protocol.Position
		if len(env.P) > 0 {
			p, err := protocol.DecodePayload[protocol.Position](env)
			if err != nil {
				return nil, err
			}
			pos = p
		}
		return lobby.EnterWorld{ConnID: connID, Pos: world.Position{X: pos.X, Y: pos.Y}}, nil
	case protocol.MsgLeaveWorld:
		return lobby.LeaveWorld{ConnID: connID}, nil
	case protocol.MsgSetBattle:
		on, err := protocol.DecodePayload[bool](env)
		if err != nil {
			return nil, err
		}
		return lobby.SetBattle{ConnID: connID, InBattle: on}, nil
	case protocol.MsgRequestDuel:
		target, err := protocol.DecodePayload[string](env)
		if err != nil {
			return nil, err
		}
		return lobby.RequestDuel{ConnID: connID, TargetID: target}, nil
	case protocol.MsgCancelReq:
		target, err := protocol.DecodePayload[string](env)
		if err != nil {
			return nil, err
		}
		return lobby.CancelRequest{ConnID: connID, TargetID: target}, nil
	case protocol.MsgRespondReq:
		accepted, err := protocol.DecodePayload[bool](env)
		if err != nil {
			return nil, err
		}
		return lobby.RespondRequest{ConnID: connID, Accepted: accepted}, nil
	case protocol.MsgChoiceMade, protocol.MsgActionTaken, protocol.MsgDuelEnded:
		return lobby.Relay{ConnID: connID, Event: env.T, Payload: env.P}, nil
	default:
		return nil, fmt.Errorf("event %q: %w", env.T, protocol.ErrUnknownEvent)
	}
}
