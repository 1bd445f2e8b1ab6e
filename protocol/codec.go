package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyFrame   = errors.New("protocol: empty frame")
	ErrEmptyPayload = errors.New("protocol: empty payload")
	ErrUnknownEvent = errors.New("protocol: unknown event")
)

// Encode wraps payload in an envelope of type t. A nil payload produces an
// envelope without "p".
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope with empty type")
	}
	var e = Envelope{T: t}
	if payload != nil {
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %q payload: %w", t, err)
		}
		e.P = pb
	}
	return json.Marshal(e)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type: %w", ErrUnknownEvent)
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("payload for type %q: %w", env.T, ErrEmptyPayload)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("payload for type %q: %w", env.T, err)
	}
	return out, nil
}
