package protocol

// Payloads coming in from the client. requestDuel and cancelReq carry a bare
// target id string, setBattle and respondReq a bare boolean.

type Register struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Level  int    `json:"level"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
