package protocol

type Welcome struct {
	ID string `json:"id"`
}

// PresenceSnapshot is one entry of a worldUpdate array.
type PresenceSnapshot struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Level    int      `json:"level"`
	Pos      Position `json:"pos"`
	InBattle bool     `json:"inBattle"`
}

type ReqFailed struct {
	Reason string `json:"reason"`
}

type IncomingReq struct {
	FromID string `json:"fromId"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Level  int    `json:"level"`
}

type PvPStart struct {
	Role       string `json:"role"`
	OpponentID string `json:"opponentId"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Level      int    `json:"level"`
}

// DuelResult is the server-issued duelEnded, sent when a duel is forced to
// end. Client-issued duelEnded payloads are relayed untouched instead.
type DuelResult struct {
	Won    bool   `json:"won"`
	Reason string `json:"reason"`
}
