package world

// Authoritative presence state. Owned by a single goroutine; not safe for
// concurrent use.

type Profile struct {
	ID     string
	Name   string
	Symbol string
	Level  int
}

type Position struct {
	X, Y float64
}

type Presence struct {
	Profile
	Pos      Position
	InBattle bool

	entered uint64 // world-entry order
}
