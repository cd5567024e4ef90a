package sandbox

import "github.com/jakecoffman/cp"

// Event is one discrete input from the host. The set is closed.
type Event interface {
	event()
}

type MouseButton int

const (
	MousePrimary MouseButton = iota
	MouseSecondary
)

// KeyEscape is the rune hosts send for the escape key.
const KeyEscape rune = 0x1b

type PointerDown struct {
	Pos    cp.Vector
	Button MouseButton
}

type PointerUp struct {
	Pos    cp.Vector
	Button MouseButton
}

// PointerMove carries whether the primary button is still held.
type PointerMove struct {
	Pos  cp.Vector
	Held bool
}

type KeyDown struct {
	Key rune
}

func (PointerDown) event() {}
func (PointerUp) event()   {}
func (PointerMove) event() {}
func (KeyDown) event()     {}
