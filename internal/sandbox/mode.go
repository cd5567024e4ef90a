package sandbox

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMode    = errors.New("sandbox: unknown mode")
	ErrUnknownCommand = errors.New("sandbox: unknown command")
	// ErrQuit is returned by Handle when the user asks to leave.
	ErrQuit = errors.New("sandbox: quit")
)

type Mode int

const (
	Mechanics Mode = iota
	Electricity
	Fluid
	Thermal
)

var modeNames = [...]string{"mechanics", "electricity", "fluid", "thermal"}

// Modes lists every mode in key order: 1 is Mechanics, 4 is Thermal.
var Modes = []Mode{Mechanics, Electricity, Fluid, Thermal}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Category decides when a control is shown and clickable.
type Category int

const (
	// CategoryNone controls are always active.
	CategoryNone Category = iota
	// CategoryMaterial controls are always active as well.
	CategoryMaterial
	CategoryMechanics
	CategoryElectricity
	CategoryFluid
	CategoryThermal
)

// CategoryOf maps a mode to the category of its own controls.
func CategoryOf(m Mode) Category {
	return CategoryMechanics + Category(m)
}

// ActiveIn reports whether a control of category c responds in mode m.
func (c Category) ActiveIn(m Mode) bool {
	return c == CategoryNone || c == CategoryMaterial || c == CategoryOf(m)
}
