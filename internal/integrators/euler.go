package integrators

import "github.com/san-kum/sandbox/internal/dynamo"

// SemiImplicitEuler updates velocities first and moves positions with the
// new velocities. The state is laid out as [positions..., velocities...].
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	dx := dyn.Derive(x, t)

	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + dx[half+i]*dt
		result[i] = x[i] + result[half+i]*dt
	}
	return result
}
