package chroma

import (
	"time"
)

type Kind uint8

const (
	KindStatic Kind = iota
	KindWave
	KindExplosion
)

// Method controls how an effect's matrix is blended over the effects
// below it in the stack.
type Method uint8

const (
	// Channel-wise addition, saturating at full brightness.
	MethodAdd Method = iota
	// Replace the whole frame.
	MethodFill
	// Only fill keys that are still unlit.
	MethodFillEmpty
	// Replace lit keys, leave the rest alone.
	MethodFillNoZero
	// Channel-wise multiplication.
	MethodMultiply
)

type Direction uint8

const (
	DirectionUp Direction = iota
	DirectionRight
	DirectionDown
	DirectionLeft
)

// Effect is one layer of keyboard lighting. An effect with an
// UpdateEvery interval animates: each step applies decay, advances
// wave/explosion movement and counts down the expiry budget.
type Effect struct {
	ID       string
	Kind     Kind
	Method   Method
	Dir      Direction
	Colors   Matrix
	Priority int

	// Brightness removed per animation step; 0 means no decay.
	Decay float64
	// How often the effect animates; 0 means static.
	UpdateEvery time.Duration
	// With Expires set, the effect removes itself after ExpiresAfter
	// animation steps. Without it, the effect lives until removed or,
	// if decaying, until fully dark.
	Expires      bool
	ExpiresAfter int

	lastUpdate time.Time
}

// Touch resets the animation clock, used when re-arming an effect that
// should start decaying from now.
func (e *Effect) Touch() {
	e.lastUpdate = time.Now()
}

// step advances the effect by one animation tick if it is due.
// Returns whether the colors changed and whether the effect expired.
func (e *Effect) step(now time.Time) (changed bool, expired bool) {
	if e.UpdateEvery == 0 || now.Sub(e.lastUpdate) < e.UpdateEvery {
		return false, false
	}

	if e.Expires {
		if e.ExpiresAfter <= 0 {
			return false, true
		}
		e.ExpiresAfter--
	}

	if e.Decay > 0 {
		changed = true
		brightest := 0.0
		for row := range e.Colors {
			for col := range e.Colors[row] {
				faded := e.Colors[row][col].Fade(e.Decay)
				e.Colors[row][col] = faded
				for _, v := range []float64{faded.R, faded.G, faded.B} {
					if v > brightest {
						brightest = v
					}
				}
			}
		}
		// A decaying effect with no step budget dies once fully dark.
		if !e.Expires && brightest == 0 {
			return false, true
		}
	}

	switch e.Kind {
	case KindWave:
		changed = true
		stepWave(e)
	case KindExplosion:
		changed = true
		stepExplosion(e)
	}

	e.lastUpdate = now
	return changed, false
}
