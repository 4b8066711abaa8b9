package dispatch

import (
	"github.com/ticataco/cs2chroma/pkg/chroma"
	"github.com/ticataco/cs2chroma/pkg/gsi"
)

// Key coordinates on the SDK's 6x22 grid.

var (
	movementColor  = chroma.RGB(222, 155, 53)
	indicatorColor = chroma.RGB(65, 58, 39)
)

func paint(m *chroma.Matrix, row int, from int, to int, c chroma.Color) {
	for col := from; col < to; col++ {
		m[row][col] = c
	}
}

// movementKeys highlights WASD, shift, ctrl and space.
func movementKeys() chroma.Matrix {
	var m chroma.Matrix

	// WASD
	m[2][3] = movementColor
	paint(&m, 3, 2, 5, movementColor)

	// Shift
	paint(&m, 4, 0, 2, movementColor)

	// Ctrl
	m[5][1] = movementColor

	// Space
	paint(&m, 5, 4, 11, movementColor)

	return m
}

// interactionKeys highlights tab, use/reload and the grenade and
// chat keys.
func interactionKeys() chroma.Matrix {
	var m chroma.Matrix

	// Tab, E, R, T, Y, U
	paint(&m, 2, 0, 2, indicatorColor)
	paint(&m, 2, 4, 9, indicatorColor)

	// G
	paint(&m, 3, 5, 8, indicatorColor)

	// Z, C, V, B, M
	m[4][3] = indicatorColor
	paint(&m, 4, 5, 8, indicatorColor)
	m[4][9] = indicatorColor

	return m
}

// inventoryKeys lights the number row slots for whatever the player is
// actually carrying.
func inventoryKeys(player *gsi.Player) chroma.Matrix {
	var m chroma.Matrix
	if player == nil {
		return m
	}

	for _, weapon := range player.State.Weapons {
		switch weapon.Type {
		case "Pistol":
			m[1][3] = indicatorColor // 2
		case "Knife":
			m[1][4] = indicatorColor // 3
		case "Grenade":
			m[1][5] = indicatorColor // 4
		case "StackableItem":
			m[4][4] = indicatorColor // X
		case "C4":
			m[1][6] = indicatorColor // 5
		default:
			if weapon.Name == "weapon_taser" {
				m[1][4] = indicatorColor // 3
			} else {
				m[1][2] = indicatorColor // 1
			}
		}
	}

	return m
}

// defusalStrip colors the countdown strip on the function key row:
// green while a defuse comfortably fits, blue while only a kit does,
// red when it is too late.
func defusalStrip(m *chroma.Matrix, secondsSincePlant float64) {
	var c chroma.Color
	switch {
	case secondsSincePlant < 30:
		c = chroma.Color{G: 1}
	case secondsSincePlant < 35:
		c = chroma.Color{B: 1}
	default:
		c = chroma.Color{R: 1}
	}
	paint(m, 0, 3, 15, c)
}
