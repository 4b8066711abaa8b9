package chroma

import (
	"fmt"
)

type Orientation uint8

const (
	// Color bands run down the keyboard, one color per column.
	OrientationVertical Orientation = iota
	// Color bands run across the keyboard, one color per row.
	OrientationHorizontal
)

type BandMode uint8

const (
	// Colors repeat interleaved. Looks best when the color count
	// divides the band count.
	BandAlternating BandMode = iota
	// Colors repeat clumped with themselves.
	BandCluster
)

// Wave builds a banded matrix from the given colors, suitable for a
// KindWave effect that scrolls it.
func Wave(colors []Color, orientation Orientation, mode BandMode) (Matrix, error) {
	var m Matrix

	if len(colors) < 2 {
		return m, fmt.Errorf("expected at least 2 colors, got %d", len(colors))
	}

	bands := Cols
	if orientation == OrientationHorizontal {
		bands = Rows
	}
	if len(colors) > bands {
		return m, fmt.Errorf("expected at most %d colors, got %d", bands, len(colors))
	}

	pattern := make([]Color, 0, bands)
	pattern = append(pattern, colors...)

	next := 0
	for len(pattern) < bands {
		color := colors[next]
		switch mode {
		case BandAlternating:
			pattern = append(pattern, color)
		case BandCluster:
			// Duplicate the color next to its first occurrence.
			for i, v := range pattern {
				if v == color {
					pattern = append(pattern[:i+1], append([]Color{color}, pattern[i+1:]...)...)
					break
				}
			}
		}
		next++
		if next >= len(colors) {
			next = 0
		}
	}

	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if orientation == OrientationVertical {
				m[row][col] = pattern[col]
			} else {
				m[row][col] = pattern[row]
			}
		}
	}

	return m, nil
}

// Explosion seeds a 2x2 square in the center of the keyboard; each
// animation step of a KindExplosion effect grows it outward.
func Explosion(color Color) Matrix {
	var m Matrix
	m[2][10] = color
	m[2][11] = color
	m[3][10] = color
	m[3][11] = color
	return m
}

func stepWave(e *Effect) {
	switch e.Dir {
	case DirectionUp:
		first := e.Colors[0]
		copy(e.Colors[:], e.Colors[1:])
		e.Colors[Rows-1] = first
	case DirectionDown:
		last := e.Colors[Rows-1]
		copy(e.Colors[1:], e.Colors[:Rows-1])
		e.Colors[0] = last
	case DirectionRight:
		for row := range e.Colors {
			last := e.Colors[row][Cols-1]
			copy(e.Colors[row][1:], e.Colors[row][:Cols-1])
			e.Colors[row][0] = last
		}
	case DirectionLeft:
		for row := range e.Colors {
			first := e.Colors[row][0]
			copy(e.Colors[row][:], e.Colors[row][1:])
			e.Colors[row][Cols-1] = first
		}
	}
}

// firstMatch finds the leftmost column in [0, 11) holding the color.
func firstMatch(row *[Cols]Color, c Color) int {
	for col := 0; col < 11; col++ {
		if row[col] == c {
			return col
		}
	}
	return -1
}

// lastMatch finds the rightmost column in [11, 22) holding the color.
func lastMatch(row *[Cols]Color, c Color) int {
	for col := Cols - 1; col >= 11; col-- {
		if row[col] == c {
			return col
		}
	}
	return -1
}

// stepExplosion widens the blast one key per tick. The middle rows
// lead; the rows above and below get seeded on later ticks and then
// follow.
func stepExplosion(e *Effect) {
	for _, mid := range []int{2, 3} {
		first, second := 0, 1
		if mid == 3 {
			first, second = 4, 5
		}

		// Left half
		c := e.Colors[mid][10]
		if idx := firstMatch(&e.Colors[mid], c); idx > 0 {
			e.Colors[mid][idx-1] = c
		}
		if idx := firstMatch(&e.Colors[first], c); idx >= 0 {
			if idx > 0 {
				e.Colors[first][idx-1] = c
			}
			if idx := firstMatch(&e.Colors[second], c); idx >= 0 {
				if idx > 0 {
					e.Colors[second][idx-1] = c
				}
			} else {
				e.Colors[second][10] = c
			}
		} else {
			e.Colors[first][10] = c
		}

		// Right half
		c = e.Colors[mid][11]
		if idx := lastMatch(&e.Colors[mid], c); idx >= 0 && idx < Cols-1 {
			e.Colors[mid][idx+1] = c
		}
		if idx := lastMatch(&e.Colors[first], c); idx >= 0 {
			if idx < Cols-1 {
				e.Colors[first][idx+1] = c
			}
			if idx := lastMatch(&e.Colors[second], c); idx >= 0 {
				if idx < Cols-1 {
					e.Colors[second][idx+1] = c
				}
			} else {
				e.Colors[second][11] = c
			}
		} else {
			e.Colors[first][11] = c
		}
	}
}
