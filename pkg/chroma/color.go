package chroma

// Rows and Cols describe the Chroma SDK's keyboard grid.
const (
	Rows = 6
	Cols = 22
)

// Color is a single key's color with channels in [0, 1]. The SDK wants
// packed BGR integers; float channels keep decay arithmetic simple.
type Color struct {
	R float64
	G float64
	B float64
}

func RGB(r, g, b uint8) Color {
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
}

func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// BGR packs the color into the decimal BGR format the Chroma SDK
// expects for CHROMA_CUSTOM frames.
func (c Color) BGR() int {
	r := int(c.R*255 + 0.5)
	g := int(c.G*255 + 0.5)
	b := int(c.B*255 + 0.5)
	return b*65536 + g*256 + r
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func (c Color) Add(other Color) Color {
	return Color{
		R: clamp(c.R + other.R),
		G: clamp(c.G + other.G),
		B: clamp(c.B + other.B),
	}
}

func (c Color) Multiply(other Color) Color {
	return Color{
		R: clamp(c.R * other.R),
		G: clamp(c.G * other.G),
		B: clamp(c.B * other.B),
	}
}

// Fade dims every channel by amount, stopping at zero.
func (c Color) Fade(amount float64) Color {
	fade := func(v float64) float64 {
		if v < amount {
			return 0
		}
		return v - amount
	}
	return Color{R: fade(c.R), G: fade(c.G), B: fade(c.B)}
}

// Matrix is one full keyboard frame.
type Matrix [Rows][Cols]Color

// Frame converts the matrix into the row-major BGR grid used by the
// SDK's CHROMA_CUSTOM effect.
func (m *Matrix) Frame() [Rows][Cols]int {
	var frame [Rows][Cols]int
	for row := range m {
		for col := range m[row] {
			frame[row][col] = m[row][col].BGR()
		}
	}
	return frame
}

// Uniform fills every key with the same color.
func Uniform(c Color) Matrix {
	var m Matrix
	for row := range m {
		for col := range m[row] {
			m[row][col] = c
		}
	}
	return m
}
