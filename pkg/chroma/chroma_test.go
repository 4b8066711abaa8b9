package chroma

import (
	"testing"
	"time"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/require"
)

func TestColor(t *testing.T) {
	// The SDK wants BGR packed decimals
	require.Equal(t, 0x0000FF, RGB(255, 0, 0).BGR())
	require.Equal(t, 0x00FF00, RGB(0, 255, 0).BGR())
	require.Equal(t, 0xFF0000, RGB(0, 0, 255).BGR())
	require.Equal(t, 0x00519B, RGB(155, 81, 0).BGR())

	require.True(t, Color{}.IsBlack())
	require.False(t, RGB(1, 0, 0).IsBlack())

	// Addition saturates
	sum := RGB(200, 200, 200).Add(RGB(200, 200, 200))
	require.Equal(t, Color{R: 1, G: 1, B: 1}, sum)

	// Fading stops at black
	faded := Color{R: 0.1}.Fade(0.5)
	require.True(t, faded.IsBlack())
}

func TestWave(t *testing.T) {
	red := RGB(255, 0, 0)
	green := RGB(0, 255, 0)

	_, err := Wave([]Color{red}, OrientationVertical, BandAlternating)
	require.Error(t, err)

	m, err := Wave([]Color{red, green}, OrientationVertical, BandAlternating)
	require.NoError(t, err)
	// Columns alternate, rows repeat
	for row := 0; row < Rows; row++ {
		require.Equal(t, red, m[row][0])
		require.Equal(t, green, m[row][1])
		require.Equal(t, red, m[row][2])
	}

	m, err = Wave([]Color{red, green}, OrientationHorizontal, BandAlternating)
	require.NoError(t, err)
	// Rows alternate, columns repeat
	for col := 0; col < Cols; col++ {
		require.Equal(t, red, m[0][col])
		require.Equal(t, green, m[1][col])
		require.Equal(t, red, m[2][col])
	}

	m, err = Wave([]Color{red, green}, OrientationVertical, BandCluster)
	require.NoError(t, err)
	// Clustered bands keep colors adjacent
	require.Equal(t, m[0][0], m[0][1])

	tooMany := make([]Color, Rows+1)
	_, err = Wave(tooMany, OrientationHorizontal, BandAlternating)
	require.Error(t, err)
}

func TestWaveStep(t *testing.T) {
	red := RGB(255, 0, 0)
	green := RGB(0, 255, 0)

	colors, err := Wave([]Color{red, green}, OrientationHorizontal, BandAlternating)
	require.NoError(t, err)

	effect := &Effect{
		Kind:        KindWave,
		Dir:         DirectionUp,
		Colors:      colors,
		UpdateEvery: time.Millisecond,
	}

	top := effect.Colors[0]
	second := effect.Colors[1]

	changed, expired := effect.step(time.Now())
	require.True(t, changed)
	require.False(t, expired)

	// The top row wrapped to the bottom
	require.Equal(t, second, effect.Colors[0])
	require.Equal(t, top, effect.Colors[Rows-1])
}

func TestExplosionStep(t *testing.T) {
	orange := RGB(255, 81, 0)
	effect := &Effect{
		Kind:        KindExplosion,
		Colors:      Explosion(orange),
		UpdateEvery: time.Millisecond,
	}

	// Seed is a 2x2 square in the center
	require.Equal(t, orange, effect.Colors[2][10])
	require.Equal(t, orange, effect.Colors[3][11])
	require.True(t, effect.Colors[2][9].IsBlack())

	now := time.Unix(0, 0)
	changed, expired := effect.step(now.Add(time.Second))
	require.True(t, changed)
	require.False(t, expired)

	// The blast widened by one key on both sides
	require.Equal(t, orange, effect.Colors[2][9])
	require.Equal(t, orange, effect.Colors[2][12])
	require.Equal(t, orange, effect.Colors[3][9])
	require.Equal(t, orange, effect.Colors[3][12])
}

func TestEffectExpiry(t *testing.T) {
	effect := &Effect{
		Kind:         KindStatic,
		Colors:       Uniform(RGB(255, 255, 255)),
		UpdateEvery:  time.Millisecond,
		Expires:      true,
		ExpiresAfter: 1,
	}

	now := time.Unix(0, 0)
	_, expired := effect.step(now.Add(time.Second))
	require.False(t, expired)

	_, expired = effect.step(now.Add(2 * time.Second))
	require.True(t, expired)
}

func TestEffectDecayExpiry(t *testing.T) {
	effect := &Effect{
		Kind:        KindStatic,
		Colors:      Uniform(Color{R: 0.5, G: 0.5, B: 0.5}),
		UpdateEvery: time.Millisecond,
		Decay:       0.3,
	}

	now := time.Unix(0, 0)
	changed, expired := effect.step(now.Add(time.Second))
	require.True(t, changed)
	require.False(t, expired)

	// Fully dark with no expiry budget means gone
	_, expired = effect.step(now.Add(2 * time.Second))
	require.True(t, expired)
}

func TestStackOrdering(t *testing.T) {
	stack := NewStack()

	stack.Add(&Effect{ID: "high", Priority: 20})
	stack.Add(&Effect{ID: "low", Priority: 10})
	stack.Add(&Effect{ID: "mid-a", Priority: 15})
	stack.Add(&Effect{ID: "mid-b", Priority: 15})

	var ids []string
	for _, e := range stack.effects {
		ids = append(ids, e.ID)
	}
	// Sorted by priority; equal priorities keep insertion order
	require.Equal(t, []string{"low", "mid-a", "mid-b", "high"}, ids)

	// Adding an existing id replaces it
	stack.Add(&Effect{ID: "low", Priority: 30})
	require.Equal(t, 4, stack.Len())
	found := stack.Find("low")
	require.True(t, opt.IsSome(found))
	require.Equal(t, 30, found.Value.Priority)
}

func TestStackCompose(t *testing.T) {
	now := time.Unix(0, 0)
	stack := NewStack()

	red := RGB(255, 0, 0)
	stack.Add(&Effect{
		ID:       "base",
		Method:   MethodFill,
		Colors:   Uniform(red),
		Priority: 10,
	})

	frame, changed, empty := stack.Step(now)
	require.True(t, changed)
	require.False(t, empty)
	require.Equal(t, red, frame[0][0])

	// Nothing changed, nothing to render
	_, changed, _ = stack.Step(now)
	require.False(t, changed)

	// A higher priority overlay wins contested keys
	var overlay Matrix
	green := RGB(0, 255, 0)
	overlay[0][0] = green
	stack.Add(&Effect{
		ID:       "overlay",
		Method:   MethodFillNoZero,
		Colors:   overlay,
		Priority: 20,
	})

	frame, changed, _ = stack.Step(now)
	require.True(t, changed)
	require.Equal(t, green, frame[0][0])
	require.Equal(t, red, frame[0][1])

	// Additive composition saturates
	stack.Clear()
	stack.Add(&Effect{ID: "a", Method: MethodAdd, Colors: Uniform(Color{R: 0.75})})
	stack.Add(&Effect{ID: "b", Method: MethodAdd, Colors: Uniform(Color{R: 0.75})})
	frame, _, _ = stack.Step(now)
	require.Equal(t, 1.0, frame[0][0].R)
}

func TestStackRemove(t *testing.T) {
	stack := NewStack()
	stack.Add(&Effect{ID: "death"})
	stack.Add(&Effect{ID: "kill"})
	stack.Add(&Effect{ID: "result"})

	stack.RemoveAll("death", "kill")
	require.Equal(t, 1, stack.Len())
	require.True(t, opt.IsNone(stack.Find("death")))
	require.True(t, opt.IsSome(stack.Find("result")))
}

func TestStackStepExpires(t *testing.T) {
	stack := NewStack()
	stack.Add(&Effect{
		ID:           "pulse",
		Colors:       Uniform(RGB(25, 25, 25)),
		Method:       MethodAdd,
		UpdateEvery:  time.Millisecond,
		Expires:      true,
		ExpiresAfter: 1,
	})

	now := time.Unix(0, 0)
	_, _, empty := stack.Step(now.Add(time.Second))
	require.False(t, empty)

	_, changed, empty := stack.Step(now.Add(2 * time.Second))
	require.True(t, changed)
	require.True(t, empty)
}
