package scroll

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tr := New()

	assert.Equal(t, Down, tr.Direction())
	assert.Equal(t, 0.0, tr.LastOffset())
	assert.False(t, tr.Changed())

	var zero Tracker
	assert.Equal(t, *tr, zero)
}

func TestTrackerScenarios(t *testing.T) {
	tests := []struct {
		name    string
		offsets []float64
		want    []Direction
	}{
		{
			name:    "MonotonicIncrease",
			offsets: []float64{0, 50, 120},
			want:    []Direction{Down, Down, Down},
		},
		{
			name:    "ReverseAfterIncrease",
			offsets: []float64{0, 50, 30},
			want:    []Direction{Down, Down, Up},
		},
		{
			name:    "RepeatedOffset",
			offsets: []float64{100, 100, 100},
			want:    []Direction{Down, Down, Down},
		},
		{
			name:    "EqualStepHoldsUp",
			offsets: []float64{200, 50, 50, 300},
			want:    []Direction{Down, Up, Up, Down},
		},
		{
			name:    "NegativeOffsets",
			offsets: []float64{-10, -20, -20, 5},
			want:    []Direction{Up, Up, Up, Down},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			got := make([]Direction, 0, len(tt.offsets))
			for _, off := range tt.offsets {
				got = append(got, tr.Update(off))
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.offsets[len(tt.offsets)-1], tr.LastOffset())
		})
	}
}

func TestTrackerSignRule(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New()
	prevOffset := 0.0
	prevDir := Down

	for i := 0; i < 1000; i++ {
		var off float64
		switch rng.Intn(3) {
		case 0:
			off = prevOffset
		default:
			off = float64(rng.Intn(2000) - 500)
		}

		got := tr.Update(off)

		want := prevDir
		switch {
		case off > prevOffset:
			want = Down
		case off < prevOffset:
			want = Up
		}
		require.Equalf(t, want, got, "step %d: %v -> %v", i, prevOffset, off)
		require.Equal(t, off, tr.LastOffset())
		require.Equal(t, want != prevDir, tr.Changed())

		prevOffset, prevDir = off, got
	}
}

func TestTrackerIdempotentRepeat(t *testing.T) {
	tr := New()
	tr.Update(300)
	first := tr.Update(120)
	second := tr.Update(120)

	assert.Equal(t, Up, first)
	assert.Equal(t, first, second)
	assert.False(t, tr.Changed())
}

func TestTrackerChanged(t *testing.T) {
	tr := New()

	tr.Update(10)
	assert.False(t, tr.Changed(), "down -> down is not a flip")

	tr.Update(5)
	assert.True(t, tr.Changed())

	tr.Update(5)
	assert.False(t, tr.Changed())

	tr.Update(6)
	assert.True(t, tr.Changed())
}

func TestTrackerNaN(t *testing.T) {
	tr := New()
	tr.Update(40)
	tr.Update(20)

	dir := tr.Update(math.NaN())
	assert.Equal(t, Up, dir)
	assert.True(t, math.IsNaN(tr.LastOffset()))

	// Anything compared with a stored NaN is neither larger nor smaller.
	assert.Equal(t, Up, tr.Update(500))
	assert.Equal(t, Down, tr.Update(501))
}

func TestTrackerReset(t *testing.T) {
	tr := New()
	tr.Update(80)
	tr.Update(10)

	tr.Reset()

	assert.Equal(t, Down, tr.Direction())
	assert.Equal(t, 0.0, tr.LastOffset())
	assert.False(t, tr.Changed())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "down", Down.String())
	assert.Equal(t, "up", Up.String())
	assert.Equal(t, "Direction(7)", Direction(7).String())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, Up, d)

	d, err = ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, Down, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}
