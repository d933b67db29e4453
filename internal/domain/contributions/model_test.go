package contributions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strokeWithSegments(n int) Stroke {
	s := Stroke{BrushSize: 4, Mode: ModeBrush, Color: Color{R: 10, G: 20, B: 30, A: 1}}
	for i := 0; i < n; i++ {
		s.StrokePath = append(s.StrokePath, Segment{
			FromX: float64(i), FromY: float64(i),
			ToX: float64(i + 1), ToY: float64(i + 1),
		})
	}
	return s
}

func TestPixelDelta(t *testing.T) {
	require.EqualValues(t, 0, PixelDelta(nil))
	require.EqualValues(t, 3, PixelDelta([]Stroke{strokeWithSegments(3)}))
	require.EqualValues(t, 7, PixelDelta([]Stroke{strokeWithSegments(3), strokeWithSegments(4)}))
}

func TestValidateStrokes(t *testing.T) {
	require.ErrorIs(t, ValidateStrokes(nil), ErrEmptyStrokes)
	require.ErrorIs(t, ValidateStrokes([]Stroke{}), ErrEmptyStrokes)

	bad := []Stroke{strokeWithSegments(2), {Mode: ModeBrush}}
	require.ErrorIs(t, ValidateStrokes(bad), ErrEmptyStrokePath)

	require.NoError(t, ValidateStrokes([]Stroke{strokeWithSegments(1)}))
}

func TestEncodeDecodeStrokes(t *testing.T) {
	strokes := []Stroke{strokeWithSegments(2), strokeWithSegments(1)}

	raw, err := EncodeStrokes(strokes)
	require.NoError(t, err)

	c := &Contribution{Strokes: raw}
	decoded := c.DecodeStrokes()
	require.Len(t, decoded, 2)
	require.Equal(t, strokes[0].StrokePath, decoded[0].StrokePath)
	require.Equal(t, strokes[1].Color, decoded[1].Color)
}

func TestVoterListEmpty(t *testing.T) {
	c := &Contribution{}
	require.Empty(t, c.VoterList())
}
