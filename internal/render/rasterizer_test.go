package render

import (
	"os"
	"testing"

	"collabcanvas-app/internal/domain/contributions"

	"github.com/stretchr/testify/require"
)

func TestThumbnailRejectsInvalidBounds(t *testing.T) {
	dir := t.TempDir()

	strokes := []contributions.Stroke{{
		StrokePath: []contributions.Segment{{FromX: 0, FromY: 0, ToX: 5, ToY: 5}},
		BrushSize:  2,
		Mode:       contributions.ModeBrush,
	}}

	_, err := Thumbnail(dir, strokes, 0, 100)
	require.Error(t, err)
	_, err = Thumbnail(dir, strokes, 100, -1)
	require.Error(t, err)

	// A failed render leaves nothing behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestHighResRejectsInvalidBounds(t *testing.T) {
	_, err := HighRes(0, 0, nil)
	require.Error(t, err)
}

func TestTimelapseRejectsEmptyLog(t *testing.T) {
	_, err := Timelapse(t.TempDir(), "p1", 100, 100, nil)
	require.Error(t, err)
}
