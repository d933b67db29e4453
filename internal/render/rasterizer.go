package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"collabcanvas-app/internal/domain/contributions"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

const thumbnailMaxDim = 256

var canvasBackground = gg.RGBA{R: 1, G: 1, B: 1, A: 1}

// drawStroke paints one stroke onto dc. Eraser strokes paint background
// color; picker strokes leave no mark.
func drawStroke(dc *gg.Context, s contributions.Stroke) {
	if s.Mode == contributions.ModePicker || len(s.StrokePath) == 0 {
		return
	}
	if s.Mode == contributions.ModeEraser {
		dc.SetColor(canvasBackground.Color())
	} else {
		dc.SetRGBA(
			float64(s.Color.R)/255,
			float64(s.Color.G)/255,
			float64(s.Color.B)/255,
			s.Color.A,
		)
	}
	dc.SetLineWidth(s.BrushSize)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	dc.MoveTo(s.StrokePath[0].FromX, s.StrokePath[0].FromY)
	for _, seg := range s.StrokePath {
		dc.LineTo(seg.ToX, seg.ToY)
	}
	if err := dc.Stroke(); err != nil {
		dc.ClearPath()
	}
}

func newCanvas(width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.ClearWithColor(canvasBackground)
	return dc
}

// Thumbnail rasterizes one stroke batch scaled into a small preview, writes
// it under publicDir/thumbnails and returns the public URL path.
func Thumbnail(publicDir string, strokes []contributions.Stroke, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid canvas bounds %dx%d", width, height)
	}
	scale := 1.0
	if width > thumbnailMaxDim || height > thumbnailMaxDim {
		sx := float64(thumbnailMaxDim) / float64(width)
		sy := float64(thumbnailMaxDim) / float64(height)
		if sy < sx {
			scale = sy
		} else {
			scale = sx
		}
	}

	dc := newCanvas(int(float64(width)*scale), int(float64(height)*scale))
	defer dc.Close()
	dc.Scale(scale, scale)
	for _, s := range strokes {
		drawStroke(dc, s)
	}

	dir := filepath.Join(publicDir, "thumbnails")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ".png"
	if err := dc.SavePNG(filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "/public/thumbnails/" + name, nil
}

// HighRes renders every surviving contribution at full canvas size and
// returns the encoded PNG.
func HighRes(width, height int, contribs []contributions.Contribution) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas bounds %dx%d", width, height)
	}
	dc := newCanvas(width, height)
	defer dc.Close()
	for i := range contribs {
		for _, s := range contribs[i].DecodeStrokes() {
			drawStroke(dc, s)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
