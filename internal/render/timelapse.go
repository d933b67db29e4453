package render

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/drawinglog"
	"collabcanvas-app/logutils"
)

const timelapseFPS = 25

// Timelapse replays the drawing log onto a virtual canvas, saving one frame
// per stroke, then stitches the frames into an MP4 with ffmpeg. Returns the
// public URL path of the video.
func Timelapse(publicDir, projectID string, width, height int, entries []drawinglog.Entry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("no strokes recorded for project %s", projectID)
	}
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid canvas bounds %dx%d", width, height)
	}

	frameDir, err := os.MkdirTemp("", "timelapse_"+projectID+"_")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(frameDir)

	dc := newCanvas(width, height)
	defer dc.Close()

	frame := 0
	for _, entry := range entries {
		var s contributions.Stroke
		if err := json.Unmarshal(entry.Stroke, &s); err != nil || len(s.StrokePath) == 0 {
			continue
		}
		drawStroke(dc, s)

		path := filepath.Join(frameDir, fmt.Sprintf("frame-%06d.png", frame))
		if err := dc.SavePNG(path); err != nil {
			return "", err
		}
		frame++
	}
	if frame == 0 {
		return "", fmt.Errorf("no drawable strokes for project %s", projectID)
	}

	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		return "", err
	}
	outName := fmt.Sprintf("timelapse_%s.mp4", projectID)
	outPath := filepath.Join(publicDir, outName)

	cmd := exec.Command("ffmpeg", "-y",
		"-framerate", fmt.Sprint(timelapseFPS),
		"-i", filepath.Join(frameDir, "frame-%06d.png"),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		logutils.Log.WithFields(logutils.Fields{"project": projectID}).
			WithError(err).Error("ffmpeg failed: " + string(out))
		return "", fmt.Errorf("ffmpeg: %w", err)
	}

	return "/public/" + outName, nil
}
