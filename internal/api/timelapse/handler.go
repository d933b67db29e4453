package timelapse

import (
	"errors"
	"net/http"

	"collabcanvas-app/config"
	"collabcanvas-app/internal/apperr"
	"collabcanvas-app/internal/domain/drawinglog"
	"collabcanvas-app/internal/domain/projects"
	"collabcanvas-app/internal/render"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// GET /timelapse/:projectId
//
// Replays the drawing log into an MP4. Rendering is synchronous and can
// take a while on large projects.
func (h *Handler) Generate(c *gin.Context) {
	var project projects.Project
	if err := h.DB.First(&project, "id = ?", c.Param("projectId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("Project not found"))
			return
		}
		apperr.Respond(c, err)
		return
	}

	var entries []drawinglog.Entry
	err := h.DB.Where("project_id = ?", project.ID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if len(entries) == 0 {
		apperr.Respond(c, apperr.NotFound("No strokes recorded for this project"))
		return
	}

	videoURL, err := render.Timelapse(config.PUBLIC_DIR, project.ID, project.Width, project.Height, entries)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Timelapse generated",
		"videoUrl": videoURL,
	})
}
