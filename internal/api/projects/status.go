package projects

import (
	"errors"
	"fmt"
	"net/http"

	"collabcanvas-app/internal/apperr"
	notificationsapi "collabcanvas-app/internal/api/notifications"
	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/drawinglog"
	"collabcanvas-app/internal/domain/notifications"
	"collabcanvas-app/internal/domain/projects"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PATCH /projects/:projectId/status  (owner only)
//
// Active and Paused flip freely; Completed is the intended end state.
// project_completed fires only on entry to Completed, project_resumed only
// on a Paused -> Active flip.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !projects.ValidStatus(req.Status) {
		apperr.Respond(c, apperr.Validation("status must be Active, Paused or Completed"))
		return
	}

	var (
		project projects.Project
		prior   string
	)
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, "id = ?", c.Param("projectId")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Project not found")
			}
			return err
		}
		prior = project.Status
		if prior == req.Status {
			return nil
		}
		project.Status = req.Status
		return tx.Model(&projects.Project{}).Where("id = ?", project.ID).
			Update("status", req.Status).Error
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if prior != project.Status {
		payload := gin.H{"projectId": project.ID, "status": project.Status}
		switch {
		case project.Status == projects.StatusPaused:
			h.RT.PublishToRoom(project.ID, "project_paused", payload)
		case project.Status == projects.StatusCompleted:
			h.RT.PublishToRoom(project.ID, "project_completed", payload)
			h.notifyCompleted(&project)
		case project.Status == projects.StatusActive && prior == projects.StatusPaused:
			h.RT.PublishToRoom(project.ID, "project_resumed", payload)
		}
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) notifyCompleted(project *projects.Project) {
	msg := fmt.Sprintf("\"%s\" is complete!", project.Title)
	for _, recipient := range dedupe(append([]uint{project.OwnerID}, project.ContributorIDs()...), 0) {
		notificationsapi.Push(h.DB, h.RT, notifications.Notification{
			RecipientID: recipient,
			Type:        notifications.TypeProjectCompleted,
			Message:     msg,
			ProjectID:   &project.ID,
			CanvasID:    project.CanvasID,
		})
	}
}

// DELETE /projects/:projectId  (owner only)
func (h *Handler) Delete(c *gin.Context) {
	project, err := loadProject(h.DB, c.Param("projectId"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&contributions.Contribution{}, "project_id = ?", project.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&drawinglog.Entry{}, "project_id = ?", project.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&projects.Project{}, "id = ?", project.ID).Error
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	// Viewers can be anywhere in the app, so this one goes to everyone.
	h.RT.Broadcast("project_deleted", gin.H{"projectId": project.ID})
	c.JSON(http.StatusOK, gin.H{"projectId": project.ID})
}
