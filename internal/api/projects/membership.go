package projects

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"collabcanvas-app/internal/apperr"
	notificationsapi "collabcanvas-app/internal/api/notifications"
	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/drawinglog"
	"collabcanvas-app/internal/domain/notifications"
	"collabcanvas-app/internal/domain/projects"
	"collabcanvas-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func loadUser(db *gorm.DB, id uint) (*users.User, error) {
	var user users.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// POST /projects/:projectId/join
func (h *Handler) Join(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	user, err := loadUser(h.DB, userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var (
		project    projects.Project
		added      bool
		recipients []uint
	)
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, "id = ?", c.Param("projectId")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Project not found")
			}
			return err
		}
		if project.IsBanned(userID) {
			return apperr.Forbidden("You were removed from this project by its owner and cannot rejoin")
		}

		// Everyone already on the project hears about the join.
		recipients = append(recipients, project.OwnerID)
		recipients = append(recipients, project.ContributorIDs()...)

		// Set semantics: joining twice is a no-op, not an error.
		added = project.AddContributor(userID)
		if !added {
			return nil
		}
		return tx.Model(&projects.Project{}).Where("id = ?", project.ID).
			Updates(map[string]any{
				"contributors":            project.Contributors,
				"stats_contributor_count": project.Stats.ContributorCount,
			}).Error
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if added {
		h.RT.PublishToRoom(project.ID, "contributor_joined", gin.H{
			"projectId": project.ID,
			"user":      user.Public(),
		})
		msg := fmt.Sprintf("%s joined \"%s\"", user.FullName, project.Title)
		for _, recipient := range dedupe(recipients, userID) {
			notificationsapi.Push(h.DB, h.RT, notifications.Notification{
				RecipientID: recipient,
				SenderID:    &userID,
				Type:        notifications.TypeNewContributor,
				Message:     msg,
				ProjectID:   &project.ID,
				CanvasID:    project.CanvasID,
			})
		}
	}

	c.JSON(http.StatusOK, project)
}

// dedupe returns ids with duplicates and the excluded id removed.
func dedupe(ids []uint, exclude uint) []uint {
	seen := map[uint]bool{exclude: true}
	var out []uint
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// POST /projects/:projectId/contributors  (owner only)
func (h *Handler) AddContributors(c *gin.Context) {
	ownerID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req AddContributorsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.UserIDsToAdd) == 0 {
		apperr.Respond(c, apperr.Validation("userIdsToAdd must be a non-empty array"))
		return
	}

	var (
		project  projects.Project
		newlyAdd []uint
		existing []uint
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

		existing = project.ContributorIDs()
		for _, id := range req.UserIDsToAdd {
			if project.AddContributor(id) {
				newlyAdd = append(newlyAdd, id)
			}
		}
		if len(newlyAdd) == 0 {
			return nil
		}
		return tx.Model(&projects.Project{}).Where("id = ?", project.ID).
			Updates(map[string]any{
				"contributors":            project.Contributors,
				"stats_contributor_count": project.Stats.ContributorCount,
			}).Error
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if len(newlyAdd) > 0 {
		names := h.fullNames(newlyAdd)

		for _, id := range newlyAdd {
			notificationsapi.Push(h.DB, h.RT, notifications.Notification{
				RecipientID: id,
				SenderID:    &ownerID,
				Type:        notifications.TypeAddedToProject,
				Message:     fmt.Sprintf("You were added to \"%s\"", project.Title),
				ProjectID:   &project.ID,
				CanvasID:    project.CanvasID,
			})
		}
		// One batched message naming all new joiners for everyone who was
		// already on the project.
		batched := fmt.Sprintf("%s joined \"%s\"", strings.Join(names, ", "), project.Title)
		for _, recipient := range dedupe(existing, ownerID) {
			if contains(newlyAdd, recipient) {
				continue
			}
			notificationsapi.Push(h.DB, h.RT, notifications.Notification{
				RecipientID: recipient,
				SenderID:    &ownerID,
				Type:        notifications.TypeNewContributor,
				Message:     batched,
				ProjectID:   &project.ID,
				CanvasID:    project.CanvasID,
			})
		}
	}

	c.JSON(http.StatusOK, project)
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (h *Handler) fullNames(ids []uint) []string {
	var list []users.User
	if err := h.DB.Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil
	}
	names := make([]string, 0, len(list))
	for _, u := range list {
		names = append(names, u.FullName)
	}
	return names
}

// PATCH /projects/remove-contributor  (owner only)
//
// Removal is a ban: the user goes onto the banned list and every
// contribution and drawing-log entry they authored in the project is purged,
// with the project stats rolled back by the purged pixel volume.
func (h *Handler) RemoveContributor(c *gin.Context) {
	actingID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req RemoveContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("projectId and userIdToRemove are required"))
		return
	}

	var (
		project  projects.Project
		purgedID []string
	)
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, "id = ?", req.ProjectID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Project not found")
			}
			return err
		}
		if project.OwnerID != actingID {
			return apperr.Forbidden("Only the project owner can remove contributors")
		}

		project.RemoveContributor(req.UserIDToRemove)
		project.Ban(req.UserIDToRemove)

		var purged []contributions.Contribution
		err = tx.Where("project_id = ? AND user_id = ?", project.ID, req.UserIDToRemove).
			Find(&purged).Error
		if err != nil {
			return err
		}
		var delta int64
		for i := range purged {
			purgedID = append(purgedID, purged[i].ID)
			delta += contributions.PixelDelta(purged[i].DecodeStrokes())
		}

		if len(purgedID) > 0 {
			err = tx.Delete(&contributions.Contribution{},
				"project_id = ? AND user_id = ?", project.ID, req.UserIDToRemove).Error
			if err != nil {
				return err
			}
		}
		err = tx.Delete(&drawinglog.Entry{},
			"project_id = ? AND user_id = ?", project.ID, req.UserIDToRemove).Error
		if err != nil {
			return err
		}

		project.ApplyPixelDelta(-delta)
		return tx.Model(&projects.Project{}).Where("id = ?", project.ID).
			Updates(map[string]any{
				"contributors":            project.Contributors,
				"banned_users":            project.BannedUsers,
				"stats_contributor_count": project.Stats.ContributorCount,
				"stats_pixel_count":       project.Stats.PixelCount,
				"stats_percent_complete":  project.Stats.PercentComplete,
			}).Error
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	h.RT.PublishToRoom(project.ID, "contributor_removed", gin.H{
		"projectId":      project.ID,
		"userIdToRemove": req.UserIDToRemove,
	})
	h.RT.PublishToUser(req.UserIDToRemove, "permissions_revoked", gin.H{
		"projectId": project.ID,
		"canvasId":  project.CanvasID,
	})
	if len(purgedID) > 0 {
		h.RT.PublishToRoom(project.ID, "contributions_purged", gin.H{
			"projectId":       project.ID,
			"contributionIds": purgedID,
		})
	}

	notificationsapi.Push(h.DB, h.RT, notifications.Notification{
		RecipientID: req.UserIDToRemove,
		SenderID:    &actingID,
		Type:        notifications.TypeContributorRemoved,
		Message:     fmt.Sprintf("The owner removed you from \"%s\"", project.Title),
		ProjectID:   &project.ID,
		CanvasID:    project.CanvasID,
	})

	c.JSON(http.StatusOK, gin.H{"userIdToRemove": req.UserIDToRemove})
}
