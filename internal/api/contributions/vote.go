package contributions

import (
	"errors"
	"net/http"

	"collabcanvas-app/internal/apperr"
	notificationsapi "collabcanvas-app/internal/api/notifications"
	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/notifications"
	"collabcanvas-app/internal/domain/projects"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// POST /contributions/:id/vote
//
// The whole transition (tally and voters mutation, threshold check, possible
// deletion) runs in one transaction under a row lock, so concurrent voters
// serialize on the contribution and never observe a half-applied vote.
func (h *Handler) Vote(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("voteType is required"))
		return
	}

	var (
		contribution contributions.Contribution
		wasDeleted   bool
	)
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&contribution, "id = ?", c.Param("id")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Contribution not found")
			}
			return err
		}

		if err := contribution.ApplyVote(userID, req.VoteType); err != nil {
			return apperr.Validation(err.Error())
		}

		var project projects.Project
		if err := tx.First(&project, "id = ?", contribution.ProjectID).Error; err != nil {
			return err
		}

		if contributions.ShouldAutoDelete(contribution.Downvotes, len(project.ContributorIDs())) {
			wasDeleted = true
			if err := tx.Delete(&contributions.Contribution{}, "id = ?", contribution.ID).Error; err != nil {
				return err
			}
			return applyPixelDelta(tx, project.ID, -contributions.PixelDelta(contribution.DecodeStrokes()))
		}

		return tx.Model(&contributions.Contribution{}).
			Where("id = ?", contribution.ID).
			Updates(map[string]any{
				"upvotes":   contribution.Upvotes,
				"downvotes": contribution.Downvotes,
				"voters":    contribution.Voters,
			}).Error
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if wasDeleted {
		h.RT.PublishToRoom(contribution.ProjectID, "contribution_deleted", gin.H{
			"contributionId": contribution.ID,
			"projectId":      contribution.ProjectID,
		})
		notificationsapi.Push(h.DB, h.RT, notifications.Notification{
			RecipientID: contribution.UserID,
			Type:        notifications.TypeVoteThreshold,
			Message:     "One of your contributions was removed after community downvotes.",
			ProjectID:   &contribution.ProjectID,
		})
		c.JSON(http.StatusOK, gin.H{
			"wasDeleted":     true,
			"contributionId": contribution.ID,
		})
		return
	}

	payload := h.withAuthor(contribution)
	h.RT.PublishToRoom(contribution.ProjectID, "vote_updated", payload)
	c.JSON(http.StatusOK, payload)
}
