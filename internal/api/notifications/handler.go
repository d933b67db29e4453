package notifications

import (
	"errors"
	"net/http"

	"collabcanvas-app/internal/apperr"
	"collabcanvas-app/internal/domain/notifications"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// GET /notifications
func (h *Handler) List(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Respond(c, apperr.Unauthenticated("Acting user required"))
		return
	}

	var list []notifications.Notification
	err := h.DB.Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if list == nil {
		list = []notifications.Notification{}
	}
	c.JSON(http.StatusOK, list)
}

// PATCH /notifications/read-all
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Respond(c, apperr.Unauthenticated("Acting user required"))
		return
	}

	err := h.DB.Model(&notifications.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// PATCH /notifications/:notificationId/read
func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Respond(c, apperr.Unauthenticated("Acting user required"))
		return
	}

	var n notifications.Notification
	err := h.DB.Where("id = ? AND recipient_id = ?", c.Param("notificationId"), userID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("Notification not found"))
			return
		}
		apperr.Respond(c, err)
		return
	}

	if err := h.DB.Model(&n).Update("is_read", true).Error; err != nil {
		apperr.Respond(c, err)
		return
	}
	n.IsRead = true
	c.JSON(http.StatusOK, n)
}
