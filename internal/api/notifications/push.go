package notifications

import (
	"collabcanvas-app/internal/domain/notifications"
	"collabcanvas-app/internal/realtime"
	"collabcanvas-app/logutils"

	"gorm.io/gorm"
)

// Push persists a notification and delivers it over the recipient's private
// room. Best-effort: a failed insert is logged and the event is skipped.
func Push(db *gorm.DB, rt realtime.Gateway, n notifications.Notification) {
	if err := db.Create(&n).Error; err != nil {
		logutils.Log.WithFields(logutils.Fields{"recipient": n.RecipientID, "type": n.Type}).
			WithError(err).Warn("notification insert failed")
		return
	}
	rt.PublishToUser(n.RecipientID, "new_notification", n)
}
