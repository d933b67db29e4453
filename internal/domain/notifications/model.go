package notifications

import "time"

const (
	TypeNewContributor     = "NEW_CONTRIBUTOR"
	TypeAddedToProject     = "ADDED_TO_PROJECT"
	TypeContributorRemoved = "CONTRIBUTOR_REMOVED"
	TypeProjectCompleted   = "PROJECT_COMPLETED"
	TypeVoteThreshold      = "VOTE_THRESHOLD"
)

type Notification struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	RecipientID uint    `gorm:"not null;index" json:"recipientId"`
	SenderID    *uint   `json:"senderId,omitempty"`
	Type        string  `gorm:"type:varchar(32);not null" json:"type"`
	Message     string  `gorm:"not null" json:"message"`
	ProjectID   *string `gorm:"type:uuid;index" json:"projectId,omitempty"`
	CanvasID    string  `json:"canvasId,omitempty"`
	IsRead      bool    `gorm:"not null;default:false" json:"isRead"`

	CreatedAt time.Time `json:"createdAt"`
}
