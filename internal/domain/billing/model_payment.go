package billing

import (
	"time"

	"collabcanvas-app/internal/domain/users"
)

type Payment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"userId"`
	User      users.User `json:"-"`
	ProjectID string `gorm:"type:uuid;index" json:"projectId"`

	StripeSessionID string  `gorm:"uniqueIndex" json:"-"`
	Amount          float64 `json:"amount"`
	Currency        string  `gorm:"type:varchar(8)" json:"currency"`
	Status          string  `json:"status"`
	ReceiptURL      *string `json:"receiptUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
