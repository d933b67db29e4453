package drawinglog

import (
	"time"

	"gorm.io/datatypes"
)

// Entry is one stroke in the append-only drawing audit log. The log exists
// for timelapse reconstruction; writes to it are best-effort.
type Entry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID string         `gorm:"type:uuid;not null;index" json:"projectId"`
	UserID    uint           `gorm:"not null" json:"userId"`
	Stroke    datatypes.JSON `gorm:"type:jsonb;not null" json:"stroke"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Entry) TableName() string { return "drawing_logs" }
