package projects

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	StatusActive    = "Active"
	StatusPaused    = "Paused"
	StatusCompleted = "Completed"
)

// Stats is the running aggregate mutated by every accepted contribution.
type Stats struct {
	PixelCount       int64   `gorm:"not null;default:0" json:"pixelCount"`
	ContributorCount int     `gorm:"not null;default:0" json:"contributorCount"`
	PercentComplete  float64 `gorm:"not null;default:0" json:"percentComplete"`
}

type Project struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`

	// CanvasID is the human-readable key clients use to open a canvas.
	CanvasID string `gorm:"not null;uniqueIndex:idx_projects_canvas_id" json:"canvasId"`

	Width  int `gorm:"not null" json:"width"`
	Height int `gorm:"not null" json:"height"`

	Status string `gorm:"type:varchar(16);not null;default:'Active';index" json:"status"`

	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	BaseImageURL string `json:"baseImageUrl,omitempty"`

	OwnerID uint `gorm:"not null;index" json:"ownerId"`

	// Contributors and BannedUsers are JSON arrays of user ids, mutated only
	// under a row lock so membership stays a single-document update.
	Contributors datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"contributors"`
	BannedUsers  datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"bannedUsers"`

	Stats Stats `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`

	Price float64 `gorm:"not null;default:2.99" json:"price"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func decodeIDs(raw datatypes.JSON) []uint {
	if len(raw) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}

func encodeIDs(ids []uint) datatypes.JSON {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	return raw
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (p *Project) ContributorIDs() []uint {
	return decodeIDs(p.Contributors)
}

func (p *Project) IsContributor(userID uint) bool {
	return contains(p.ContributorIDs(), userID)
}

func (p *Project) IsBanned(userID uint) bool {
	return contains(decodeIDs(p.BannedUsers), userID)
}

// AddContributor adds userID with set semantics. It reports whether the set
// changed and keeps ContributorCount reconciled.
func (p *Project) AddContributor(userID uint) bool {
	ids := p.ContributorIDs()
	if contains(ids, userID) {
		return false
	}
	ids = append(ids, userID)
	p.Contributors = encodeIDs(ids)
	p.Stats.ContributorCount = len(ids)
	return true
}

// RemoveContributor removes userID and reports whether it was present.
func (p *Project) RemoveContributor(userID uint) bool {
	ids := p.ContributorIDs()
	out := ids[:0]
	removed := false
	for _, v := range ids {
		if v == userID {
			removed = true
			continue
		}
		out = append(out, v)
	}
	p.Contributors = encodeIDs(out)
	p.Stats.ContributorCount = len(out)
	return removed
}

// Ban adds userID to the ban set. Banned users can never rejoin.
func (p *Project) Ban(userID uint) {
	ids := decodeIDs(p.BannedUsers)
	if contains(ids, userID) {
		return
	}
	p.BannedUsers = encodeIDs(append(ids, userID))
}

// ApplyPixelDelta moves the pixel count by delta (never below zero) and
// recomputes PercentComplete, clamped to [0,100].
func (p *Project) ApplyPixelDelta(delta int64) {
	p.Stats.PixelCount += delta
	if p.Stats.PixelCount < 0 {
		p.Stats.PixelCount = 0
	}
	area := int64(p.Width) * int64(p.Height)
	if area <= 0 {
		p.Stats.PercentComplete = 0
		return
	}
	pct := float64(p.Stats.PixelCount) / float64(area) * 100
	if pct > 100 {
		pct = 100
	}
	p.Stats.PercentComplete = pct
}

// ValidStatus reports whether s is one of the three project states.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusPaused || s == StatusCompleted
}
