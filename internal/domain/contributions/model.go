package contributions

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// MaxPerUserPerProject caps how many contributions one user may hold
// against one project.
const MaxPerUserPerProject = 10

const (
	ModeBrush  = "brush"
	ModeEraser = "eraser"
	ModeLine   = "line"
	ModePicker = "picker"
)

// Segment is one straight piece of a stroke path.
type Segment struct {
	FromX float64 `json:"fromX"`
	FromY float64 `json:"fromY"`
	ToX   float64 `json:"toX"`
	ToY   float64 `json:"toY"`
}

// Color uses 0-255 channels with alpha in [0,1], matching the client payload.
type Color struct {
	R int     `json:"r"`
	G int     `json:"g"`
	B int     `json:"b"`
	A float64 `json:"a"`
}

type Stroke struct {
	StrokePath []Segment `json:"strokePath"`
	BrushSize  float64   `json:"brushSize"`
	Color      Color     `json:"color"`
	Mode       string    `json:"mode"`
}

// Voter records one user's standing vote. A user appears at most once.
type Voter struct {
	UserID   uint   `json:"userId"`
	VoteType string `json:"voteType"`
}

type Contribution struct {
	ID        string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;not null;index" json:"projectId"`
	UserID    uint   `gorm:"not null;index" json:"userId"`

	Strokes datatypes.JSON `gorm:"type:jsonb;not null" json:"strokes"`

	// Upvotes/Downvotes are a cached projection of Voters and must only be
	// mutated through ApplyVote.
	Upvotes   int            `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int            `gorm:"not null;default:0" json:"downvotes"`
	Voters    datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"voters"`

	ThumbnailURL string `json:"thumbnailUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DecodeStrokes returns the stroke batch stored on the contribution.
func (c *Contribution) DecodeStrokes() []Stroke {
	if len(c.Strokes) == 0 {
		return nil
	}
	var strokes []Stroke
	if err := json.Unmarshal(c.Strokes, &strokes); err != nil {
		return nil
	}
	return strokes
}

// EncodeStrokes serializes strokes for storage.
func EncodeStrokes(strokes []Stroke) (datatypes.JSON, error) {
	raw, err := json.Marshal(strokes)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// VoterList decodes the voters set.
func (c *Contribution) VoterList() []Voter {
	if len(c.Voters) == 0 {
		return nil
	}
	var voters []Voter
	if err := json.Unmarshal(c.Voters, &voters); err != nil {
		return nil
	}
	return voters
}

// PixelDelta is the number of units a stroke batch adds to a project's
// pixel count: one per path segment.
func PixelDelta(strokes []Stroke) int64 {
	var n int64
	for _, s := range strokes {
		n += int64(len(s.StrokePath))
	}
	return n
}

// ValidateStrokes checks that the batch is non-empty and every stroke has a
// non-empty path.
func ValidateStrokes(strokes []Stroke) error {
	if len(strokes) == 0 {
		return ErrEmptyStrokes
	}
	for _, s := range strokes {
		if len(s.StrokePath) == 0 {
			return ErrEmptyStrokePath
		}
	}
	return nil
}
