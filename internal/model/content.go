package model

import "time"

const (
	ScormV12   = "1.2"
	ScormV2004 = "2004"

	// SuspendDataLimitV12 is fixed by the SCORM 1.2 data model.
	SuspendDataLimitV12 = 4096
)

// ContentItem is a SCORM-tracked content unit. The package runtime/player is
// out of scope; the backend stores the package blob and tracks attempts.
// swagger:model ContentItem
type ContentItem struct {
	BaseModel
	CourseID    uint       `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`

	ScormVersion     string  `gorm:"size:10;default:'1.2'" json:"scormVersion"` // "1.2" | "2004"
	MasteryScore     float64 `gorm:"default:0" json:"masteryScore"`             // percentage threshold
	MaxAttempts      *int    `json:"maxAttempts,omitempty"`
	TimeLimitSeconds int     `gorm:"default:0" json:"timeLimitSeconds"`
	SuspendDataLimit int     `gorm:"default:0" json:"suspendDataLimit"` // 2004 only; 0 = unlimited

	PackageKey string `gorm:"size:512" json:"packageKey"` // object storage key
}

func (ContentItem) TableName() string {
	return "content_items"
}
