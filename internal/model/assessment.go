package model

import (
	"encoding/json"
	"time"
)

type FeedbackSetting string

const (
	FeedbackNever            FeedbackSetting = "never"
	FeedbackAfterSubmit      FeedbackSetting = "after_submit"
	FeedbackAfterAllAttempts FeedbackSetting = "after_all_attempts"
)

type SelectionMode string

const (
	SelectSequential SelectionMode = "sequential"
	SelectRandom     SelectionMode = "random"
	SelectWeighted   SelectionMode = "weighted"
)

// swagger:model Assessment
type Assessment struct {
	BaseModel
	CourseID    uint       `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`

	MaxAttempts      *int            `json:"maxAttempts,omitempty"` // nil = unlimited
	TimeLimitSeconds int             `gorm:"default:0" json:"timeLimitSeconds"`
	PassingScore     float64         `gorm:"default:60" json:"passingScore"` // percentage threshold
	FeedbackSetting  FeedbackSetting `gorm:"size:30;default:'after_submit'" json:"feedbackSetting"`

	SelectionMode SelectionMode   `gorm:"size:20;default:'sequential'" json:"selectionMode"`
	QuestionCount int             `gorm:"default:0" json:"questionCount"`
	BankIDs       json.RawMessage `gorm:"type:json" json:"bankIds"` // JSON: []uint
	TagFilter     string          `gorm:"size:255" json:"tagFilter"`
	MinDifficulty int             `gorm:"default:0" json:"minDifficulty"`
	MaxDifficulty int             `gorm:"default:0" json:"maxDifficulty"` // 0 = no upper bound
}

func (Assessment) TableName() string {
	return "assessments"
}

func (a *Assessment) BankIDList() []uint {
	if len(a.BankIDs) == 0 {
		return nil
	}
	var out []uint
	if err := json.Unmarshal(a.BankIDs, &out); err != nil {
		return nil
	}
	return out
}

// SelectionConfig is the slice of assessment settings the question selector needs.
type SelectionConfig struct {
	BankIDs       []uint
	QuestionCount int
	Mode          SelectionMode
	TagFilter     []string
	MinDifficulty int
	MaxDifficulty int
}

func (a *Assessment) Selection() SelectionConfig {
	var tags []string
	if a.TagFilter != "" {
		tags = (&Question{Tags: a.TagFilter}).TagList()
	}
	return SelectionConfig{
		BankIDs:       a.BankIDList(),
		QuestionCount: a.QuestionCount,
		Mode:          a.SelectionMode,
		TagFilter:     tags,
		MinDifficulty: a.MinDifficulty,
		MaxDifficulty: a.MaxDifficulty,
	}
}

// SubjectConfig is what the attempt engine knows about a gradeable unit,
// assembled from either an assessment or a content item.
type SubjectConfig struct {
	SubjectID        uint
	Kind             SubjectKind
	MaxAttempts      *int
	TimeLimitSeconds int
	PassingScore     float64
	FeedbackSetting  FeedbackSetting
	Selection        SelectionConfig
	ScormVersion     string
	SuspendDataLimit int
}
