package model

import (
	"encoding/json"
	"strings"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	FillBlank      QuestionType = "fill_blank"
	Matching       QuestionType = "matching"
	Essay          QuestionType = "essay"
)

// swagger:model QuestionBank
type QuestionBank struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	CreatorID   uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (QuestionBank) TableName() string {
	return "question_banks"
}

// Question is the authoritative, editable question record. Attempts never
// reference it directly after start; they carry a frozen snapshot instead.
// swagger:model Question
type Question struct {
	BaseModel
	BankID           uint            `gorm:"index;type:bigint unsigned" json:"bankId"`
	QuestionType     QuestionType    `gorm:"size:50;not null" json:"questionType"`
	Text             string          `gorm:"type:text;not null" json:"text"`
	Options          json.RawMessage `gorm:"type:json" json:"options,omitempty"` // JSON: []string choice labels
	CorrectAnswer    string          `gorm:"type:text" json:"correctAnswer"`
	AlternateAnswers json.RawMessage `gorm:"type:json" json:"alternateAnswers,omitempty"` // JSON: []string
	CorrectPairs     json.RawMessage `gorm:"type:json" json:"correctPairs,omitempty"`     // JSON: map[string]string (matching)
	Points           float64         `gorm:"default:1" json:"points"`
	Difficulty       int             `gorm:"default:1" json:"difficulty"` // 1-5
	Tags             string          `gorm:"size:255" json:"tags"`        // comma separated
	Active           bool            `gorm:"default:true" json:"active"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) TagList() []string {
	if q.Tags == "" {
		return nil
	}
	parts := strings.Split(q.Tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (q *Question) HasTag(tag string) bool {
	for _, t := range q.TagList() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (q *Question) AlternateList() []string {
	if len(q.AlternateAnswers) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(q.AlternateAnswers, &out); err != nil {
		return nil
	}
	return out
}

func (q *Question) PairMap() map[string]string {
	if len(q.CorrectPairs) == 0 {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(q.CorrectPairs, &out); err != nil {
		return nil
	}
	return out
}
