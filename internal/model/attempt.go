package model

import (
	"encoding/json"
	"time"
)

type SubjectKind string

const (
	SubjectAssessment SubjectKind = "assessment"
	SubjectContent    SubjectKind = "content"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSuspended  AttemptStatus = "suspended"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptGraded     AttemptStatus = "graded"
	AttemptAbandoned  AttemptStatus = "abandoned"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptPassed     AttemptStatus = "passed"
	AttemptFailed     AttemptStatus = "failed"
)

// attemptTransitions is the forward-only status graph. completed may still be
// refined by a later success verdict; passed and failed never move again.
var attemptTransitions = map[AttemptStatus][]AttemptStatus{
	AttemptInProgress: {AttemptSubmitted, AttemptAbandoned, AttemptSuspended, AttemptCompleted, AttemptPassed, AttemptFailed},
	AttemptSuspended:  {AttemptInProgress, AttemptAbandoned},
	AttemptSubmitted:  {AttemptGraded},
	AttemptCompleted:  {AttemptPassed, AttemptFailed},
}

func (s AttemptStatus) CanTransition(to AttemptStatus) bool {
	for _, t := range attemptTransitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Live reports whether the attempt still occupies the learner's single
// non-terminal slot for its subject.
func (s AttemptStatus) Live() bool {
	return s == AttemptInProgress || s == AttemptSuspended
}

func (s AttemptStatus) Terminal() bool {
	switch s {
	case AttemptGraded, AttemptAbandoned, AttemptCompleted, AttemptPassed, AttemptFailed:
		return true
	}
	return false
}

// Attempt is one learner's try at a gradeable unit (assessment or SCORM
// content). Question snapshots are frozen at start; the scoring block is
// recomputed in full on every grading pass so rawScore never goes stale.
// swagger:model Attempt
type Attempt struct {
	BaseModel
	SubjectID   uint        `gorm:"uniqueIndex:uniq_live_attempt;type:bigint unsigned" json:"subjectId"`
	SubjectKind SubjectKind `gorm:"uniqueIndex:uniq_live_attempt;size:20;not null" json:"subjectKind"`
	LearnerID   uint        `gorm:"uniqueIndex:uniq_live_attempt;index;type:bigint unsigned" json:"learnerId"`

	AttemptNumber int           `gorm:"not null" json:"attemptNumber"`
	Status        AttemptStatus `gorm:"size:20;index;default:'in_progress'" json:"status"`

	// Active is true while the attempt is live and NULL once terminal, so the
	// unique index admits any number of finished attempts per (subject, learner)
	// but at most one live one.
	Active *bool `gorm:"uniqueIndex:uniq_live_attempt" json:"-"`

	// Version guards read-modify-write cycles; saves with a stale version are
	// rejected by the store.
	Version int `gorm:"not null;default:0" json:"version"`

	StartedAt        time.Time  `json:"startedAt"`
	LastActivityAt   time.Time  `json:"lastActivityAt"`
	SubmittedAt      *time.Time `json:"submittedAt,omitempty"`
	TimeSpentSeconds int        `gorm:"default:0" json:"timeSpentSeconds"`
	TimeLimitSeconds int        `gorm:"default:0" json:"timeLimitSeconds"` // 0 = none

	RawScore              float64 `gorm:"default:0" json:"rawScore"`
	PercentageScore       float64 `gorm:"default:0" json:"percentageScore"`
	Passed                bool    `gorm:"default:false" json:"passed"`
	GradingComplete       bool    `gorm:"default:false" json:"gradingComplete"`
	RequiresManualGrading bool    `gorm:"default:false" json:"requiresManualGrading"`

	// Content (SCORM) tracking block.
	ScormVersion    string          `gorm:"size:10" json:"scormVersion,omitempty"`
	ProgressPercent float64         `gorm:"default:0" json:"progressPercent"`
	Location        string          `gorm:"size:255" json:"location,omitempty"`
	SuspendData     string          `gorm:"type:mediumtext" json:"suspendData,omitempty"`
	CmiData         json.RawMessage `gorm:"type:json" json:"cmiData,omitempty"` // JSON: map[string]string
	ScoreRaw        *float64        `json:"scoreRaw,omitempty"`
	ScoreMin        *float64        `json:"scoreMin,omitempty"`
	ScoreMax        *float64        `json:"scoreMax,omitempty"`
	ScoreScaled     *float64        `json:"scoreScaled,omitempty"`

	Questions []AttemptQuestion `gorm:"foreignKey:AttemptID" json:"questions,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) CmiMap() map[string]string {
	out := map[string]string{}
	if len(a.CmiData) > 0 {
		_ = json.Unmarshal(a.CmiData, &out)
	}
	return out
}

func (a *Attempt) SetCmiMap(m map[string]string) {
	buf, _ := json.Marshal(m)
	a.CmiData = buf
}

// AttemptFilter narrows attempt listings. Zero values mean "any".
type AttemptFilter struct {
	SubjectID   uint
	SubjectKind SubjectKind
	LearnerID   uint
	Status      AttemptStatus
	Limit       int
	Offset      int
}

// AttemptQuestion holds the frozen snapshot of one question plus the learner's
// response and its grading state. Later edits to the authoritative question do
// not touch these rows.
// swagger:model AttemptQuestion
type AttemptQuestion struct {
	BaseModel
	AttemptID  uint `gorm:"index;type:bigint unsigned" json:"attemptId"`
	Position   int  `gorm:"not null" json:"position"`
	QuestionID uint `gorm:"type:bigint unsigned" json:"questionId"`

	// Snapshot, captured at attempt start.
	QuestionType     QuestionType    `gorm:"size:50;not null" json:"questionType"`
	Text             string          `gorm:"type:text" json:"text"`
	Options          json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer    string          `gorm:"type:text" json:"-"`
	AlternateAnswers json.RawMessage `gorm:"type:json" json:"-"`
	CorrectPairs     json.RawMessage `gorm:"type:json" json:"-"`
	PointsPossible   float64         `gorm:"default:0" json:"pointsPossible"`

	// Learner response, mutable until submit. Matching responses are a JSON
	// object of key -> chosen value.
	Response string `gorm:"type:text" json:"response"`

	IsCorrect    *bool      `json:"isCorrect,omitempty"`
	PointsEarned float64    `gorm:"default:0" json:"pointsEarned"`
	Feedback     string     `gorm:"type:text" json:"feedback,omitempty"`
	GradedAt     *time.Time `json:"gradedAt,omitempty"`
	GradedBy     *uint      `gorm:"type:bigint unsigned" json:"gradedBy,omitempty"`
}

func (AttemptQuestion) TableName() string {
	return "attempt_questions"
}

func (q *AttemptQuestion) AlternateList() []string {
	if len(q.AlternateAnswers) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(q.AlternateAnswers, &out); err != nil {
		return nil
	}
	return out
}

func (q *AttemptQuestion) PairMap() map[string]string {
	if len(q.CorrectPairs) == 0 {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(q.CorrectPairs, &out); err != nil {
		return nil
	}
	return out
}
