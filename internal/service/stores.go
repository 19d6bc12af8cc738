package service

import "lms_backend/internal/model"

// The attempt engine talks to its collaborators through these interfaces;
// the gorm repositories implement them in production and tests substitute
// in-memory fakes.

// AttemptStore is the entity store for attempts. Create must enforce the
// single-live-attempt constraint at the storage layer (unique index, not
// check-then-create) and report violations as util.ErrConflict. Save must
// reject stale versions the same way.
type AttemptStore interface {
	Create(a *model.Attempt) error
	Save(a *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	List(f model.AttemptFilter) ([]model.Attempt, error)
	CountFinished(subjectID uint, kind model.SubjectKind, learnerID uint) (int64, error)
}

// QuestionBankReader is the read API over the active question pool.
type QuestionBankReader interface {
	ActiveQuestions(bankIDs []uint) ([]model.Question, error)
}

// SubjectConfigReader resolves the grading configuration of an assessment or
// content item.
type SubjectConfigReader interface {
	SubjectConfig(subjectID uint, kind model.SubjectKind) (*model.SubjectConfig, error)
}

// LearnerReader resolves learner identity for the read-only CMI fields.
type LearnerReader interface {
	Learner(id uint) (*model.User, error)
}
