package repository

import (
	"errors"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// AttemptRepository persists attempts and their question snapshots. It
// implements service.AttemptStore: duplicate-key inserts and stale-version
// updates both surface as util.ErrConflict.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(a *model.Attempt) error {
	if err := r.DB.Create(a).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: a live attempt already exists for this subject", util.ErrConflict)
		}
		return err
	}
	return nil
}

// Save writes the attempt guarded by its version column. The row only
// updates when the version in the database still matches the one the caller
// loaded; zero affected rows means a concurrent writer won.
func (r *AttemptRepository) Save(a *model.Attempt) error {
	loaded := a.Version
	a.Version = loaded + 1

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Attempt{}).
			Where("id = ? AND version = ?", a.ID, loaded).
			Select("*").
			Omit("created_at").
			Updates(a)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: attempt %d was modified concurrently", util.ErrConflict, a.ID)
		}

		for i := range a.Questions {
			a.Questions[i].AttemptID = a.ID
		}
		if len(a.Questions) > 0 {
			if err := tx.Save(&a.Questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		a.Version = loaded
		return err
	}
	return nil
}

func (r *AttemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: attempt %d", util.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) List(f model.AttemptFilter) ([]model.Attempt, error) {
	q := r.DB.Model(&model.Attempt{})
	if f.SubjectID != 0 {
		q = q.Where("subject_id = ?", f.SubjectID)
	}
	if f.SubjectKind != "" {
		q = q.Where("subject_kind = ?", f.SubjectKind)
	}
	if f.LearnerID != 0 {
		q = q.Where("learner_id = ?", f.LearnerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var attempts []model.Attempt
	err := q.Order("started_at DESC").Find(&attempts).Error
	return attempts, err
}

// CountFinished counts non-live attempts; in_progress and suspended rows do
// not consume the attempt budget yet.
func (r *AttemptRepository) CountFinished(subjectID uint, kind model.SubjectKind, learnerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("subject_id = ? AND subject_kind = ? AND learner_id = ?", subjectID, kind, learnerID).
		Where("status NOT IN ?", []model.AttemptStatus{model.AttemptInProgress, model.AttemptSuspended}).
		Count(&count).Error
	return count, err
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
