package repository

import (
	"errors"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) CreateBank(bank *model.QuestionBank) error {
	return r.DB.Create(bank).Error
}

func (r *QuestionRepository) FindBankByID(id uint) (*model.QuestionBank, error) {
	var bank model.QuestionBank
	err := r.DB.First(&bank, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: question bank %d", util.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *QuestionRepository) ListBanks(creatorID uint) ([]model.QuestionBank, error) {
	q := r.DB.Model(&model.QuestionBank{})
	if creatorID != 0 {
		q = q.Where("creator_id = ?", creatorID)
	}
	var banks []model.QuestionBank
	err := q.Order("id").Find(&banks).Error
	return banks, err
}

func (r *QuestionRepository) UpdateBank(bank *model.QuestionBank) error {
	return r.DB.Save(bank).Error
}

func (r *QuestionRepository) DeleteBank(id uint) error {
	return r.DB.Delete(&model.QuestionBank{}, id).Error
}

func (r *QuestionRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: question %d", util.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListQuestions(bankID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("bank_id = ?", bankID).Order("id").Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) UpdateQuestion(q *model.Question) error {
	return r.DB.Save(q).Error
}

// DeleteQuestion soft-deletes. Attempt snapshots keep their frozen copy, so
// grading of past attempts is unaffected.
func (r *QuestionRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// ActiveQuestions returns the selectable pool across the given banks,
// ordered by bank then id so sequential selection is deterministic.
func (r *QuestionRepository) ActiveQuestions(bankIDs []uint) ([]model.Question, error) {
	if len(bankIDs) == 0 {
		return nil, nil
	}
	var qs []model.Question
	err := r.DB.
		Where("bank_id IN ? AND active = ?", bankIDs, true).
		Order("bank_id, id").
		Find(&qs).Error
	return qs, err
}
