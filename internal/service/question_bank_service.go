package service

import (
	"encoding/json"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type QuestionBankService struct {
	QuestionRepo *repository.QuestionRepository
}

func NewQuestionBankService(questionRepo *repository.QuestionRepository) *QuestionBankService {
	return &QuestionBankService{QuestionRepo: questionRepo}
}

func (s *QuestionBankService) CreateBank(bank *model.QuestionBank) error {
	if bank.Name == "" {
		return fmt.Errorf("%w: bank name is required", util.ErrValidation)
	}
	return s.QuestionRepo.CreateBank(bank)
}

func (s *QuestionBankService) GetBank(id uint) (*model.QuestionBank, error) {
	return s.QuestionRepo.FindBankByID(id)
}

func (s *QuestionBankService) ListBanks(creatorID uint) ([]model.QuestionBank, error) {
	return s.QuestionRepo.ListBanks(creatorID)
}

func (s *QuestionBankService) UpdateBank(bank *model.QuestionBank) error {
	return s.QuestionRepo.UpdateBank(bank)
}

func (s *QuestionBankService) DeleteBank(id uint) error {
	return s.QuestionRepo.DeleteBank(id)
}

func (s *QuestionBankService) AddQuestion(q *model.Question) error {
	if err := s.validateQuestion(q); err != nil {
		return err
	}
	if _, err := s.QuestionRepo.FindBankByID(q.BankID); err != nil {
		return err
	}
	return s.QuestionRepo.CreateQuestion(q)
}

func (s *QuestionBankService) GetQuestion(id uint) (*model.Question, error) {
	return s.QuestionRepo.FindQuestionByID(id)
}

func (s *QuestionBankService) ListQuestions(bankID uint) ([]model.Question, error) {
	return s.QuestionRepo.ListQuestions(bankID)
}

func (s *QuestionBankService) UpdateQuestion(q *model.Question) error {
	if err := s.validateQuestion(q); err != nil {
		return err
	}
	return s.QuestionRepo.UpdateQuestion(q)
}

func (s *QuestionBankService) DeleteQuestion(id uint) error {
	return s.QuestionRepo.DeleteQuestion(id)
}

// validateQuestion checks the per-type answer key shape at authoring time so
// grading never encounters a malformed key.
func (s *QuestionBankService) validateQuestion(q *model.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", util.ErrValidation)
	}
	if q.Points <= 0 {
		return fmt.Errorf("%w: points must be positive", util.ErrValidation)
	}
	if q.Difficulty < 1 || q.Difficulty > 5 {
		return fmt.Errorf("%w: difficulty must be within [1, 5]", util.ErrValidation)
	}

	switch q.QuestionType {
	case model.MultipleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: multiple choice requires options", util.ErrValidation)
		}
		var opts []string
		if err := json.Unmarshal(q.Options, &opts); err != nil || len(opts) < 2 {
			return fmt.Errorf("%w: options must be a list of at least two choices", util.ErrValidation)
		}
		if q.CorrectAnswer == "" {
			return fmt.Errorf("%w: correct answer is required", util.ErrValidation)
		}
	case model.TrueFalse:
		if q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			return fmt.Errorf("%w: true/false answer must be \"true\" or \"false\"", util.ErrValidation)
		}
	case model.ShortAnswer, model.FillBlank:
		if q.CorrectAnswer == "" {
			return fmt.Errorf("%w: correct answer is required", util.ErrValidation)
		}
	case model.Matching:
		if len(q.PairMap()) == 0 {
			return fmt.Errorf("%w: matching requires at least one pair", util.ErrValidation)
		}
	case model.Essay:
		// 人工评分，无标准答案
	default:
		return fmt.Errorf("%w: unknown question type %q", util.ErrValidation, q.QuestionType)
	}
	return nil
}
