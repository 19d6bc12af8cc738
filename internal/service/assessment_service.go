package service

import (
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

// AssessmentService covers the authoring side: assessments are configured
// against question banks and published before learners can attempt them.
type AssessmentService struct {
	AssessmentRepo *repository.AssessmentRepository
	QuestionRepo   *repository.QuestionRepository
	Configs        *SubjectConfigService
}

func NewAssessmentService(assessmentRepo *repository.AssessmentRepository, questionRepo *repository.QuestionRepository, configs *SubjectConfigService) *AssessmentService {
	return &AssessmentService{
		AssessmentRepo: assessmentRepo,
		QuestionRepo:   questionRepo,
		Configs:        configs,
	}
}

func (s *AssessmentService) Create(a *model.Assessment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	return s.AssessmentRepo.Create(a)
}

func (s *AssessmentService) Get(id uint) (*model.Assessment, error) {
	return s.AssessmentRepo.FindByID(id)
}

func (s *AssessmentService) ListByCourse(courseID uint) ([]model.Assessment, error) {
	return s.AssessmentRepo.ListByCourse(courseID)
}

func (s *AssessmentService) Update(a *model.Assessment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	if err := s.AssessmentRepo.Update(a); err != nil {
		return err
	}
	s.Configs.Invalidate(a.ID, model.SubjectAssessment)
	return nil
}

func (s *AssessmentService) Delete(id uint) error {
	if err := s.AssessmentRepo.Delete(id); err != nil {
		return err
	}
	s.Configs.Invalidate(id, model.SubjectAssessment)
	return nil
}

// Publish checks that the configured banks can actually satisfy the
// selection before learners see the assessment.
func (s *AssessmentService) Publish(id uint) (*model.Assessment, error) {
	a, err := s.AssessmentRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	pool, err := s.QuestionRepo.ActiveQuestions(a.BankIDList())
	if err != nil {
		return nil, err
	}
	selector := NewQuestionSelector()
	if _, err := selector.Select(pool, a.Selection(), time.Now().UnixNano()); err != nil {
		return nil, err
	}

	now := time.Now()
	a.IsPublished = true
	a.PublishedAt = &now
	if err := s.AssessmentRepo.Update(a); err != nil {
		return nil, err
	}
	s.Configs.Invalidate(a.ID, model.SubjectAssessment)
	return a, nil
}

func (s *AssessmentService) validate(a *model.Assessment) error {
	if a.Title == "" {
		return fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if a.QuestionCount <= 0 {
		return fmt.Errorf("%w: questionCount must be positive", util.ErrValidation)
	}
	if len(a.BankIDList()) == 0 {
		return fmt.Errorf("%w: at least one question bank is required", util.ErrValidation)
	}
	if a.PassingScore < 0 || a.PassingScore > 100 {
		return fmt.Errorf("%w: passingScore must be within [0, 100]", util.ErrValidation)
	}
	if a.MaxAttempts != nil && *a.MaxAttempts <= 0 {
		return fmt.Errorf("%w: maxAttempts must be positive when set", util.ErrValidation)
	}
	switch a.FeedbackSetting {
	case model.FeedbackNever, model.FeedbackAfterSubmit, model.FeedbackAfterAllAttempts:
	default:
		return fmt.Errorf("%w: unknown feedback setting %q", util.ErrValidation, a.FeedbackSetting)
	}
	switch a.SelectionMode {
	case model.SelectSequential, model.SelectRandom, model.SelectWeighted:
	default:
		return fmt.Errorf("%w: unknown selection mode %q", util.ErrValidation, a.SelectionMode)
	}
	return nil
}
