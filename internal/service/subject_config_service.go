package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	subjectConfigKeyPrefix = "subject_config:"
	subjectConfigTTL       = 5 * time.Minute
)

// SubjectConfigService resolves the grading configuration of an assessment
// or content item, with a short-lived Redis cache in front of the database.
// It implements SubjectConfigReader. A nil Redis client disables caching.
type SubjectConfigService struct {
	AssessmentRepo *repository.AssessmentRepository
	ContentRepo    *repository.ContentRepository
	Redis          *redis.Client
}

func NewSubjectConfigService(assessmentRepo *repository.AssessmentRepository, contentRepo *repository.ContentRepository, rdb *redis.Client) *SubjectConfigService {
	return &SubjectConfigService{
		AssessmentRepo: assessmentRepo,
		ContentRepo:    contentRepo,
		Redis:          rdb,
	}
}

func (s *SubjectConfigService) SubjectConfig(subjectID uint, kind model.SubjectKind) (*model.SubjectConfig, error) {
	key := fmt.Sprintf("%s%s:%d", subjectConfigKeyPrefix, kind, subjectID)
	ctx := context.Background()

	if s.Redis != nil {
		if data, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
			var cfg model.SubjectConfig
			if err := json.Unmarshal(data, &cfg); err == nil {
				return &cfg, nil
			}
		}
	}

	cfg, err := s.load(subjectID, kind)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(cfg); err == nil {
			if err := s.Redis.Set(ctx, key, data, subjectConfigTTL).Err(); err != nil {
				logger.Log.Warn("subject config cache write failed", zap.Error(err))
			}
		}
	}
	return cfg, nil
}

// Invalidate drops the cached config after an authoring update.
func (s *SubjectConfigService) Invalidate(subjectID uint, kind model.SubjectKind) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf("%s%s:%d", subjectConfigKeyPrefix, kind, subjectID)
	if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
		logger.Log.Warn("subject config cache invalidation failed", zap.Error(err))
	}
}

func (s *SubjectConfigService) load(subjectID uint, kind model.SubjectKind) (*model.SubjectConfig, error) {
	switch kind {
	case model.SubjectAssessment:
		a, err := s.AssessmentRepo.FindByID(subjectID)
		if err != nil {
			return nil, err
		}
		return &model.SubjectConfig{
			SubjectID:        a.ID,
			Kind:             model.SubjectAssessment,
			MaxAttempts:      a.MaxAttempts,
			TimeLimitSeconds: a.TimeLimitSeconds,
			PassingScore:     a.PassingScore,
			FeedbackSetting:  a.FeedbackSetting,
			Selection:        a.Selection(),
		}, nil
	case model.SubjectContent:
		item, err := s.ContentRepo.FindByID(subjectID)
		if err != nil {
			return nil, err
		}
		return &model.SubjectConfig{
			SubjectID:        item.ID,
			Kind:             model.SubjectContent,
			MaxAttempts:      item.MaxAttempts,
			TimeLimitSeconds: item.TimeLimitSeconds,
			PassingScore:     item.MasteryScore,
			FeedbackSetting:  model.FeedbackNever,
			ScormVersion:     item.ScormVersion,
			SuspendDataLimit: item.SuspendDataLimit,
		}, nil
	default:
		return nil, fmt.Errorf("unknown subject kind %q", kind)
	}
}
