package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
)

// ContentService manages SCORM-tracked content items and their package
// blobs. The runtime player is a frontend concern; the backend stores the
// package and tracks attempts against the item.
type ContentService struct {
	ContentRepo    *repository.ContentRepository
	StorageService *StorageService
	Configs        *SubjectConfigService
}

func NewContentService(contentRepo *repository.ContentRepository, storageService *StorageService, configs *SubjectConfigService) *ContentService {
	return &ContentService{
		ContentRepo:    contentRepo,
		StorageService: storageService,
		Configs:        configs,
	}
}

func (s *ContentService) Create(item *model.ContentItem) error {
	if err := s.validate(item); err != nil {
		return err
	}
	return s.ContentRepo.Create(item)
}

func (s *ContentService) Get(id uint) (*model.ContentItem, error) {
	return s.ContentRepo.FindByID(id)
}

func (s *ContentService) ListByCourse(courseID uint) ([]model.ContentItem, error) {
	return s.ContentRepo.ListByCourse(courseID)
}

func (s *ContentService) Update(item *model.ContentItem) error {
	if err := s.validate(item); err != nil {
		return err
	}
	if err := s.ContentRepo.Update(item); err != nil {
		return err
	}
	s.Configs.Invalidate(item.ID, model.SubjectContent)
	return nil
}

func (s *ContentService) Delete(id uint) error {
	item, err := s.ContentRepo.FindByID(id)
	if err != nil {
		return err
	}
	if item.PackageKey != "" {
		if err := s.StorageService.Delete(context.Background(), item.PackageKey); err != nil {
			logger.Log.Warn("package blob removal failed", zap.String("key", item.PackageKey), zap.Error(err))
		}
	}
	if err := s.ContentRepo.Delete(id); err != nil {
		return err
	}
	s.Configs.Invalidate(id, model.SubjectContent)
	return nil
}

func (s *ContentService) Publish(id uint) (*model.ContentItem, error) {
	item, err := s.ContentRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if item.PackageKey == "" {
		return nil, fmt.Errorf("%w: no package uploaded", util.ErrInvalidState)
	}

	now := time.Now()
	item.IsPublished = true
	item.PublishedAt = &now
	if err := s.ContentRepo.Update(item); err != nil {
		return nil, err
	}
	s.Configs.Invalidate(item.ID, model.SubjectContent)
	return item, nil
}

// UploadPackage stores the zipped package blob and records its storage key.
func (s *ContentService) UploadPackage(ctx context.Context, id uint, file *multipart.FileHeader) (*model.ContentItem, error) {
	item, err := s.ContentRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if strings.ToLower(filepath.Ext(file.Filename)) != ".zip" {
		return nil, fmt.Errorf("%w: package must be a zip archive", util.ErrValidation)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := fmt.Sprintf("packages/%d/%s.zip", item.ID, model.GenerateUUID())
	if _, err := s.StorageService.Upload(ctx, key, src, file.Size, "application/zip"); err != nil {
		return nil, err
	}

	item.PackageKey = key
	if err := s.ContentRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ContentService) validate(item *model.ContentItem) error {
	if item.Title == "" {
		return fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if item.ScormVersion != model.ScormV12 && item.ScormVersion != model.ScormV2004 {
		return fmt.Errorf("%w: scormVersion must be %q or %q", util.ErrValidation, model.ScormV12, model.ScormV2004)
	}
	if item.MasteryScore < 0 || item.MasteryScore > 100 {
		return fmt.Errorf("%w: masteryScore must be within [0, 100]", util.ErrValidation)
	}
	if item.MaxAttempts != nil && *item.MaxAttempts <= 0 {
		return fmt.Errorf("%w: maxAttempts must be positive when set", util.ErrValidation)
	}
	if item.SuspendDataLimit < 0 {
		return fmt.Errorf("%w: suspendDataLimit must not be negative", util.ErrValidation)
	}
	return nil
}
