package repository

import (
	"errors"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Create(item *model.ContentItem) error {
	return r.DB.Create(item).Error
}

func (r *ContentRepository) FindByID(id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.DB.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: content item %d", util.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContentRepository) ListByCourse(courseID uint) ([]model.ContentItem, error) {
	var items []model.ContentItem
	err := r.DB.Where("course_id = ?", courseID).Order("id").Find(&items).Error
	return items, err
}

func (r *ContentRepository) Update(item *model.ContentItem) error {
	return r.DB.Save(item).Error
}

func (r *ContentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ContentItem{}, id).Error
}
