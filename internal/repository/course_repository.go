package repository

import (
	"errors"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: course %d", util.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(page, pageSize int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64
	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Offset((page - 1) * pageSize).Limit(pageSize).Order("id").Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) Enroll(e *model.Enrollment) error {
	if err := r.DB.Create(e).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: already enrolled", util.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *CourseRepository) Enrollments(courseID uint) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Where("course_id = ?", courseID).Find(&es).Error
	return es, err
}

func (r *CourseRepository) IsEnrolled(courseID, learnerID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, learnerID).
		Count(&count).Error
	return count > 0, err
}
