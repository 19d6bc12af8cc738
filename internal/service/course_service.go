package service

import (
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

func (s *CourseService) Create(course *model.Course) error {
	if course.Code == "" || course.Title == "" {
		return fmt.Errorf("%w: code and title are required", util.ErrValidation)
	}
	return s.CourseRepo.Create(course)
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	return s.CourseRepo.FindByID(id)
}

func (s *CourseService) List(page, pageSize int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.CourseRepo.List(page, pageSize)
}

func (s *CourseService) Update(course *model.Course) error {
	return s.CourseRepo.Update(course)
}

func (s *CourseService) Delete(id uint) error {
	return s.CourseRepo.Delete(id)
}

// Enroll registers a learner on a published course. Duplicate enrollments
// surface as util.ErrConflict from the unique index.
func (s *CourseService) Enroll(courseID, userID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return err
	}
	if !course.IsPublished {
		return fmt.Errorf("%w: course is not published", util.ErrInvalidState)
	}
	return s.CourseRepo.Enroll(&model.Enrollment{CourseID: courseID, UserID: userID})
}

func (s *CourseService) Enrollments(courseID uint) ([]model.Enrollment, error) {
	return s.CourseRepo.Enrollments(courseID)
}

func (s *CourseService) IsEnrolled(courseID, userID uint) (bool, error) {
	return s.CourseRepo.IsEnrolled(courseID, userID)
}
