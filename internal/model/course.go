package model

// swagger:model Course
type Course struct {
	BaseModel
	Code        string `gorm:"size:50;unique;not null" json:"code"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	TeacherID   uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	CourseID uint   `gorm:"uniqueIndex:uniq_enrollment;type:bigint unsigned" json:"courseId"`
	UserID   uint   `gorm:"uniqueIndex:uniq_enrollment;type:bigint unsigned" json:"userId"`
	Status   string `gorm:"size:20;default:'active'" json:"status"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
