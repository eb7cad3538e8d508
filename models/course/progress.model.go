package course

import "gorm.io/gorm"

// CourseProgress tracks one student's progress through one course.
// Completed does not guarantee every lecture row is viewed; metrics
// recompute the viewed fraction from LectureProgress when needed.
type CourseProgress struct {
	gorm.Model
	UserID          uint              `json:"user_id" gorm:"index;not null"`
	CourseID        uint              `json:"course_id" gorm:"index;not null"`
	Completed       bool              `json:"completed" gorm:"default:false"`
	LectureProgress []LectureProgress `json:"lecture_progress" gorm:"foreignKey:ProgressID"`
	IsDeleted       bool              `json:"-" gorm:"default:false"`
}

// LectureProgress is one lecture entry inside a progress record.
type LectureProgress struct {
	gorm.Model
	ProgressID uint `json:"progress_id" gorm:"index;not null"`
	LectureID  uint `json:"lecture_id" gorm:"not null"`
	Viewed     bool `json:"viewed" gorm:"default:false"`
	OrderIndex int  `json:"order_index" gorm:"default:0"`
}
