package course

import "gorm.io/gorm"

// Purchase statuses. Only completed purchases count toward revenue
// and enrollment metrics.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// CoursePurchase records a checkout result for one user and one course.
// Rows are written by the checkout flow; analytics only reads them.
type CoursePurchase struct {
	gorm.Model
	CourseID  uint    `json:"course_id" gorm:"index;not null"`
	UserID    uint    `json:"user_id" gorm:"index;not null"`
	Amount    float64 `json:"amount" gorm:"not null"` // non-negative
	Status    string  `json:"status" gorm:"default:'pending'"`
	IsDeleted bool    `json:"-" gorm:"default:false"`
}

// Enrollment links a student to a course. Created on purchase completion
// by the checkout flow; the set only grows.
type Enrollment struct {
	gorm.Model
	CourseID  uint `json:"course_id" gorm:"index;not null;uniqueIndex:idx_enrollment_course_user"`
	UserID    uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_enrollment_course_user"`
	IsDeleted bool `json:"-" gorm:"default:false"`
}
