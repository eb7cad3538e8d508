package course

import "gorm.io/gorm"

// Course represents a marketplace course owned by an instructor.
// CreatorID never changes after creation.
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	CreatorID    uint    `json:"creator_id" gorm:"index;not null"`
	Price        float64 `json:"price" gorm:"default:0"`
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `json:"-" gorm:"default:false"`
}

// Lecture is a single video lecture inside a course.
type Lecture struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}
