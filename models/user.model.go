package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage string `json:"profile_image" gorm:"default:''"`
	Name         string `json:"name" gorm:"default:''"`
	Email        string `json:"email" gorm:"unique;not null"`
	Role         string `json:"role" gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR
	IsDeleted    bool   `json:"-" gorm:"default:false"`
}
