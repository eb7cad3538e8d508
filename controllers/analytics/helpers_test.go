package controllers

import (
	"time"

	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"gorm.io/gorm"
)

func testScope(courses ...courseModels.Course) *InstructorScope {
	scope := &InstructorScope{
		InstructorID: 1,
		Courses:      make(map[uint]courseModels.Course, len(courses)),
	}
	for _, c := range courses {
		scope.CourseIDs = append(scope.CourseIDs, c.ID)
		scope.Courses[c.ID] = c
	}
	return scope
}

func testCourse(id uint, title string, price float64) courseModels.Course {
	return courseModels.Course{
		Model:       gorm.Model{ID: id},
		Title:       title,
		CreatorID:   1,
		Price:       price,
		IsPublished: true,
	}
}

func testPurchase(id, courseID, userID uint, amount float64, createdAt time.Time) courseModels.CoursePurchase {
	return courseModels.CoursePurchase{
		Model:    gorm.Model{ID: id, CreatedAt: createdAt},
		CourseID: courseID,
		UserID:   userID,
		Amount:   amount,
		Status:   courseModels.PurchaseCompleted,
	}
}

func testUser(id uint, name string) models.User {
	return models.User{
		Model: gorm.Model{ID: id},
		Name:  name,
		Email: name + "@test.local",
		Role:  "STUDENT",
	}
}

// testProgress builds a progress record with viewed entries first.
func testProgress(id, courseID, userID uint, completed bool, viewed, total int, updatedAt time.Time) courseModels.CourseProgress {
	progress := courseModels.CourseProgress{
		Model:     gorm.Model{ID: id, UpdatedAt: updatedAt},
		CourseID:  courseID,
		UserID:    userID,
		Completed: completed,
	}
	for i := 0; i < total; i++ {
		progress.LectureProgress = append(progress.LectureProgress, courseModels.LectureProgress{
			ProgressID: id,
			LectureID:  uint(100 + i),
			Viewed:     i < viewed,
			OrderIndex: i,
		})
	}
	return progress
}
