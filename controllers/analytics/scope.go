package controllers

import (
	"context"
	"time"

	"github.com/rajnish123-bit/lms-2.0/config"
	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InstructorScope is the set of courses owned by one instructor. It is
// resolved once per request and threaded through every sub-query so the
// ownership filter cannot be skipped in a new query path.
type InstructorScope struct {
	InstructorID uint
	CourseIDs    []uint // ascending
	Courses      map[uint]courseModels.Course
}

func (s *InstructorScope) Owns(courseID uint) bool {
	_, ok := s.Courses[courseID]
	return ok
}

func (s *InstructorScope) Ref(courseID uint) (CourseRef, bool) {
	c, ok := s.Courses[courseID]
	if !ok {
		return CourseRef{}, false
	}
	return toCourseRef(c), true
}

// resolveInstructorScope loads all non-deleted courses created by the
// instructor. Zero courses is a valid scope, not an error.
func resolveInstructorScope(ctx context.Context, db *gorm.DB, instructorID uint) (*InstructorScope, error) {
	var courses []courseModels.Course
	if err := db.WithContext(ctx).
		Where("creator_id = ? AND is_deleted = ?", instructorID, false).
		Order("id asc").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	scope := &InstructorScope{
		InstructorID: instructorID,
		CourseIDs:    make([]uint, len(courses)),
		Courses:      make(map[uint]courseModels.Course, len(courses)),
	}
	for i, c := range courses {
		scope.CourseIDs[i] = c.ID
		scope.Courses[c.ID] = c
	}
	return scope, nil
}

// queryContext derives the per-request deadline for analytics reads.
// Cancelling the request cancels in-flight sub-fetches.
func queryContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	timeout := time.Duration(config.AppConfig.QueryTimeoutSec) * time.Second
	return context.WithTimeout(c.Context(), timeout)
}

// fetchCompletedPurchases returns completed purchases for the given
// courses, most recent first. Id breaks creation-time ties so the order
// is stable.
func fetchCompletedPurchases(ctx context.Context, db *gorm.DB, courseIDs []uint) ([]courseModels.CoursePurchase, error) {
	if len(courseIDs) == 0 {
		return []courseModels.CoursePurchase{}, nil
	}
	var purchases []courseModels.CoursePurchase
	err := db.WithContext(ctx).
		Where("course_id IN ? AND status = ? AND is_deleted = ?", courseIDs, courseModels.PurchaseCompleted, false).
		Order("created_at desc, id desc").
		Find(&purchases).Error
	return purchases, err
}

// fetchProgress returns progress records for the given courses with
// their lecture entries preloaded in stored order.
func fetchProgress(ctx context.Context, db *gorm.DB, courseIDs []uint) ([]courseModels.CourseProgress, error) {
	if len(courseIDs) == 0 {
		return []courseModels.CourseProgress{}, nil
	}
	var progress []courseModels.CourseProgress
	err := db.WithContext(ctx).
		Where("course_id IN ? AND is_deleted = ?", courseIDs, false).
		Preload("LectureProgress", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc, id asc")
		}).
		Order("id asc").
		Find(&progress).Error
	return progress, err
}

// fetchEnrollments returns enrollment rows for the given courses.
func fetchEnrollments(ctx context.Context, db *gorm.DB, courseIDs []uint) ([]courseModels.Enrollment, error) {
	if len(courseIDs) == 0 {
		return []courseModels.Enrollment{}, nil
	}
	var enrollments []courseModels.Enrollment
	err := db.WithContext(ctx).
		Where("course_id IN ? AND is_deleted = ?", courseIDs, false).
		Find(&enrollments).Error
	return enrollments, err
}

// fetchUsers loads the referenced users keyed by id.
func fetchUsers(ctx context.Context, db *gorm.DB, userIDs []uint) (map[uint]models.User, error) {
	result := make(map[uint]models.User, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var users []models.User
	if err := db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// userIDSet collects the distinct user ids referenced by purchases and
// progress records.
func userIDSet(purchases []courseModels.CoursePurchase, progress []courseModels.CourseProgress) []uint {
	seen := make(map[uint]struct{})
	var ids []uint
	for _, p := range purchases {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			ids = append(ids, p.UserID)
		}
	}
	for _, p := range progress {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			ids = append(ids, p.UserID)
		}
	}
	return ids
}
