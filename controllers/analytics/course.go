package controllers

import (
	"errors"
	"log"
	"sort"
	"time"

	"github.com/rajnish123-bit/lms-2.0/database"
	"github.com/rajnish123-bit/lms-2.0/middleware"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// LectureTally counts tracking entries for one lecture across all
// progress records of a course. Total counts every record that
// references the lecture; viewed only those marked viewed.
type LectureTally struct {
	Viewed int `json:"viewed"`
	Total  int `json:"total"`
}

// DayPoint is one calendar day of the enrollment window.
type DayPoint struct {
	Date        string `json:"date"` // UTC, YYYY-MM-DD
	Enrollments int    `json:"enrollments"`
}

// CourseAnalytics returns per-course metrics: purchases, progress,
// lecture-wise completion and the daily enrollment window. The course
// must exist and belong to the requesting instructor.
func CourseAnalytics(c *fiber.Ctx) error {
	instructorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)
	windowDays := c.Locals("windowDays").(int)

	ctx, cancel := queryContext(c)
	defer cancel()

	db := database.Database.Db

	// Ownership check comes first. A foreign or missing course returns
	// 404 before any data is read.
	var crs courseModels.Course
	if err := db.WithContext(ctx).
		Where("id = ? AND creator_id = ? AND is_deleted = ?", courseID, instructorID, false).
		First(&crs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or unauthorized!", nil)
		}
		log.Printf("Course analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course analytics!", nil)
	}

	courseIDs := []uint{crs.ID}

	var (
		purchases []courseModels.CoursePurchase
		progress  []courseModels.CourseProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		purchases, err = fetchCompletedPurchases(gctx, db, courseIDs)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = fetchProgress(gctx, db, courseIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("Course analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course analytics!", nil)
	}

	users, err := fetchUsers(ctx, db, userIDSet(purchases, progress))
	if err != nil {
		log.Printf("Course analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course analytics!", nil)
	}

	scope := &InstructorScope{
		InstructorID: instructorID,
		CourseIDs:    courseIDs,
		Courses:      map[uint]courseModels.Course{crs.ID: crs},
	}

	progressData := make([]ProgressSummary, 0, len(progress))
	for _, p := range progress {
		u, ok := users[p.UserID]
		if !ok {
			log.Printf("Skipping progress %d: user %d not found", p.ID, p.UserID)
			continue
		}
		progressData = append(progressData, toProgressSummary(p, toUserRef(u)))
	}

	windowStart := now.BeginningOfDay().AddDate(0, 0, -windowDays)

	totalRevenue := 0.0
	for _, p := range purchases {
		totalRevenue += p.Amount
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course analytics fetched successfully!", fiber.Map{
		"course":            toCourseRef(crs),
		"purchases":         buildPurchaseDetails(scope, purchases, users),
		"progressData":      progressData,
		"lectureCompletion": buildLectureCompletion(progress),
		"dailyEnrollments":  buildDailyEnrollments(purchases, windowStart),
		"stats": fiber.Map{
			"totalEnrollments": len(purchases),
			"totalRevenue":     totalRevenue,
			"completionRate":   progressCompletionRate(progress),
		},
	})
}

// buildLectureCompletion accumulates viewed/total tallies per lecture id
// across the course's progress records. A lecture missing from a given
// record does not contribute to that lecture's total.
func buildLectureCompletion(progress []courseModels.CourseProgress) map[uint]LectureTally {
	completion := make(map[uint]LectureTally)
	for _, p := range progress {
		for _, lp := range p.LectureProgress {
			tally := completion[lp.LectureID]
			tally.Total++
			if lp.Viewed {
				tally.Viewed++
			}
			completion[lp.LectureID] = tally
		}
	}
	return completion
}

// buildDailyEnrollments groups completed purchases since windowStart by
// UTC calendar date, ascending. Days without purchases are omitted.
func buildDailyEnrollments(purchases []courseModels.CoursePurchase, windowStart time.Time) []DayPoint {
	byDate := make(map[string]int)
	for _, p := range purchases {
		if p.CreatedAt.Before(windowStart) {
			continue
		}
		byDate[p.CreatedAt.UTC().Format("2006-01-02")]++
	}

	points := make([]DayPoint, 0, len(byDate))
	for date, count := range byDate {
		points = append(points, DayPoint{Date: date, Enrollments: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// progressCompletionRate is the share of completed progress records.
// This is intentionally a different definition from the dashboard's
// enrolled/completed rate and the two must not be unified.
func progressCompletionRate(progress []courseModels.CourseProgress) float64 {
	if len(progress) == 0 {
		return 0
	}
	completed := 0
	for _, p := range progress {
		if p.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(progress)) * 100
}
