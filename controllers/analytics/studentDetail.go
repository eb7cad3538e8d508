package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/rajnish123-bit/lms-2.0/database"
	"github.com/rajnish123-bit/lms-2.0/middleware"
	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Activity event kinds.
const (
	ActivityCoursePurchased  = "course_purchased"
	ActivityLectureCompleted = "lecture_completed"
	ActivityCourseCompleted  = "course_completed"
)

// Minutes credited per viewed lecture when estimating watch time.
// Lecture durations are not persisted, so this is a flat heuristic.
const watchTimeMinsPerLecture = 10

// StudentStats are the derived counters of one student within the
// instructor's scope. EstimatedWatchTimeMins is a heuristic
// (viewed lectures x 10 minutes), not measured playback telemetry.
type StudentStats struct {
	TotalCourses           int     `json:"totalCourses"`
	CompletedCourses       int     `json:"completedCourses"`
	InProgressCourses      int     `json:"inProgressCourses"`
	NotStartedCourses      int     `json:"notStartedCourses"`
	TotalSpent             float64 `json:"totalSpent"`
	AverageProgress        float64 `json:"averageProgress"`
	TotalLecturesWatched   int     `json:"totalLecturesWatched"`
	EstimatedWatchTimeMins int     `json:"estimatedWatchTimeMins"`
}

// ProgressPoint is one day of the synthesized completion trend.
type ProgressPoint struct {
	Date     string  `json:"date"` // UTC, YYYY-MM-DD
	Progress float64 `json:"progress"`
}

// ActivityEvent is one entry of the per-student activity feed. Lecture
// timestamps are synthetic placeholders spaced two days apart, since
// per-lecture view times are not persisted.
type ActivityEvent struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Course      CourseRef `json:"course"`
}

// StudentDetail returns one student's profile, purchases, progress,
// derived stats, the synthesized completion trend and the activity
// timeline, all restricted to the instructor's courses. Unknown student
// ids return 404; a student with no purchases in scope succeeds with
// zeroed stats.
func StudentDetail(c *fiber.Ctx) error {
	instructorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	studentID := c.Locals("studentID").(int)

	ctx, cancel := queryContext(c)
	defer cancel()

	db := database.Database.Db

	var student models.User
	if err := db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", studentID, false).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
		}
		log.Printf("Student detail error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch student details!", nil)
	}

	scope, err := resolveInstructorScope(ctx, db, instructorID)
	if err != nil {
		log.Printf("Student detail error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch student details!", nil)
	}

	var (
		purchases []courseModels.CoursePurchase
		progress  []courseModels.CourseProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(scope.CourseIDs) == 0 {
			purchases = []courseModels.CoursePurchase{}
			return nil
		}
		return db.WithContext(gctx).
			Where("course_id IN ? AND user_id = ? AND status = ? AND is_deleted = ?",
				scope.CourseIDs, student.ID, courseModels.PurchaseCompleted, false).
			Order("created_at desc, id desc").
			Find(&purchases).Error
	})
	g.Go(func() error {
		if len(scope.CourseIDs) == 0 {
			progress = []courseModels.CourseProgress{}
			return nil
		}
		return db.WithContext(gctx).
			Where("course_id IN ? AND user_id = ? AND is_deleted = ?", scope.CourseIDs, student.ID, false).
			Preload("LectureProgress", func(db *gorm.DB) *gorm.DB {
				return db.Order("order_index asc, id asc")
			}).
			Order("id asc").
			Find(&progress).Error
	})
	if err := g.Wait(); err != nil {
		log.Printf("Student detail error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch student details!", nil)
	}

	studentRef := toUserRef(student)

	purchasedCourses := make([]RollupCourse, 0, len(purchases))
	for _, p := range purchases {
		ref, ok := scope.Ref(p.CourseID)
		if !ok {
			log.Printf("Skipping purchase %d: course %d not in instructor scope", p.ID, p.CourseID)
			continue
		}
		purchasedCourses = append(purchasedCourses, RollupCourse{
			Course:       ref,
			PurchaseDate: p.CreatedAt,
			Amount:       p.Amount,
		})
	}

	progressData := make([]ProgressSummary, 0, len(progress))
	for _, p := range progress {
		progressData = append(progressData, toProgressSummary(p, studentRef))
	}

	stats := buildStudentStats(purchasedCourses, progress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student details fetched successfully!", fiber.Map{
		"student":          studentRef,
		"purchasedCourses": purchasedCourses,
		"progressData":     progressData,
		"stats":            stats,
		"completionTrends": buildCompletionTrend(stats.AverageProgress, time.Now().UTC()),
		"activityTimeline": buildActivityTimeline(scope, purchases, progress, 20),
	})
}

// buildStudentStats derives the per-student counters. notStarted is
// clamped at zero when upstream records are inconsistent; the clamp is
// logged since it signals bad data rather than a valid state.
func buildStudentStats(purchased []RollupCourse, progress []courseModels.CourseProgress) StudentStats {
	stats := StudentStats{TotalCourses: len(purchased)}
	for _, pc := range purchased {
		stats.TotalSpent += pc.Amount
	}

	totalProgress := 0.0
	for _, p := range progress {
		viewed := 0
		for _, lp := range p.LectureProgress {
			if lp.Viewed {
				viewed++
			}
		}
		stats.TotalLecturesWatched += viewed

		if p.Completed {
			stats.CompletedCourses++
		} else if viewed > 0 {
			stats.InProgressCourses++
		}
		totalProgress += progressPercent(p)
	}
	if len(progress) > 0 {
		stats.AverageProgress = totalProgress / float64(len(progress))
	}

	stats.NotStartedCourses = stats.TotalCourses - stats.CompletedCourses - stats.InProgressCourses
	if stats.NotStartedCourses < 0 {
		log.Printf("Clamping notStartedCourses (%d) to 0: progress records exceed purchased courses", stats.NotStartedCourses)
		stats.NotStartedCourses = 0
	}

	stats.EstimatedWatchTimeMins = stats.TotalLecturesWatched * watchTimeMinsPerLecture
	return stats
}

// buildCompletionTrend synthesizes a 30-point curve rising linearly from
// max(0, avg-30) to avg across the trailing 30 days ending at end. It is
// a smoothed visualization artifact recomputed from the single current
// average, not a historical record.
func buildCompletionTrend(averageProgress float64, end time.Time) []ProgressPoint {
	const points = 30
	start := math.Max(0, averageProgress-30)

	trend := make([]ProgressPoint, points)
	for i := 0; i < points; i++ {
		value := start + (averageProgress-start)*float64(i)/float64(points-1)
		trend[i] = ProgressPoint{
			Date:     end.AddDate(0, 0, -(points - 1 - i)).Format("2006-01-02"),
			Progress: math.Round(value*10) / 10,
		}
	}
	return trend
}

// buildActivityTimeline merges purchase, course-completion and sampled
// lecture-completion events, most recent first, truncated to limit. Only
// the last five viewed lectures per course are sampled, backdated two
// days apart from the record's update time.
func buildActivityTimeline(scope *InstructorScope, purchases []courseModels.CoursePurchase, progress []courseModels.CourseProgress, limit int) []ActivityEvent {
	var events []ActivityEvent

	for _, p := range purchases {
		ref, ok := scope.Ref(p.CourseID)
		if !ok {
			continue
		}
		events = append(events, ActivityEvent{
			Type:        ActivityCoursePurchased,
			Description: fmt.Sprintf("Purchased %s", ref.Title),
			Timestamp:   p.CreatedAt,
			Course:      ref,
		})
	}

	for _, p := range progress {
		ref, ok := scope.Ref(p.CourseID)
		if !ok {
			log.Printf("Skipping progress %d: course %d not in instructor scope", p.ID, p.CourseID)
			continue
		}

		if p.Completed {
			events = append(events, ActivityEvent{
				Type:        ActivityCourseCompleted,
				Description: fmt.Sprintf("Completed %s", ref.Title),
				Timestamp:   p.UpdatedAt,
				Course:      ref,
			})
		}

		var viewed []courseModels.LectureProgress
		for _, lp := range p.LectureProgress {
			if lp.Viewed {
				viewed = append(viewed, lp)
			}
		}
		if len(viewed) > 5 {
			viewed = viewed[len(viewed)-5:]
		}
		// True view times are not persisted; space the samples two days
		// apart ending at the record's last update.
		for i := range viewed {
			events = append(events, ActivityEvent{
				Type:        ActivityLectureCompleted,
				Description: fmt.Sprintf("Completed a lecture in %s", ref.Title),
				Timestamp:   p.UpdatedAt.AddDate(0, 0, -2*(len(viewed)-1-i)),
				Course:      ref,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.After(events[j].Timestamp)
		}
		if events[i].Type != events[j].Type {
			return events[i].Type < events[j].Type
		}
		return events[i].Course.ID < events[j].Course.ID
	})
	if len(events) > limit {
		events = events[:limit]
	}
	if events == nil {
		events = []ActivityEvent{}
	}
	return events
}
