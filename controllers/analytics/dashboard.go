package controllers

import (
	"log"
	"sort"
	"time"

	"github.com/rajnish123-bit/lms-2.0/database"
	"github.com/rajnish123-bit/lms-2.0/middleware"
	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"golang.org/x/sync/errgroup"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Overview holds the headline dashboard numbers.
type Overview struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalSales       int     `json:"totalSales"`
	TotalStudents    int     `json:"totalStudents"`
	TotalCourses     int     `json:"totalCourses"`
	PublishedCourses int     `json:"publishedCourses"`
}

// MonthPoint is one slot of the fixed Jan-Dec revenue series.
type MonthPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

// TopCourse is one row of the revenue leaderboard.
type TopCourse struct {
	CourseID    uint    `json:"courseId"`
	CourseTitle string  `json:"courseTitle"`
	Revenue     float64 `json:"revenue"`
	Sales       int     `json:"sales"`
	CoursePrice float64 `json:"coursePrice"`
}

// CompletionStat reports completed enrollments per course.
type CompletionStat struct {
	CourseID       uint    `json:"courseId"`
	CourseTitle    string  `json:"courseTitle"`
	EnrolledCount  int     `json:"enrolledCount"`
	CompletedCount int     `json:"completedCount"`
	CompletionRate float64 `json:"completionRate"`
}

// EngagementStat reports tracking activity per course. A student counts
// as active when their progress record has at least one lecture entry,
// viewed or not.
type EngagementStat struct {
	CourseID          uint    `json:"courseId"`
	CourseTitle       string  `json:"courseTitle"`
	TotalStudents     int     `json:"totalStudents"`
	ActiveStudents    int     `json:"activeStudents"`
	CompletedStudents int     `json:"completedStudents"`
	EngagementRate    float64 `json:"engagementRate"`
}

// InstructorDashboard returns the full instructor overview: headline
// totals, the monthly revenue series, top courses, recent enrollments,
// completion and engagement per course.
func InstructorDashboard(c *fiber.Ctx) error {
	instructorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	db := database.Database.Db

	scope, err := resolveInstructorScope(ctx, db, instructorID)
	if err != nil {
		log.Printf("Dashboard analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard analytics!", nil)
	}

	// Purchases, progress and enrollments are independent reads, so
	// fetch them concurrently. The first failure cancels the rest.
	var (
		purchases   []courseModels.CoursePurchase
		progress    []courseModels.CourseProgress
		enrollments []courseModels.Enrollment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		purchases, err = fetchCompletedPurchases(gctx, db, scope.CourseIDs)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = fetchProgress(gctx, db, scope.CourseIDs)
		return err
	})
	g.Go(func() error {
		var err error
		enrollments, err = fetchEnrollments(gctx, db, scope.CourseIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("Dashboard analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard analytics!", nil)
	}

	users, err := fetchUsers(ctx, db, userIDSet(purchases, nil))
	if err != nil {
		log.Printf("Dashboard analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard analytics!", nil)
	}

	details := buildPurchaseDetails(scope, purchases, users)
	recent := details
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard analytics fetched successfully!", fiber.Map{
		"overview":             buildOverview(scope, purchases),
		"monthlyRevenue":       buildMonthlyRevenue(purchases, now.BeginningOfYear()),
		"topCourses":           buildTopCourses(scope, purchases, 5),
		"recentEnrollments":    recent,
		"courseCompletionData": buildCompletionStats(scope, enrollments, progress),
		"studentEngagement":    buildEngagementStats(scope, progress),
		"purchasedCourses":     details,
	})
}

// buildOverview folds completed purchases into the headline totals.
func buildOverview(scope *InstructorScope, purchases []courseModels.CoursePurchase) Overview {
	overview := Overview{TotalCourses: len(scope.CourseIDs)}
	for _, c := range scope.Courses {
		if c.IsPublished {
			overview.PublishedCourses++
		}
	}

	students := make(map[uint]struct{})
	for _, p := range purchases {
		overview.TotalRevenue += p.Amount
		overview.TotalSales++
		students[p.UserID] = struct{}{}
	}
	overview.TotalStudents = len(students)
	return overview
}

// buildMonthlyRevenue buckets completed purchases of the calendar year
// starting at yearStart into twelve fixed Jan-Dec slots. Months without
// sales stay zeroed.
func buildMonthlyRevenue(purchases []courseModels.CoursePurchase, yearStart time.Time) []MonthPoint {
	points := make([]MonthPoint, 12)
	for i := range points {
		points[i].Month = monthNames[i]
	}
	for _, p := range purchases {
		if p.CreatedAt.Year() != yearStart.Year() {
			continue
		}
		slot := int(p.CreatedAt.Month()) - 1
		points[slot].Revenue += p.Amount
		points[slot].Sales++
	}
	return points
}

// buildTopCourses ranks scoped courses by summed completed-purchase
// revenue, highest first. Course id breaks revenue ties so the order is
// deterministic.
func buildTopCourses(scope *InstructorScope, purchases []courseModels.CoursePurchase, limit int) []TopCourse {
	byCourse := make(map[uint]*TopCourse)
	for _, p := range purchases {
		c, ok := scope.Courses[p.CourseID]
		if !ok {
			log.Printf("Skipping purchase %d: course %d not in instructor scope", p.ID, p.CourseID)
			continue
		}
		entry, ok := byCourse[p.CourseID]
		if !ok {
			entry = &TopCourse{CourseID: c.ID, CourseTitle: c.Title, CoursePrice: c.Price}
			byCourse[p.CourseID] = entry
		}
		entry.Revenue += p.Amount
		entry.Sales++
	}

	top := make([]TopCourse, 0, len(byCourse))
	for _, entry := range byCourse {
		top = append(top, *entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].CourseID < top[j].CourseID
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

// buildCompletionStats derives the completed/enrolled rate per scoped
// course, in course-id order. Courses with no enrollments report 0.
func buildCompletionStats(scope *InstructorScope, enrollments []courseModels.Enrollment, progress []courseModels.CourseProgress) []CompletionStat {
	enrolled := make(map[uint]int)
	for _, e := range enrollments {
		enrolled[e.CourseID]++
	}
	completed := make(map[uint]int)
	for _, p := range progress {
		if p.Completed {
			completed[p.CourseID]++
		}
	}

	stats := make([]CompletionStat, 0, len(scope.CourseIDs))
	for _, id := range scope.CourseIDs {
		c := scope.Courses[id]
		stat := CompletionStat{
			CourseID:       id,
			CourseTitle:    c.Title,
			EnrolledCount:  enrolled[id],
			CompletedCount: completed[id],
		}
		if stat.EnrolledCount > 0 {
			stat.CompletionRate = float64(stat.CompletedCount) / float64(stat.EnrolledCount) * 100
		}
		stats = append(stats, stat)
	}
	return stats
}

// buildEngagementStats derives per-course engagement from progress
// records, in course-id order. Only courses with at least one progress
// record appear.
func buildEngagementStats(scope *InstructorScope, progress []courseModels.CourseProgress) []EngagementStat {
	byCourse := make(map[uint]*EngagementStat)
	for _, p := range progress {
		c, ok := scope.Courses[p.CourseID]
		if !ok {
			log.Printf("Skipping progress %d: course %d not in instructor scope", p.ID, p.CourseID)
			continue
		}
		stat, ok := byCourse[p.CourseID]
		if !ok {
			stat = &EngagementStat{CourseID: c.ID, CourseTitle: c.Title}
			byCourse[p.CourseID] = stat
		}
		stat.TotalStudents++
		if len(p.LectureProgress) > 0 {
			stat.ActiveStudents++
		}
		if p.Completed {
			stat.CompletedStudents++
		}
	}

	stats := make([]EngagementStat, 0, len(byCourse))
	for _, id := range scope.CourseIDs {
		stat, ok := byCourse[id]
		if !ok {
			continue
		}
		if stat.TotalStudents > 0 {
			stat.EngagementRate = float64(stat.ActiveStudents) / float64(stat.TotalStudents) * 100
		}
		stats = append(stats, *stat)
	}
	return stats
}

// buildPurchaseDetails joins purchases with their student and course
// refs, keeping the input order. Rows with dangling references are
// skipped and logged rather than failing the whole call.
func buildPurchaseDetails(scope *InstructorScope, purchases []courseModels.CoursePurchase, users map[uint]models.User) []PurchaseDetail {
	details := make([]PurchaseDetail, 0, len(purchases))
	for _, p := range purchases {
		ref, ok := scope.Ref(p.CourseID)
		if !ok {
			log.Printf("Skipping purchase %d: course %d not in instructor scope", p.ID, p.CourseID)
			continue
		}
		u, ok := users[p.UserID]
		if !ok {
			log.Printf("Skipping purchase %d: user %d not found", p.ID, p.UserID)
			continue
		}
		details = append(details, PurchaseDetail{
			ID:          p.ID,
			Course:      ref,
			Student:     toUserRef(u),
			Amount:      p.Amount,
			PurchasedAt: p.CreatedAt,
		})
	}
	return details
}
