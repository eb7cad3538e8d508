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
	"golang.org/x/sync/errgroup"
)

// RollupCourse is one purchased course inside a student rollup.
type RollupCourse struct {
	Course       CourseRef `json:"course"`
	PurchaseDate time.Time `json:"purchaseDate"`
	Amount       float64   `json:"amount"`
}

// StudentRollup folds all purchases and progress of one student within
// the instructor's scope into a single record.
type StudentRollup struct {
	Student          UserRef        `json:"student"`
	Courses          []RollupCourse `json:"courses"`
	TotalSpent       float64        `json:"totalSpent"`
	CoursesCompleted int            `json:"coursesCompleted"`
	AverageProgress  float64        `json:"averageProgress"`
}

// TrendPoint is one month of the registration trend. StudentCount is
// distinct purchasers, so a student buying twice in a month counts once.
type TrendPoint struct {
	Year         int    `json:"year"`
	Month        string `json:"month"`
	StudentCount int    `json:"studentCount"`
}

// StudentAnalytics returns the per-student rollups for the instructor's
// scope plus the monthly registration trend.
func StudentAnalytics(c *fiber.Ctx) error {
	instructorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	trendMonths := c.Locals("trendMonths").(int)

	ctx, cancel := queryContext(c)
	defer cancel()

	db := database.Database.Db

	scope, err := resolveInstructorScope(ctx, db, instructorID)
	if err != nil {
		log.Printf("Student analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch student analytics!", nil)
	}

	var (
		purchases []courseModels.CoursePurchase
		progress  []courseModels.CourseProgress
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
	if err := g.Wait(); err != nil {
		log.Printf("Student analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch student analytics!", nil)
	}

	users, err := fetchUsers(ctx, db, userIDSet(purchases, nil))
	if err != nil {
		log.Printf("Student analytics error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch student analytics!", nil)
	}

	rollups := buildStudentRollups(scope, purchases, progress, users)

	topStudents := rollups
	if len(topStudents) > 10 {
		topStudents = topStudents[:10]
	}

	totalRevenue := 0.0
	for _, r := range rollups {
		totalRevenue += r.TotalSpent
	}
	averageSpending := 0.0
	var highestSpender *StudentRollup
	if len(rollups) > 0 {
		averageSpending = totalRevenue / float64(len(rollups))
		highestSpender = &rollups[0] // list is pre-sorted by spend
	}

	trendStart := time.Now().AddDate(0, -trendMonths, 0)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student analytics fetched successfully!", fiber.Map{
		"totalStudents":      len(rollups),
		"topStudents":        topStudents,
		"allStudents":        rollups,
		"registrationTrends": buildRegistrationTrends(purchases, trendStart),
		"stats": fiber.Map{
			"averageSpending": averageSpending,
			"highestSpender":  highestSpender,
			"totalRevenue":    totalRevenue,
		},
	})
}

// buildStudentRollups folds completed purchases into one rollup per
// student, then attaches completion and progress from the student's
// progress records. The result is sorted by spend, highest first, with
// student id breaking ties.
func buildStudentRollups(scope *InstructorScope, purchases []courseModels.CoursePurchase, progress []courseModels.CourseProgress, users map[uint]models.User) []StudentRollup {
	byStudent := make(map[uint]*StudentRollup)
	for _, p := range purchases {
		ref, ok := scope.Ref(p.CourseID)
		if !ok {
			log.Printf("Skipping purchase %d: course %d not in instructor scope", p.ID, p.CourseID)
			continue
		}
		rollup, ok := byStudent[p.UserID]
		if !ok {
			u, found := users[p.UserID]
			if !found {
				log.Printf("Skipping purchase %d: user %d not found", p.ID, p.UserID)
				continue
			}
			rollup = &StudentRollup{Student: toUserRef(u), Courses: []RollupCourse{}}
			byStudent[p.UserID] = rollup
		}
		rollup.Courses = append(rollup.Courses, RollupCourse{
			Course:       ref,
			PurchaseDate: p.CreatedAt,
			Amount:       p.Amount,
		})
		rollup.TotalSpent += p.Amount
	}

	progressByStudent := make(map[uint][]courseModels.CourseProgress)
	for _, p := range progress {
		progressByStudent[p.UserID] = append(progressByStudent[p.UserID], p)
	}

	for studentID, rollup := range byStudent {
		records := progressByStudent[studentID]
		if len(records) == 0 {
			continue
		}
		total := 0.0
		for _, p := range records {
			if p.Completed {
				rollup.CoursesCompleted++
			}
			total += progressPercent(p)
		}
		rollup.AverageProgress = total / float64(len(records))
	}

	rollups := make([]StudentRollup, 0, len(byStudent))
	for _, rollup := range byStudent {
		rollups = append(rollups, *rollup)
	}
	sort.Slice(rollups, func(i, j int) bool {
		if rollups[i].TotalSpent != rollups[j].TotalSpent {
			return rollups[i].TotalSpent > rollups[j].TotalSpent
		}
		return rollups[i].Student.ID < rollups[j].Student.ID
	})
	return rollups
}

// buildRegistrationTrends counts distinct purchasers per calendar month
// since trendStart, oldest month first.
func buildRegistrationTrends(purchases []courseModels.CoursePurchase, trendStart time.Time) []TrendPoint {
	type bucket struct {
		year     int
		month    time.Month
		students map[uint]struct{}
	}
	buckets := make(map[int]*bucket) // keyed by year*100+month for sorting

	for _, p := range purchases {
		if p.CreatedAt.Before(trendStart) {
			continue
		}
		key := p.CreatedAt.Year()*100 + int(p.CreatedAt.Month())
		b, ok := buckets[key]
		if !ok {
			b = &bucket{year: p.CreatedAt.Year(), month: p.CreatedAt.Month(), students: make(map[uint]struct{})}
			buckets[key] = b
		}
		b.students[p.UserID] = struct{}{}
	}

	keys := make([]int, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	trends := make([]TrendPoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		trends = append(trends, TrendPoint{
			Year:         b.year,
			Month:        monthNames[int(b.month)-1],
			StudentCount: len(b.students),
		})
	}
	return trends
}
