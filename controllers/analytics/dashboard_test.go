package controllers

import (
	"testing"
	"time"

	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"github.com/stretchr/testify/assert"
)

func TestBuildOverview_ZeroCourses(t *testing.T) {
	scope := testScope()
	overview := buildOverview(scope, nil)

	assert.Equal(t, Overview{}, overview)
}

func TestBuildOverview_CountsDistinctStudents(t *testing.T) {
	scope := testScope(testCourse(1, "Go Basics", 1000))
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 5, 800, ts),
		testPurchase(2, 1, 6, 1200, ts),
		testPurchase(3, 1, 5, 500, ts), // same student again
	}

	overview := buildOverview(scope, purchases)

	assert.Equal(t, 2500.0, overview.TotalRevenue)
	assert.Equal(t, 3, overview.TotalSales)
	assert.Equal(t, 2, overview.TotalStudents)
	assert.Equal(t, 1, overview.TotalCourses)
	assert.Equal(t, 1, overview.PublishedCourses)
}

func TestBuildMonthlyRevenue_MarchExample(t *testing.T) {
	yearStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	march := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 5, 800, march),
		testPurchase(2, 1, 6, 1200, march.AddDate(0, 0, 10)),
	}

	points := buildMonthlyRevenue(purchases, yearStart)

	assert.Len(t, points, 12)
	assert.Equal(t, MonthPoint{Month: "Mar", Revenue: 2000, Sales: 2}, points[2])
	for i, p := range points {
		if i == 2 {
			continue
		}
		assert.Zero(t, p.Revenue, "month %s", p.Month)
		assert.Zero(t, p.Sales, "month %s", p.Month)
	}
}

func TestBuildMonthlyRevenue_RoundTripsYearTotal(t *testing.T) {
	yearStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 5, 100, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
		testPurchase(2, 1, 6, 250, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)),
		testPurchase(3, 1, 7, 400, time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)),
		testPurchase(4, 1, 8, 999, time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)), // previous year
	}

	points := buildMonthlyRevenue(purchases, yearStart)

	total := 0.0
	sales := 0
	for _, p := range points {
		total += p.Revenue
		sales += p.Sales
	}
	assert.Equal(t, 750.0, total)
	assert.Equal(t, 3, sales)
}

func TestBuildTopCourses_RanksByRevenueWithStableTies(t *testing.T) {
	scope := testScope(
		testCourse(1, "A", 100),
		testCourse(2, "B", 100),
		testCourse(3, "C", 100),
	)
	ts := time.Now()
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 2, 5, 500, ts),
		testPurchase(2, 3, 6, 500, ts),
		testPurchase(3, 1, 7, 900, ts),
	}

	top := buildTopCourses(scope, purchases, 5)

	assert.Len(t, top, 3)
	assert.Equal(t, uint(1), top[0].CourseID)
	// 2 and 3 both earned 500; lower course id wins the tie.
	assert.Equal(t, uint(2), top[1].CourseID)
	assert.Equal(t, uint(3), top[2].CourseID)
}

func TestBuildTopCourses_TruncatesAndSkipsForeignCourses(t *testing.T) {
	scope := testScope(
		testCourse(1, "A", 10), testCourse(2, "B", 10), testCourse(3, "C", 10),
		testCourse(4, "D", 10), testCourse(5, "E", 10), testCourse(6, "F", 10),
	)
	ts := time.Now()
	var purchases []courseModels.CoursePurchase
	for i := uint(1); i <= 6; i++ {
		purchases = append(purchases, testPurchase(i, i, 10+i, float64(i*100), ts))
	}
	purchases = append(purchases, testPurchase(7, 99, 20, 5000, ts)) // not in scope

	top := buildTopCourses(scope, purchases, 5)

	assert.Len(t, top, 5)
	assert.Equal(t, uint(6), top[0].CourseID)
	assert.Equal(t, 600.0, top[0].Revenue)
	for _, tc := range top {
		assert.NotEqual(t, uint(99), tc.CourseID)
	}
}

func TestBuildCompletionStats_ThirtyPercentExample(t *testing.T) {
	scope := testScope(testCourse(1, "Go Basics", 1000))

	enrollments := make([]courseModels.Enrollment, 10)
	for i := range enrollments {
		enrollments[i] = courseModels.Enrollment{CourseID: 1, UserID: uint(i + 1)}
	}
	progress := []courseModels.CourseProgress{
		testProgress(1, 1, 1, true, 6, 6, time.Now()),
		testProgress(2, 1, 2, true, 6, 6, time.Now()),
		testProgress(3, 1, 3, true, 6, 6, time.Now()),
		testProgress(4, 1, 4, false, 2, 6, time.Now()),
	}

	stats := buildCompletionStats(scope, enrollments, progress)

	assert.Len(t, stats, 1)
	assert.Equal(t, 10, stats[0].EnrolledCount)
	assert.Equal(t, 3, stats[0].CompletedCount)
	assert.Equal(t, 30.0, stats[0].CompletionRate)
}

func TestBuildCompletionStats_GuardsZeroEnrollment(t *testing.T) {
	scope := testScope(testCourse(1, "Empty", 0))

	stats := buildCompletionStats(scope, nil, nil)

	assert.Len(t, stats, 1)
	assert.Zero(t, stats[0].CompletionRate)
}

func TestBuildEngagementStats_PresenceCountsAsActive(t *testing.T) {
	scope := testScope(testCourse(1, "Go Basics", 1000))
	progress := []courseModels.CourseProgress{
		testProgress(1, 1, 1, false, 0, 3, time.Now()), // entries present, none viewed: still active
		testProgress(2, 1, 2, true, 3, 3, time.Now()),
		testProgress(3, 1, 3, false, 0, 0, time.Now()), // no entries: not active
	}

	stats := buildEngagementStats(scope, progress)

	assert.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].TotalStudents)
	assert.Equal(t, 2, stats[0].ActiveStudents)
	assert.Equal(t, 1, stats[0].CompletedStudents)
	assert.InDelta(t, 66.67, stats[0].EngagementRate, 0.01)
	assert.LessOrEqual(t, stats[0].ActiveStudents, stats[0].TotalStudents)
	assert.GreaterOrEqual(t, stats[0].EngagementRate, 0.0)
	assert.LessOrEqual(t, stats[0].EngagementRate, 100.0)
}

func TestBuildEngagementStats_OmitsCoursesWithoutProgress(t *testing.T) {
	scope := testScope(testCourse(1, "A", 0), testCourse(2, "B", 0))
	progress := []courseModels.CourseProgress{
		testProgress(1, 2, 1, false, 1, 3, time.Now()),
	}

	stats := buildEngagementStats(scope, progress)

	assert.Len(t, stats, 1)
	assert.Equal(t, uint(2), stats[0].CourseID)
}

func TestBuildPurchaseDetails_SkipsDanglingRefs(t *testing.T) {
	scope := testScope(testCourse(1, "Go Basics", 1000))
	ts := time.Now()
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 5, 800, ts),
		testPurchase(2, 99, 5, 700, ts), // course not in scope
		testPurchase(3, 1, 42, 600, ts), // user missing
	}
	users := map[uint]models.User{5: testUser(5, "asha")}

	details := buildPurchaseDetails(scope, purchases, users)

	assert.Len(t, details, 1)
	assert.Equal(t, uint(1), details[0].ID)
	assert.Equal(t, "asha", details[0].Student.Name)
}
