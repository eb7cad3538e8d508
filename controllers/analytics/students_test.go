package controllers

import (
	"testing"
	"time"

	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 100.0, progressPercent(testProgress(1, 1, 1, true, 0, 0, time.Now())))
	assert.Equal(t, 50.0, progressPercent(testProgress(2, 1, 1, false, 3, 6, time.Now())))
	// A record with no lecture entries contributes 0, never NaN.
	assert.Equal(t, 0.0, progressPercent(testProgress(3, 1, 1, false, 0, 0, time.Now())))
}

func TestBuildStudentRollups_FoldsAndSortsBySpend(t *testing.T) {
	scope := testScope(testCourse(1, "A", 500), testCourse(2, "B", 800))
	ts := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 10, 500, ts),
		testPurchase(2, 2, 10, 800, ts.AddDate(0, 0, 1)),
		testPurchase(3, 1, 11, 500, ts),
	}
	progress := []courseModels.CourseProgress{
		testProgress(1, 1, 10, true, 6, 6, ts),
		testProgress(2, 2, 10, false, 3, 6, ts),
	}
	users := map[uint]models.User{10: testUser(10, "asha"), 11: testUser(11, "rahul")}

	rollups := buildStudentRollups(scope, purchases, progress, users)

	assert.Len(t, rollups, 2)

	assert.Equal(t, uint(10), rollups[0].Student.ID)
	assert.Equal(t, 1300.0, rollups[0].TotalSpent)
	assert.Len(t, rollups[0].Courses, 2)
	assert.Equal(t, 1, rollups[0].CoursesCompleted)
	assert.Equal(t, 75.0, rollups[0].AverageProgress) // (100 + 50) / 2

	assert.Equal(t, uint(11), rollups[1].Student.ID)
	assert.Equal(t, 500.0, rollups[1].TotalSpent)
	// No progress records at all: averageProgress stays 0, not NaN.
	assert.Equal(t, 0.0, rollups[1].AverageProgress)
}

func TestBuildStudentRollups_SortIsNonIncreasingWithIdTies(t *testing.T) {
	scope := testScope(testCourse(1, "A", 100))
	ts := time.Now()
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 30, 100, ts),
		testPurchase(2, 1, 20, 100, ts),
		testPurchase(3, 1, 10, 300, ts),
	}
	users := map[uint]models.User{
		10: testUser(10, "a"), 20: testUser(20, "b"), 30: testUser(30, "c"),
	}

	rollups := buildStudentRollups(scope, purchases, nil, users)

	assert.Len(t, rollups, 3)
	assert.Equal(t, uint(10), rollups[0].Student.ID)
	// Equal spend resolves by student id.
	assert.Equal(t, uint(20), rollups[1].Student.ID)
	assert.Equal(t, uint(30), rollups[2].Student.ID)
	for i := 1; i < len(rollups); i++ {
		assert.GreaterOrEqual(t, rollups[i-1].TotalSpent, rollups[i].TotalSpent)
	}
}

func TestBuildStudentRollups_ZeroLectureRecordDoesNotDivideByZero(t *testing.T) {
	scope := testScope(testCourse(1, "A", 100))
	ts := time.Now()
	purchases := []courseModels.CoursePurchase{testPurchase(1, 1, 10, 100, ts)}
	progress := []courseModels.CourseProgress{
		testProgress(1, 1, 10, false, 0, 0, ts),
	}
	users := map[uint]models.User{10: testUser(10, "a")}

	rollups := buildStudentRollups(scope, purchases, progress, users)

	assert.Len(t, rollups, 1)
	assert.Equal(t, 0.0, rollups[0].AverageProgress)
}

func TestBuildRegistrationTrends_DeduplicatesWithinMonth(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 10, 100, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)),
		testPurchase(2, 2, 10, 100, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)), // same student, same month
		testPurchase(3, 1, 11, 100, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)),
		testPurchase(4, 1, 12, 100, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)), // before window
	}

	trends := buildRegistrationTrends(purchases, start)

	assert.Len(t, trends, 2)
	assert.Equal(t, TrendPoint{Year: 2026, Month: "Mar", StudentCount: 1}, trends[0])
	assert.Equal(t, TrendPoint{Year: 2026, Month: "Apr", StudentCount: 1}, trends[1])
}

func TestBuildRegistrationTrends_OrdersAcrossYearBoundary(t *testing.T) {
	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 10, 100, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)),
		testPurchase(2, 1, 11, 100, time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC)),
		testPurchase(3, 1, 12, 100, time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)),
	}

	trends := buildRegistrationTrends(purchases, start)

	assert.Len(t, trends, 3)
	assert.Equal(t, "Nov", trends[0].Month)
	assert.Equal(t, "Dec", trends[1].Month)
	assert.Equal(t, "Jan", trends[2].Month)
	assert.Equal(t, 2026, trends[2].Year)
}
