package controllers

import (
	"testing"
	"time"

	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"github.com/stretchr/testify/assert"
)

func TestBuildLectureCompletion_AccumulatesPerLecture(t *testing.T) {
	// Student 1 tracked lectures 100..102 and viewed two of them;
	// student 2 tracked only 100..101.
	progress := []courseModels.CourseProgress{
		testProgress(1, 1, 1, false, 2, 3, time.Now()),
		testProgress(2, 1, 2, false, 1, 2, time.Now()),
	}

	completion := buildLectureCompletion(progress)

	assert.Equal(t, LectureTally{Viewed: 2, Total: 2}, completion[100])
	assert.Equal(t, LectureTally{Viewed: 1, Total: 2}, completion[101])
	// Lecture 102 only appears in the first record; no zero-fill for
	// students who never tracked it.
	assert.Equal(t, LectureTally{Viewed: 0, Total: 1}, completion[102])
}

func TestBuildLectureCompletion_EmptyProgress(t *testing.T) {
	completion := buildLectureCompletion(nil)
	assert.Empty(t, completion)
}

func TestBuildDailyEnrollments_GroupsByUTCDateAscending(t *testing.T) {
	windowStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	purchases := []courseModels.CoursePurchase{
		testPurchase(1, 1, 10, 100, time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)),
		testPurchase(2, 1, 11, 100, time.Date(2026, 8, 20, 23, 30, 0, 0, time.UTC)),
		testPurchase(3, 1, 12, 100, time.Date(2026, 8, 3, 1, 0, 0, 0, time.UTC)),
		testPurchase(4, 1, 13, 100, time.Date(2026, 7, 20, 1, 0, 0, 0, time.UTC)), // before window
	}

	points := buildDailyEnrollments(purchases, windowStart)

	assert.Equal(t, []DayPoint{
		{Date: "2026-08-03", Enrollments: 1},
		{Date: "2026-08-20", Enrollments: 2},
	}, points)
}

func TestProgressCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, progressCompletionRate(nil))

	progress := make([]courseModels.CourseProgress, 10)
	for i := range progress {
		progress[i] = testProgress(uint(i+1), 1, uint(i+1), i < 3, 0, 4, time.Now())
	}
	assert.Equal(t, 30.0, progressCompletionRate(progress))
}
