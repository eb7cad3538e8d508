package controllers

import (
	"time"

	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"
)

// UserRef is the slim user shape embedded in analytics payloads.
type UserRef struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image"`
	JoinedAt     time.Time `json:"joined_at"`
}

// CourseRef is the slim course shape embedded in analytics payloads.
type CourseRef struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published"`
}

// PurchaseDetail is a completed purchase joined with its student and course.
type PurchaseDetail struct {
	ID          uint      `json:"id"`
	Course      CourseRef `json:"course"`
	Student     UserRef   `json:"student"`
	Amount      float64   `json:"amount"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// LectureState is one lecture entry of a progress record.
type LectureState struct {
	LectureID uint `json:"lecture_id"`
	Viewed    bool `json:"viewed"`
}

// ProgressSummary is a progress record joined with its student plus the
// derived viewed fraction.
type ProgressSummary struct {
	Student         UserRef        `json:"student"`
	CourseID        uint           `json:"course_id"`
	Completed       bool           `json:"completed"`
	Lectures        []LectureState `json:"lectures"`
	ViewedLectures  int            `json:"viewed_lectures"`
	TotalLectures   int            `json:"total_lectures"`
	ProgressPercent float64        `json:"progress_percent"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func toUserRef(u models.User) UserRef {
	return UserRef{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		JoinedAt:     u.CreatedAt,
	}
}

func toCourseRef(c courseModels.Course) CourseRef {
	return CourseRef{
		ID:           c.ID,
		Title:        c.Title,
		Price:        c.Price,
		ThumbnailURL: c.ThumbnailURL,
		IsPublished:  c.IsPublished,
	}
}

func toProgressSummary(p courseModels.CourseProgress, student UserRef) ProgressSummary {
	lectures := make([]LectureState, len(p.LectureProgress))
	viewed := 0
	for i, lp := range p.LectureProgress {
		lectures[i] = LectureState{LectureID: lp.LectureID, Viewed: lp.Viewed}
		if lp.Viewed {
			viewed++
		}
	}
	return ProgressSummary{
		Student:         student,
		CourseID:        p.CourseID,
		Completed:       p.Completed,
		Lectures:        lectures,
		ViewedLectures:  viewed,
		TotalLectures:   len(lectures),
		ProgressPercent: progressPercent(p),
		UpdatedAt:       p.UpdatedAt,
	}
}

// progressPercent derives the completion fraction of a single progress
// record. A completed record counts as 100 regardless of its lecture
// entries; a record with no lecture entries counts as 0.
func progressPercent(p courseModels.CourseProgress) float64 {
	if p.Completed {
		return 100
	}
	total := len(p.LectureProgress)
	if total == 0 {
		return 0
	}
	viewed := 0
	for _, lp := range p.LectureProgress {
		if lp.Viewed {
			viewed++
		}
	}
	return float64(viewed) / float64(total) * 100
}
