package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/rajnish123-bit/lms-2.0/config"
	"github.com/rajnish123-bit/lms-2.0/database"
	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"

	"github.com/go-resty/resty/v2"
	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// logDigest logs digest scheduler events with timestamp
func logDigest(message string) {
	log.Printf("[DIGEST-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// InstructorDigest is the payload posted to the digest webhook for one
// instructor, covering the previous calendar day.
type InstructorDigest struct {
	InstructorID   uint    `json:"instructor_id"`
	InstructorName string  `json:"instructor_name"`
	Date           string  `json:"date"`
	Revenue        float64 `json:"revenue"`
	Sales          int64   `json:"sales"`
	NewStudents    int64   `json:"new_students"`
	TotalCourses   int64   `json:"total_courses"`
}

// InitializeDigestScheduler sets up the daily analytics digest. Does
// nothing when no webhook URL is configured.
func InitializeDigestScheduler() {
	if config.AppConfig.DigestWebhookURL == "" {
		logDigest("No DIGEST_WEBHOOK_URL configured, digest disabled")
		return
	}

	logDigest("Initializing analytics digest scheduler...")

	c := cron.New()
	if _, err := c.AddFunc(config.AppConfig.DigestCron, SendDailyDigests); err != nil {
		logDigest("Invalid DIGEST_CRON expression: " + err.Error())
		return
	}
	c.Start()

	logDigest("Digest scheduler started with schedule " + config.AppConfig.DigestCron)
}

// SendDailyDigests computes yesterday's sales summary per instructor and
// posts each digest to the configured webhook.
func SendDailyDigests() {
	db := database.Database.Db

	dayEnd := now.BeginningOfDay()
	dayStart := dayEnd.AddDate(0, 0, -1)

	var instructors []models.User
	if err := db.Where("role = ? AND is_deleted = ?", "INSTRUCTOR", false).Find(&instructors).Error; err != nil {
		logDigest("Error fetching instructors: " + err.Error())
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	sent := 0

	for _, instructor := range instructors {
		var courseIDs []uint
		if err := db.Model(&courseModels.Course{}).
			Where("creator_id = ? AND is_deleted = ?", instructor.ID, false).
			Pluck("id", &courseIDs).Error; err != nil {
			logDigest("Error fetching courses for instructor " + instructor.Email + ": " + err.Error())
			continue
		}
		if len(courseIDs) == 0 {
			continue
		}

		digest := InstructorDigest{
			InstructorID:   instructor.ID,
			InstructorName: instructor.Name,
			Date:           dayStart.Format("2006-01-02"),
			TotalCourses:   int64(len(courseIDs)),
		}

		if err := db.Model(&courseModels.CoursePurchase{}).
			Where("course_id IN ? AND status = ? AND is_deleted = ?", courseIDs, courseModels.PurchaseCompleted, false).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&digest.Sales).Error; err != nil {
			logDigest("Error counting sales for instructor " + instructor.Email + ": " + err.Error())
			continue
		}
		if err := db.Model(&courseModels.CoursePurchase{}).
			Where("course_id IN ? AND status = ? AND is_deleted = ?", courseIDs, courseModels.PurchaseCompleted, false).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Select("COALESCE(SUM(amount), 0)").Scan(&digest.Revenue).Error; err != nil {
			logDigest("Error summing revenue for instructor " + instructor.Email + ": " + err.Error())
			continue
		}
		if err := db.Model(&courseModels.CoursePurchase{}).
			Where("course_id IN ? AND status = ? AND is_deleted = ?", courseIDs, courseModels.PurchaseCompleted, false).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Distinct("user_id").Count(&digest.NewStudents).Error; err != nil {
			logDigest("Error counting students for instructor " + instructor.Email + ": " + err.Error())
			continue
		}

		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(digest).
			Post(config.AppConfig.DigestWebhookURL)
		if err != nil {
			logDigest("Error posting digest for instructor " + instructor.Email + ": " + err.Error())
			continue
		}
		if resp.IsError() {
			logDigest("Digest webhook returned " + resp.Status() + " for instructor " + instructor.Email)
			continue
		}
		sent++
	}

	logDigest(fmt.Sprintf("Daily digests sent: %d", sent))
}
