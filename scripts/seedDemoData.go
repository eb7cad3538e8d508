package main

import (
	"log"
	"time"

	"github.com/rajnish123-bit/lms-2.0/config"
	"github.com/rajnish123-bit/lms-2.0/database"
	"github.com/rajnish123-bit/lms-2.0/middleware"
	"github.com/rajnish123-bit/lms-2.0/models"
	courseModels "github.com/rajnish123-bit/lms-2.0/models/course"
)

// Seeds a demo instructor with courses, students, purchases and progress
// so the analytics endpoints have data to aggregate. Run once against an
// empty database:
//
//	go run scripts/seedDemoData.go
func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	instructor := models.User{Name: "Demo Instructor", Email: "instructor@demo.test", Role: "INSTRUCTOR"}
	if err := db.Where(models.User{Email: instructor.Email}).FirstOrCreate(&instructor).Error; err != nil {
		log.Fatalf("Failed to seed instructor: %v", err)
	}

	studentNames := []string{"Asha Verma", "Rahul Singh", "Priya Nair", "Karan Mehta", "Sana Iqbal"}
	students := make([]models.User, len(studentNames))
	for i, name := range studentNames {
		students[i] = models.User{Name: name, Email: emailFor(name), Role: "STUDENT"}
		if err := db.Where(models.User{Email: students[i].Email}).FirstOrCreate(&students[i]).Error; err != nil {
			log.Fatalf("Failed to seed student %s: %v", name, err)
		}
	}

	courseTitles := []struct {
		title string
		price float64
	}{
		{"Go for Backend Engineers", 1499},
		{"PostgreSQL Deep Dive", 999},
		{"Distributed Systems Basics", 1999},
	}

	courses := make([]courseModels.Course, len(courseTitles))
	for i, ct := range courseTitles {
		courses[i] = courseModels.Course{
			Title:       ct.title,
			Description: "Demo course: " + ct.title,
			CreatorID:   instructor.ID,
			Price:       ct.price,
			IsPublished: true,
		}
		if err := db.Where(courseModels.Course{Title: ct.title, CreatorID: instructor.ID}).
			FirstOrCreate(&courses[i]).Error; err != nil {
			log.Fatalf("Failed to seed course %s: %v", ct.title, err)
		}

		for l := 1; l <= 6; l++ {
			lecture := courseModels.Lecture{CourseID: courses[i].ID, Title: "Lecture", OrderIndex: l}
			if err := db.Where(courseModels.Lecture{CourseID: courses[i].ID, OrderIndex: l}).
				FirstOrCreate(&lecture).Error; err != nil {
				log.Fatalf("Failed to seed lecture: %v", err)
			}
		}
	}

	seeded := 0
	for si, student := range students {
		for ci, crs := range courses {
			// Stagger students across courses so rollups differ.
			if (si+ci)%2 != 0 {
				continue
			}

			purchase := courseModels.CoursePurchase{
				CourseID: crs.ID,
				UserID:   student.ID,
				Amount:   crs.Price,
				Status:   courseModels.PurchaseCompleted,
			}
			if err := db.Where(courseModels.CoursePurchase{CourseID: crs.ID, UserID: student.ID}).
				FirstOrCreate(&purchase).Error; err != nil {
				log.Fatalf("Failed to seed purchase: %v", err)
			}

			enrollment := courseModels.Enrollment{CourseID: crs.ID, UserID: student.ID}
			if err := db.Where(enrollment).FirstOrCreate(&enrollment).Error; err != nil {
				log.Fatalf("Failed to seed enrollment: %v", err)
			}

			var lectures []courseModels.Lecture
			db.Where("course_id = ?", crs.ID).Order("order_index asc").Find(&lectures)

			progress := courseModels.CourseProgress{
				CourseID:  crs.ID,
				UserID:    student.ID,
				Completed: si%2 == 0 && ci == 0,
			}
			if err := db.Where(courseModels.CourseProgress{CourseID: crs.ID, UserID: student.ID}).
				FirstOrCreate(&progress).Error; err != nil {
				log.Fatalf("Failed to seed progress: %v", err)
			}

			for li, lecture := range lectures {
				lp := courseModels.LectureProgress{
					ProgressID: progress.ID,
					LectureID:  lecture.ID,
					Viewed:     progress.Completed || li < (si+1)%len(lectures),
					OrderIndex: lecture.OrderIndex,
				}
				if err := db.Where(courseModels.LectureProgress{ProgressID: progress.ID, LectureID: lecture.ID}).
					FirstOrCreate(&lp).Error; err != nil {
					log.Fatalf("Failed to seed lecture progress: %v", err)
				}
			}
			seeded++
		}
	}

	token, err := middleware.GenerateJWT(instructor.ID, instructor.Name, instructor.Role, instructor.Email)
	if err != nil {
		log.Fatalf("Failed to generate instructor token: %v", err)
	}

	log.Printf("Seeded %d enrollments across %d courses at %s", seeded, len(courses), time.Now().Format(time.RFC3339))
	log.Printf("Demo instructor token (24h): %s", token)
}

func emailFor(name string) string {
	email := ""
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			email += string(r + 32)
		case r >= 'a' && r <= 'z':
			email += string(r)
		case r == ' ':
			email += "."
		}
	}
	return email + "@demo.test"
}
