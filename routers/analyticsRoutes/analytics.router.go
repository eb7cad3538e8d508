package analyticsRoutes

import (
	controllers "github.com/rajnish123-bit/lms-2.0/controllers/analytics"
	"github.com/rajnish123-bit/lms-2.0/middleware"
	validators "github.com/rajnish123-bit/lms-2.0/validators/analytics"

	"github.com/gofiber/fiber/v2"
)

// SetupAnalyticsRoutes sets up the instructor analytics routes
func SetupAnalyticsRoutes(app *fiber.App) {
	group := app.Group("/instructor/analytics")

	group.Get("/dashboard", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), controllers.InstructorDashboard)
	group.Get("/course/:id", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), validators.CourseAnalytics(), controllers.CourseAnalytics)
	group.Get("/students", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), validators.StudentAnalytics(), controllers.StudentAnalytics)
	group.Get("/student/:user_id", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), validators.StudentDetail(), controllers.StudentDetail)
}
