package analyticsValidator

import (
	"strconv"
	"strings"

	"github.com/rajnish123-bit/lms-2.0/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CourseAnalytics validates the course id param and the optional
// enrollment-window query for the per-course analytics endpoint.
func CourseAnalytics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Days *int `query:"days" validate:"omitempty,min=1,max=90"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		v := validator.New()
		if err := v.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"days": "Days must be between 1 and 90!",
			})
		}

		windowDays := 30
		if reqData.Days != nil {
			windowDays = *reqData.Days
		}

		c.Locals("courseID", courseID)
		c.Locals("windowDays", windowDays)
		return c.Next()
	}
}

// StudentAnalytics validates the optional trend-window query for the
// student analytics endpoint.
func StudentAnalytics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Months *int `query:"months" validate:"omitempty,min=1,max=12"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		v := validator.New()
		if err := v.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"months": "Months must be between 1 and 12!",
			})
		}

		trendMonths := 6
		if reqData.Months != nil {
			trendMonths = *reqData.Months
		}

		c.Locals("trendMonths", trendMonths)
		return c.Next()
	}
}

// StudentDetail validates the student id param.
func StudentDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentIDStr := strings.TrimSpace(c.Params("user_id"))
		if studentIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Student ID is required!", nil)
		}

		studentID, err := strconv.Atoi(studentIDStr)
		if err != nil || studentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Student ID!", nil)
		}

		c.Locals("studentID", studentID)
		return c.Next()
	}
}
