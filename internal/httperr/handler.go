package httperr

import (
	"errors"
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

type response struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"status"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	Stack      string `json:"stack,omitempty"`
}

// Handler returns the fiber error handler that renders every failure as the
// uniform error body. Stack traces are included only outside production.
func Handler(isProduction bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := response{
			StatusCode: 500,
			Status:     "error",
			Name:       "UnknownError",
			Message:    "An unexpected error occurred. Please try again later.",
		}

		var apiErr *Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &apiErr):
			resp.StatusCode = apiErr.StatusCode
			resp.Name = apiErr.Name
			resp.Message = apiErr.Message
		case errors.As(err, &fiberErr):
			resp.StatusCode = fiberErr.Code
			resp.Message = fiberErr.Message
			if fiberErr.Code == fiber.StatusNotFound {
				resp.Name = "NotFoundError"
			}
		}

		if resp.StatusCode >= 500 {
			slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
		}
		if !isProduction {
			resp.Stack = string(debug.Stack())
		}

		return c.Status(resp.StatusCode).JSON(resp)
	}
}
