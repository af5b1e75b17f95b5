package util

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/fadilmartias/jobmate-ml-api/internal/dto"
)

type ErrorResponseFormat struct {
	Code    int
	Message string
}

// SuccessResponse sends data as JSON. Code defaults to 200.
func SuccessResponse(c *fiber.Ctx, code int, data any) error {
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(data)
}

// ErrorResponse sends {"detail": message}. Code defaults to 500 and an empty
// message to the standard status text.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	message := params.Message
	if message == "" {
		message = utils.StatusMessage(code)
	}
	return c.Status(code).JSON(dto.ErrorDetail{Detail: message})
}

// ErrorHandler answers errors that escape handlers and middleware in the same
// {"detail"} shape. Only server side failures are logged.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled request error",
				zap.Error(err),
				zap.String("method", utils.CopyString(c.Method())),
				zap.String("path", utils.CopyString(c.Path())),
			)
		}

		return ErrorResponse(c, ErrorResponseFormat{Code: code})
	}
}
