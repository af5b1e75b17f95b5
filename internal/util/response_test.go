package util

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database exploded") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.ErrTeapot })
	app.Get("/custom", func(c *fiber.Ctx) error {
		return ErrorResponse(c, ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: "Missing 'text' in request body"})
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/boom", status: 500, body: `{"detail":"Internal Server Error"}`},
		{path: "/teapot", status: 418, body: `{"detail":"I'm a teapot"}`},
		{path: "/custom", status: 400, body: `{"detail":"Missing 'text' in request body"}`},
		{path: "/nowhere", status: 404, body: `{"detail":"Not Found"}`},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		assert.JSONEq(t, tt.body, string(body), tt.path)
	}

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "/boom", logs.All()[0].ContextMap()["path"])
}

func TestSuccessResponseDefaultsToOK(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return SuccessResponse(c, 0, fiber.Map{"status": "ok"}) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
