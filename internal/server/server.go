package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fadilmartias/jobmate-ml-api/internal/config"
	"github.com/fadilmartias/jobmate-ml-api/internal/domain/fiber/handler"
	"github.com/fadilmartias/jobmate-ml-api/internal/middleware"
	"github.com/fadilmartias/jobmate-ml-api/internal/util"
)

// Leaves room for multipart framing around a resume of handler.MaxResumeSize.
const bodyLimit = handler.MaxResumeSize + 1024*1024

// New builds the fiber app with the full middleware chain and every route.
func New(cfg *config.Config, h *handler.JobHandler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		CaseSensitive:         true,
		StrictRouting:         true,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: cfg.App.IsProduction(),
		ErrorHandler:          util.ErrorHandler(logger),
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.AccessLog(logger))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.App.IsProduction(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	if cfg.RateLimit.Enabled() {
		app.Use(middleware.RateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window))
	}
	app.Use(middleware.BearerAuth(cfg.App.APIToken, "/", "/healthcheck"))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return cfg.App.IsProduction()
		},
	}))

	h.RegisterRoutes(app)
	return app
}
