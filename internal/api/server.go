package api

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/insightdelivered/statement-expenses/internal/models"
)

// NewApp builds the fiber app with middleware and routes.
func NewApp(h *Handler, maxUploadMB int) *fiber.App {
	if h.Logger == nil {
		h.Logger = log.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "statement-expenses",
		BodyLimit:             maxUploadMB << 20,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(h.Logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(requestLogger(h.Logger))

	h.RegisterRoutes(app)
	return app
}

// requestLogger logs one line per request.
func requestLogger(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	}
}

// errorHandler renders errors that escape handlers (404s, body too large,
// recovered panics) in the same JSON envelope as handler errors.
func errorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed", "path", c.Path(), "error", err)
		}
		return c.Status(status).JSON(ExtractResponse{
			Success:      false,
			Error:        err.Error(),
			Transactions: []models.Transaction{},
			TotalDebit:   "0.00",
		})
	}
}
