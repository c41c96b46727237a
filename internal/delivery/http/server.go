package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/delivery/http/handler"
	"github.com/tryggaplatser/locator/internal/delivery/http/middleware"
)

// sessionSweepEvery is how often idle sessions are dropped.
const (
	sessionSweepEvery = 5 * time.Minute
	sessionMaxIdle    = 30 * time.Minute
)

// Server wires the fiber app, middleware and routes.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	locationHandler *handler.LocationHandler
	categoryHandler *handler.CategoryHandler
	searchHandler   *handler.SearchHandler
	sessionHandler  *handler.SessionHandler

	sweepStop chan struct{}
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	locationHandler *handler.LocationHandler,
	categoryHandler *handler.CategoryHandler,
	searchHandler *handler.SearchHandler,
	sessionHandler *handler.SessionHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Trygga Platser Locator",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		locationHandler: locationHandler,
		categoryHandler: categoryHandler,
		searchHandler:   searchHandler,
		sessionHandler:  sessionHandler,
		sweepStop:       make(chan struct{}),
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Location routes
	api.Get("/locations", s.locationHandler.GetAll)
	api.Get("/posts/:id", s.locationHandler.GetByID)
	api.Get("/posts/:id/details", s.locationHandler.GetDetails)

	// Category routes
	api.Get("/categories", s.categoryHandler.GetTop)
	api.Get("/categories/:id/posts", s.categoryHandler.GetPosts)
	api.Get("/categories/:id/subcategories", s.categoryHandler.GetSubcategories)
	api.Get("/subcategories/posts", s.categoryHandler.GetSubcategoryPosts)

	// Search
	api.Get("/search", s.searchHandler.Search)

	// Map session routes
	api.Post("/sessions", s.sessionHandler.Create)
	api.Post("/sessions/:id/events", s.sessionHandler.Event)
	api.Get("/sessions/:id/frame", s.sessionHandler.Frame)
	api.Delete("/sessions/:id", s.sessionHandler.Close)
}

// Start runs the listener and the idle-session sweeper.
func (s *Server) Start() error {
	go s.sweepLoop()

	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) sweepLoop() {
	ticker := time.NewTicker(sessionSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-s.sweepStop:
			return
		case <-ticker.C:
			s.sessionHandler.Sweep(sessionMaxIdle)
		}
	}
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	close(s.sweepStop)
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
