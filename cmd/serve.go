package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"campusctl/core/logger"
	"campusctl/core/middleware"
	"campusctl/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd starts the read-only inventory API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only inventory API",
	Long: `Serve starts an HTTP server exposing the controller inventory under
/api/v1. The API never mutates the controller; applying declarations
stays a CLI operation.`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := newSession()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := s.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		client, cleanup, err := s.connect(context.Background())
		if err != nil {
			logg.Fatal("Failed to connect to controller", zap.Error(err))
		}
		defer cleanup()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// RayID must be first to trace everything
		app.Use(middleware.RayID())

		// Logging middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Auth (Protect API)
		app.Use(middleware.Auth(s.cfg.Server.ApiKey))

		api := app.Group("/api/v1")
		handler := inventory.NewHandler(inventory.NewService(client, logg))
		handler.RegisterRoutes(api)

		go func() {
			logg.Info("Starting server", zap.String("port", s.cfg.Server.Port))
			if err := app.Listen(s.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
