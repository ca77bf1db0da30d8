package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filestore/core/config"
	"filestore/core/loader"
	"filestore/core/logger"
	"filestore/core/middleware/auth"
	"filestore/core/middleware/rayid"
	"filestore/core/storage"

	"filestore/feature/files"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "filestore/docs/swagger"
)

// @title Filestore API
// @version 1.0
// @description API for file storage over an S3-compatible bucket.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the filestore server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Initialize Storage
		// The client is constructed exactly once here and passed to every
		// consumer; there is no implicit reconstruction anywhere else.
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// Verify the bucket is reachable, creating it when missing
		exists, err := store.BucketExists(cmd.Context(), cfg.Storage.Bucket)
		if err != nil {
			logg.Fatal("Failed to check storage bucket", zap.Error(err))
		}
		if !exists {
			if err := store.MakeBucket(cmd.Context(), cfg.Storage.Bucket, minio.MakeBucketOptions{Region: cfg.Storage.Region}); err != nil {
				logg.Fatal("Failed to create storage bucket", zap.Error(err))
			}
			logg.Info("Created storage bucket", zap.String("bucket", cfg.Storage.Bucket))
		}
		logg.Info("Connected to storage bucket", zap.String("bucket", cfg.Storage.Bucket))

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()

		urlExpiry := time.Duration(cfg.Storage.URLExpirySeconds) * time.Second

		// Register Features
		mgr.Register(files.NewFeature(store, cfg.Storage.Bucket, urlExpiry, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
