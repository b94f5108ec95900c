package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"civicwatch/internal/config"
	"civicwatch/internal/handler"
	"civicwatch/internal/middleware"
	"civicwatch/internal/realtime"
	"civicwatch/internal/repository"
	"civicwatch/internal/service"
	authsvc "civicwatch/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (image upload will not work)", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub(redis)
	go hub.Run(ctx)

	repos := repository.NewRepositories(db)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := repos.Session.DeleteExpired(ctx); err != nil {
					log.Printf("Session cleanup failed: %v", err)
				}
			}
		}
	}()

	services := service.NewServices(repos, redis, minioClient, hub, cfg)
	handlers := handler.NewHandlers(services, hub)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService authsvc.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/ws", h.WS.Upgrade, h.WS.Serve())

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/auth/me", h.Auth.Me)

	users := protected.Group("/users")
	users.Get("/", middleware.RequireAdmin(), h.User.List)
	users.Get("/:id", h.User.GetByID)
	users.Put("/:id", h.User.Update)
	users.Delete("/:id", h.User.Delete)

	posts := protected.Group("/posts")
	posts.Post("/", h.Post.Create)
	posts.Get("/", h.Post.List)
	posts.Post("/like/:id", h.Post.Like)
	posts.Delete("/like/:id", h.Post.Unlike)
	posts.Get("/:id", h.Post.GetByID)
	posts.Put("/:id", h.Post.Update)
	posts.Delete("/:id", h.Post.Delete)

	protected.Put("/status/:postId", middleware.RequireAdmin(), h.Status.Update)
	protected.Get("/status/:postId", h.Status.Get)

	// Reading comments is public; mutating them is not.
	v1.Get("/comments/:postId", h.Comment.List)
	protected.Post("/comments/:postId", h.Comment.Create)
	protected.Patch("/comments/:postId/:commentId", h.Comment.Update)
	protected.Delete("/comments/:postId/:commentId", h.Comment.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllRead)
	notifications.Delete("/:id", h.Notification.Delete)

	departments := protected.Group("/departments")
	departments.Get("/", h.Department.List)
	departments.Get("/:id", h.Department.GetByID)
	departments.Post("/", middleware.RequireAdmin(), h.Department.Create)
	departments.Put("/:id", middleware.RequireAdmin(), h.Department.Update)
	departments.Delete("/:id", middleware.RequireAdmin(), h.Department.Delete)

	dashboard := protected.Group("/dashboard", middleware.RequireAdmin())
	dashboard.Get("/stats", h.Dashboard.Stats)
}
