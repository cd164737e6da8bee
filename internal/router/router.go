package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/andreazevedo1975/OldKut-sub000/internal/cache"
	"github.com/andreazevedo1975/OldKut-sub000/internal/events"
	"github.com/andreazevedo1975/OldKut-sub000/internal/handlers"
	"github.com/andreazevedo1975/OldKut-sub000/internal/metrics"
	"github.com/andreazevedo1975/OldKut-sub000/internal/middleware"
	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"github.com/andreazevedo1975/OldKut-sub000/internal/realtime"
	"github.com/andreazevedo1975/OldKut-sub000/internal/repositories"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, m *metrics.Metrics) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	if m != nil {
		e.Use(m.Middleware())
	}
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the running event notifier so main can stop it on shutdown.
func SetupRoutes(
	e *echo.Echo,
	pgdb *gorm.DB,
	mgClient *mongo.Client,
	rdb *redis.Client,
	nc *nats.Conn,
	jwtSecret string,
	m *metrics.Metrics,
	log *logrus.Logger,
) (*events.Notifier, error) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	)
	if err != nil {
		return nil, err
	}
	log.Info("PostgreSQL auto-migrations completed for all models.")

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("oldkut"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Infrastructure ---
	feedCache := cache.NewFeedCache(rdb)
	hub := realtime.NewHub(rdb, log)
	publisher := events.NewPublisher(nc)
	notifier := events.NewNotifier(nc, notificationRepo, hub, m, log)
	if err := notifier.Start(); err != nil {
		return nil, err
	}
	log.Info("Activity notifier subscribed.")

	// --- Protected routes (require JWT authentication) ---
	apiGroup := e.Group("/api/v1")
	apiGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))
	log.Info("JWT authentication middleware applied to /api/v1 group.")

	userHandler := handlers.NewUserHandler(userRepo, friendshipRepo)
	userHandler.RegisterUserRoutes(apiGroup)

	postHandler := handlers.NewPostHandler(postRepo, feedCache, m)
	postHandler.RegisterPostRoutes(apiGroup)

	feedHandler := handlers.NewFeedHandler(postRepo, likeRepo, commentRepo, feedCache)
	feedHandler.RegisterFeedRoutes(apiGroup)

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, publisher, feedCache, m, log)
	likeHandler.RegisterLikeRoutes(apiGroup)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, publisher, feedCache, m, log)
	commentHandler.RegisterCommentRoutes(apiGroup)

	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, publisher, log)
	friendshipHandler.RegisterFriendshipRoutes(apiGroup)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(apiGroup)

	log.Info("All routes configured.")
	return notifier, nil
}
