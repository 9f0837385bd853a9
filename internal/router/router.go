package router

import (
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/proconnect-app/backend/internal/handlers"
	"github.com/proconnect-app/backend/internal/middleware"
	"github.com/proconnect-app/backend/internal/models"
	"github.com/proconnect-app/backend/internal/repositories"
	"github.com/proconnect-app/backend/pkg/config"
	"gorm.io/gorm"
)

// readRetentionDays is how long read notifications are kept before the
// startup sweep removes them. Unread notifications are kept forever.
const readRetentionDays = 30

// SetupMiddleware attaches the global middleware and error handler
func SetupMiddleware(e *echo.Echo) {
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.HTTPErrorHandler = httpErrorHandler
}

// httpErrorHandler renders every error in the API's envelope. Validation
// failures become a 400 with one entry per offending field.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		fieldErrors := make([]echo.Map, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fieldErrors = append(fieldErrors, echo.Map{
				"field":   fe.Field(),
				"message": "failed on the '" + fe.Tag() + "' rule",
			})
		}
		_ = c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"
	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	_ = c.JSON(code, echo.Map{"success": false, "message": message})
}

// SetupRoutes migrates the relational schema, wires the repositories and
// handlers and registers every route.
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config) error {
	if err := autoMigrate(db.Postgres); err != nil {
		return err
	}

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	connectionRepo := repositories.NewPostgresConnectionRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(db.Postgres)
	shareRepo := repositories.NewPostgresShareRepository(db.Postgres)
	notifRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(mongoDB)

	if removed, err := notifRepo.DeleteOldRead(readRetentionDays); err != nil {
		log.Printf("Notification retention sweep failed: %v\n", err)
	} else if removed > 0 {
		log.Printf("Notification retention sweep removed %d read notifications\n", removed)
	}

	authHandler := handlers.NewAuthHandler(userRepo, followRepo, connectionRepo, cfg.JWTSecret, cfg.IsDevelopment())
	userHandler := handlers.NewUserHandler(userRepo, followRepo, connectionRepo)
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifRepo)
	connectionHandler := handlers.NewConnectionHandler(connectionRepo, followRepo, userRepo, notifRepo)
	postHandler := handlers.NewPostHandler(postRepo, likeRepo, shareRepo, commentRepo, commentLikeRepo, userRepo, connectionRepo, notifRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, commentLikeRepo, postRepo, userRepo, notifRepo)
	notificationHandler := handlers.NewNotificationHandler(notifRepo)

	handlers.RegisterHealthRoutes(e)

	authGroup := e.Group("/api/auth")
	authGroup.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(20)))
	authHandler.RegisterAuthRoutes(authGroup)

	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	authHandler.RegisterAccountRoutes(api)
	userHandler.RegisterUserRoutes(api)
	followHandler.RegisterFollowRoutes(api)
	connectionHandler.RegisterConnectionRoutes(api)
	postHandler.RegisterPostRoutes(api)
	commentHandler.RegisterCommentRoutes(api)
	notificationHandler.RegisterNotificationRoutes(api)

	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Connection{},
		&models.Comment{},
		&models.Reply{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Share{},
		&models.Notification{},
	)
}
