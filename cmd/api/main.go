package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ethleaf/internal/config"
	"ethleaf/internal/database"
	"ethleaf/internal/middleware"
	"ethleaf/internal/modules/auth"
	"ethleaf/internal/modules/kyc"
	"ethleaf/internal/modules/notification"
	"ethleaf/internal/modules/user"
	jwtsvc "ethleaf/internal/pkg/jwt"
	"ethleaf/internal/pkg/storage"
	"ethleaf/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	s3, err := storage.New(cfg.S3)
	if err != nil {
		log.Fatal(err)
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal(err)
		}
		cancel()
	}

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewKYCRequestRepository(db)
	stepRepo := repository.NewKYCStepRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	kycService := kyc.NewService(requestRepo, stepRepo)
	kycHandler := kyc.NewHandler(kycService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userRepo, kycService)
	userHandler := user.NewHandler(userService, s3)

	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterRoutes(api)
		userHandler.RegisterPublicRoutes(api)

		// authenticated users
		authed := api.Group("/")
		authed.Use(middleware.Auth(j, userRepo))
		{
			userHandler.RegisterProtectedRoutes(authed)
			notificationHandler.RegisterRoutes(authed)
			kycHandler.RegisterUserRoutes(authed)

			// reviewer surface
			reviewer := authed.Group("/kyc")
			reviewer.Use(middleware.RequireReviewer())
			kycHandler.RegisterReviewerRoutes(reviewer)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
