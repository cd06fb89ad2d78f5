package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"schoolzy/internal/config"
	"schoolzy/internal/handler"
	"schoolzy/internal/repository"
	"schoolzy/internal/services"
	"schoolzy/internal/utils"
)

func main() {
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	redisClient, err := utils.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return redisClient.Close()
	})

	minioClient, err := utils.NewMinioClient(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket)
	if err != nil {
		log.Fatal("Failed to connect to MinIO:", err)
	}

	schoolRepo := repository.NewSchoolRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)

	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret)
	googleAuth := services.NewGoogleAuthService(cfg.GoogleClientID)

	ratingService := services.NewRatingService(schoolRepo, reviewRepo)
	schoolService := services.NewSchoolService(schoolRepo, reviewRepo)
	reviewService := services.NewReviewService(reviewRepo, schoolRepo, userRepo, ratingService, cfg.AllowMultipleReviews)
	mediaService := services.NewMediaService(minioClient, cfg.MinioBucket, cfg.MinioPublicURL)
	authService := services.NewAuthService(userRepo, reviewRepo, ratingService, jwtUtil, googleAuth, redisClient)
	adminService := services.NewAdminService(userRepo, reviewRepo, schoolRepo, ratingService)

	schoolHandler := handler.NewSchoolHandler(schoolService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	authHandler := handler.NewAuthHandler(authService, mediaService)
	adminHandler := handler.NewAdminHandler(adminService, schoolService)

	router := gin.Default()
	router.Use(cors.Default())

	authRequired := utils.AuthMiddleware(jwtUtil, redisClient)
	adminOnly := utils.RoleMiddleware("admin")

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		schools := api.Group("/schools")
		{
			schools.GET("", schoolHandler.GetAll)
			schools.GET("/nearby", schoolHandler.Nearby)
			schools.GET("/:id", schoolHandler.GetByID)

			schools.POST("", authRequired, adminOnly, schoolHandler.Create)
			schools.PUT("/:id", authRequired, adminOnly, schoolHandler.Update)
			schools.DELETE("/:id", authRequired, adminOnly, schoolHandler.Delete)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/school/:schoolId", reviewHandler.GetBySchool)

			reviews.GET("/user/me", authRequired, reviewHandler.GetMine)
			reviews.POST("/school/:schoolId", authRequired, reviewHandler.Create)
			reviews.PUT("/:id", authRequired, reviewHandler.Update)
			reviews.DELETE("/:id", authRequired, reviewHandler.Delete)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google-login", authHandler.GoogleLogin)

			protected := auth.Group("/")
			protected.Use(authRequired)
			{
				protected.GET("/me", authHandler.Me)
				protected.GET("/profile", authHandler.GetProfile)
				protected.PUT("/profile", authHandler.UpdateProfile)
				protected.DELETE("/account", authHandler.DeleteAccount)
				protected.POST("/logout", authHandler.Logout)
			}
		}

		admin := api.Group("/admin")
		admin.Use(authRequired, adminOnly)
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/activity", adminHandler.RecentActivity)

			admin.GET("/schools", adminHandler.ListSchools)
			admin.POST("/schools", schoolHandler.Create)
			admin.PUT("/schools/:id", schoolHandler.Update)
			admin.DELETE("/schools/:id", schoolHandler.Delete)

			admin.GET("/reviews", reviewHandler.AdminList)
			admin.DELETE("/reviews/:id", reviewHandler.AdminDelete)

			admin.GET("/users", adminHandler.GetUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			admin.GET("/admins", adminHandler.GetAdmins)
			admin.DELETE("/admins/:id", adminHandler.RemoveAdmin)

			admin.GET("/system/health", adminHandler.SystemHealth)
		}
	}

	server := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Println("Schoolzy API running on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	shutdownManager.Wait()
}
