package main

import (
	"context"
	"errors"
	"log"
	"os"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/google"
	"backend/internal/handler"
	"backend/internal/logger"
	"backend/internal/model"
	"backend/internal/otp"
	"backend/internal/payment"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/storage"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

func env(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// @title           Club Match API
// @version         1.0
// @description     Backend for a location-based dating app: auth, profiles, geo feed, matching, real-time chat and VIP payments.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dsn := "postgres://" + env("DB_USER", "postgres") + ":" + env("DB_PASSWORD", "postgres") +
		"@" + env("DB_HOST", "localhost") + ":" + env("DB_PORT", "5432") +
		"/" + env("DB_NAME", "postgres") + "?sslmode=" + env("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	logger.Info("connected to postgres")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     env("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	clubRepo := repository.NewClubRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	privacyRepo := repository.NewPrivacyRepository(db)
	planRepo := repository.NewTonightPlanRepository(db)
	txManager := repository.NewTransactionManager(db)

	// External collaborators
	verifier := google.NewVerifier(os.Getenv("GOOGLE_CLIENT_ID"))
	otpStore := otp.NewStore(redisClient)
	otpSender := otp.NewLogSender()
	uploader := storage.NewCloudinaryUploader(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	razorpayClient := payment.NewClient(
		os.Getenv("RAZORPAY_KEY_ID"),
		os.Getenv("RAZORPAY_KEY_SECRET"),
	)

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, verifier, otpStore, otpSender)
	privacyService := service.NewPrivacyService(privacyRepo)

	// The hub and the message service reference each other, so wiring is
	// split in two steps.
	wsHub := websocket.NewHub(matchRepo, userRepo, privacyService)
	messageService := service.NewMessageService(messageRepo, matchRepo, wsHub)
	wsHub.SetMessageService(messageService)
	go wsHub.Run()

	profileService := service.NewProfileService(profileRepo, photoRepo, userRepo, clubRepo, planRepo, uploader)
	clubService := service.NewClubService(clubRepo)
	feedService := service.NewFeedService(profileRepo, likeRepo, matchRepo, photoRepo)
	matchService := service.NewMatchService(likeRepo, matchRepo, profileRepo, photoRepo, txManager)
	planService := service.NewTonightPlanService(planRepo, clubRepo)
	paymentService := service.NewPaymentService(
		userRepo,
		razorpayClient,
		os.Getenv("RAZORPAY_KEY_ID"),
		os.Getenv("RAZORPAY_KEY_SECRET"),
		os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		nil,
	)

	seedAdmin(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService, authService)
	clubHandler := handler.NewClubHandler(clubService, authService)
	feedHandler := handler.NewFeedHandler(feedService, authService)
	matchHandler := handler.NewMatchHandler(matchService, authService)
	messageHandler := handler.NewMessageHandler(messageService, authService)
	privacyHandler := handler.NewPrivacyHandler(privacyService, authService)
	planHandler := handler.NewTonightPlanHandler(planService, authService)
	paymentHandler := handler.NewPaymentHandler(paymentService, authService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"service": "Club Match API", "docs": "/swagger/index.html"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, authService, c)
	})

	// API Routing
	authHandler.RegisterRoutes(router.Group(""))
	profileHandler.RegisterRoutes(router.Group(""))
	clubHandler.RegisterRoutes(router.Group(""))
	feedHandler.RegisterRoutes(router.Group(""))
	matchHandler.RegisterRoutes(router.Group(""))
	messageHandler.RegisterRoutes(router.Group(""))
	privacyHandler.RegisterRoutes(router.Group(""))
	planHandler.RegisterRoutes(router.Group(""))
	paymentHandler.RegisterRoutes(router.Group(""))

	port := env("PORT", "8080")
	logger.Info("server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedAdmin creates the single admin account from ADMIN_EMAIL if none exists.
func seedAdmin(users repository.UserRepository) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return
	}

	ctx := context.Background()
	if _, err := users.FindAdmin(ctx); err == nil {
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Admin lookup failed: %v", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		Name:         "Admin",
		Role:         "admin",
		IsRegistered: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		// Another instance may have seeded concurrently.
		logger.Warn("admin seed skipped", "error", err)
		return
	}
	logger.Info("admin seeded", "email", adminEmail)
}
