package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nofap-ai/handlers"
	"nofap-ai/models"
	"nofap-ai/services"
	"nofap-ai/utils"
	"nofap-ai/workers"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — avatars are the only uploads
	})

	// CORS for the web client
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Chat-Session",
		ExposeHeaders:    "Content-Length, Content-Type, X-Chat-Session",
		AllowCredentials: true, // session cookie must travel
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_PATH")
	if dsn == "" {
		dsn = "nofap.db"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to open database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.UserProfile{},
		&models.Streak{},
		&models.DailyRecord{},
		&models.UserHabit{},
		&models.HabitCheck{},
		&models.DailyMission{},
		&models.ChatSession{},
		&models.ChatMessage{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	r2Enabled, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if !r2Enabled {
		log.Println("⚠️  R2 not configured — avatars will be stored on local disk")
		if err := utils.EnsureUploadDir(); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
	}

	authService := services.NewAuthService(db)
	profileService := services.NewProfileService(db)
	streakService := services.NewStreakService(db)
	recordService := services.NewRecordService(db)
	habitService := services.NewHabitService(db)
	missionService := services.NewMissionService(db)
	chatService := services.NewChatService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background journal analysis (fills analysis_summary/category)
	analysisWorker := workers.NewJournalAnalysisWorker(db)
	go workers.PollJournals(ctx, analysisWorker, 2*time.Minute)

	authService.StartMaintenanceScheduler()

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupProfileRoutes(app, authService, profileService, streakService)
	handlers.SetupStreakRoutes(app, authService, streakService)
	handlers.SetupRecordRoutes(app, authService, recordService)
	handlers.SetupHabitRoutes(app, authService, habitService)
	handlers.SetupMissionRoutes(app, authService, missionService)
	handlers.SetupChatRoutes(app, authService, chatService)
	handlers.SetupToolRoutes(app, authService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Journal analysis worker running (every 2m)")
	log.Println("✅ Session purge scheduler running (hourly)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
