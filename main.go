package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ton21-official/t21-backend/handlers"
	"github.com/ton21-official/t21-backend/middleware"
	"github.com/ton21-official/t21-backend/services"
	"github.com/ton21-official/t21-backend/storage"

	"github.com/go-redis/redis"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const defaultRetentionDays = 90

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		AppName: "t21-backend",
	})

	// 🔐 Edge token check first — pass-through when unconfigured
	app.Use(middleware.EdgeAuthMiddleware())

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// The mini-app is served from Telegram webviews, so the default is
	// wide open; narrow it with ALLOWED_ORIGINS in real deployments.
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	originsList := strings.Split(allowedOrigins, ",")
	for i, origin := range originsList {
		originsList[i] = strings.TrimSpace(origin)
	}
	allowedOrigins = strings.Join(originsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: allowedOrigins != "*",
		MaxAge:           86400, // 24 hours
	}))

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := rdb.Ping().Err(); err != nil {
		log.Fatal("failed to connect to redis:", err)
	}

	retentionDays := defaultRetentionDays
	if v := os.Getenv("RECORD_TTL_DAYS"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 {
			log.Fatalf("invalid RECORD_TTL_DAYS value: %q", v)
		}
		retentionDays = d
	}

	store := storage.NewRedisStore(rdb, time.Duration(retentionDays)*24*time.Hour)
	userService := services.NewUserService(store)

	handlers.SetupUserRoutes(app, userService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Redis connected at %s", redisAddr)
	if retentionDays > 0 {
		log.Printf("✅ User records kept for %d days after last write", retentionDays)
	} else {
		log.Println("✅ User record expiry disabled")
	}
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
