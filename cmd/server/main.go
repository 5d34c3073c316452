package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/semester-scrapbook/internal/config"
	"github.com/iliyamo/semester-scrapbook/internal/database"
	"github.com/iliyamo/semester-scrapbook/internal/handler"
	"github.com/iliyamo/semester-scrapbook/internal/middleware"
	"github.com/iliyamo/semester-scrapbook/internal/queue"
	"github.com/iliyamo/semester-scrapbook/internal/repository"
	"github.com/iliyamo/semester-scrapbook/internal/router"
	"github.com/iliyamo/semester-scrapbook/internal/service"
	"github.com/iliyamo/semester-scrapbook/internal/service/queue_publisher"
	"github.com/iliyamo/semester-scrapbook/internal/stream"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	// Redis is optional: without it the rate limiter passes everything
	// through and wall changes stay instance-local.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and cross-instance wall relay disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	semesters := repository.NewSemesterRepo(db)
	access := repository.NewAccessRepo(db)
	joinLogs := repository.NewJoinLogRepo(db)
	posts := repository.NewPostRepo(db)

	hub := stream.NewHub(posts, rdb)
	go hub.Run(context.Background())
	go func() {
		if err := queue.StartJoinConsumer(); err != nil {
			log.Printf("join consumer stopped: %v", err)
		}
	}()

	accessSvc := service.NewAccessService(semesters, access, joinLogs, queue_publisher.PublishSemesterJoined)
	semesterSvc := service.NewSemesterService(semesters, access)
	postSvc := service.NewPostService(posts, hub)

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, accessSvc), cfg.JWTSecret, limit)
	router.RegisterSemesters(e, handler.NewSemesterHandler(semesterSvc, accessSvc, users, cfg.AppOrigin), cfg.JWTSecret)
	router.RegisterPosts(e, handler.NewPostHandler(postSvc, hub, accessSvc), cfg.JWTSecret, limit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
