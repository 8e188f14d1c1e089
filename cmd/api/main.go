package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "paychain/internal/adapter/http"
	gwmiddleware "paychain/internal/adapter/middleware"
	"paychain/internal/adapter/repository/gormdb"
	"paychain/internal/adapter/upstream"
	"paychain/internal/config"
	"paychain/internal/domain/journal"
	"paychain/internal/infrastructure/cache"
	"paychain/internal/infrastructure/db"
	"paychain/internal/usecase/board"
	"paychain/internal/usecase/employer"
	"paychain/internal/usecase/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	gdb, err := db.Open(cfg.JournalDriver, cfg.JournalDSN())
	if err != nil {
		log.Fatalf("journal db: %v", err)
	}
	if err := gdb.AutoMigrate(&journal.Entry{}); err != nil {
		log.Fatalf("journal migrate: %v", err)
	}

	manifest, err := httpadp.LoadPageManifest(cfg.PagesManifest)
	if err != nil {
		log.Fatalf("pages: %v", err)
	}

	sessions := cache.NewSessionStore(rdb)
	client := upstream.NewClient(cfg.UpstreamBaseURL, &http.Client{Timeout: 30 * time.Second}, sessions.Bind("default"))

	journalRepo := gormdb.NewJournalRepository(gdb)
	reports := cache.NewRedisReportStore(rdb)

	workerUC := worker.NewUsecase(client, journalRepo)
	employerUC := employer.NewUsecase(client, journalRepo)
	boardUC := board.NewUsecase(client, reports, journalRepo)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(gwmiddleware.Idempotency(rdb, 24*time.Hour))

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:   httpadp.NewHandler(),
		Worker:   httpadp.NewWorkerHandler(workerUC),
		Employer: httpadp.NewEmployerHandler(employerUC),
		Board:    httpadp.NewBoardHandler(boardUC),
		Journal:  httpadp.NewJournalHandler(journalRepo),
		Session:  httpadp.NewSessionHandler(sessions),
		Pages:    httpadp.NewPagesHandler(manifest),
	})

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
