package main // Entry point package

import (
	"context"
	"log" // Logging library
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/securevote/voting-service/internal/config"
	"github.com/securevote/voting-service/internal/crypto"
	"github.com/securevote/voting-service/internal/database"
	"github.com/securevote/voting-service/internal/handler"
	"github.com/securevote/voting-service/internal/middleware"
	"github.com/securevote/voting-service/internal/queue"
	"github.com/securevote/voting-service/internal/repository"
	"github.com/securevote/voting-service/internal/router"
	"github.com/securevote/voting-service/internal/service"
	"github.com/securevote/voting-service/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(schemaCtx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	schemaCancel()
	store := repository.NewSQLStore(db)

	cipher, err := crypto.NewBallotCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("ballot cipher: %v", err)
	}
	ledger := service.NewLedger(store, cipher)

	// Seed the admin account once; reruns are no-ops.
	adminHash, err := utils.HashPassword(cfg.AdminPassword, cfg.PBKDF2Iterations)
	if err != nil {
		log.Fatalf("admin seed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ledger.EnsureAdmin(ctx, cfg.AdminUsername, adminHash); err != nil {
		log.Printf("admin seed failed: %v", err)
	}
	cancel()

	limiter := middleware.NewRateLimiter(config.LoadRateLimitConfig())
	rdb := config.NewRedisClient() // nil disables the election cache

	// Audit consumer runs for the lifetime of the process, reconnecting on
	// broker failures.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	auth := handler.NewAuthHandler(cfg, store, ledger)
	elections := handler.NewElectionHandler(ledger)
	votes := handler.NewVoteHandler(auth, ledger)

	e := echo.New()
	router.Register(e, cfg, store, auth, elections, votes, limiter, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
