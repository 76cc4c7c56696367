package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"party_quiz/internal/api"
	"party_quiz/internal/middleware"
	"party_quiz/internal/repository"
	"party_quiz/internal/service"
	"party_quiz/internal/storage"
	"party_quiz/internal/utils"
	"party_quiz/pkg/config"
	"party_quiz/pkg/logger"
)

func main() {
	// .env 不存在時直接使用環境變數
	_ = godotenv.Load()

	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化儲存層，postgres 之外的設定使用行程內儲存
	var (
		repos    *repository.Repositories
		notifier service.Notifier
		pubsub   *storage.PostgresPubSub
	)
	switch cfg.DB.Driver {
	case "memory":
		log.Warn().Msg("using in-memory storage, rooms are lost on restart")
		repos = repository.NewMemoryRepositories()
	default:
		dsn := storage.DSN(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port, cfg.DB.SSLMode)
		db, err := storage.NewPostgresDB(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		repos = repository.NewRepositories(db)

		pubsub, err = storage.NewPostgresPubSub(ctx, dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub")
		}
		defer pubsub.Close()
		notifier = pubsub
	}

	// 初始化 services
	services := service.NewServices(repos, service.Options{
		TxAttempts:    cfg.Room.TxAttempts,
		RejoinTimeout: cfg.Room.RejoinTimeout,
		Notifier:      notifier,
	})

	// 其他實例的變更經由 LISTEN/NOTIFY 轉給本地訂閱者
	if pubsub != nil {
		go service.NewChangeRelay(pubsub, services.WebSocket).Run(ctx)
	}

	if cfg.Rounds.SeedFile != "" {
		n, err := services.Round.SeedFromFile(ctx, cfg.Rounds.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Rounds.SeedFile).Msg("failed to seed rounds")
		}
		log.Info().Int("rounds", n).Str("file", cfg.Rounds.SeedFile).Msg("rounds seeded")
	}

	// 設置 Gin 路由
	if !cfg.Log.Pretty {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
	}))
	api.SetupRoutes(r, services, api.RouteOptions{
		Tokens:         utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
		RateLimiter:    middleware.NewRateLimiter(cfg.Room.RateLimit, cfg.Room.RateBurst),
		PublicURL:      cfg.Server.PublicURL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// 啟動伺服器
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}
	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
