package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-community-bot/internal/application"
	"telegram-community-bot/internal/config"
	"telegram-community-bot/internal/domain/ports/adapter"
	tele "telegram-community-bot/internal/infra/adapters/telegram"
	pg "telegram-community-bot/internal/infra/db/postgres"
	"telegram-community-bot/internal/infra/logging"
	"telegram-community-bot/internal/infra/metrics"
	red "telegram-community-bot/internal/infra/redis"
	"telegram-community-bot/internal/infra/sched"
	"telegram-community-bot/internal/infra/web"
	"telegram-community-bot/internal/infra/worker"
	"telegram-community-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	groupRepo := pg.NewPostgresGroupRepo(pool)
	userRepo := pg.NewPostgresUserRepo(pool)

	// ---- Telegram client ----
	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	client := tele.NewClient(botAPI)

	// outbound port: the noop adapter keeps handlers runnable without
	// touching the platform
	var outbound adapter.TelegramBotAdapter = client
	if cfg.Bot.Mode == "noop" {
		logger.Warn().Msg("noop bot mode: outbound telegram calls are discarded")
		outbound = tele.NoopBot{}
	}

	// ---- Mirror warm-up from the durable store ----
	mirror := usecase.NewActivationMirror()
	if ids, err := groupRepo.ListActivatedIDs(ctx); err != nil {
		logger.Warn().Err(err).Msg("mirror warm-up failed; starting cold")
	} else {
		mirror.Warm(ids)
		logger.Info().Int("groups", len(ids)).Msg("activation mirror warmed")
	}

	// ---- Background machinery ----
	runner := sched.NewTimerRunner(ctx)
	cleanupPool := worker.NewPool(cfg.Report.CleanupWorkers, logger)
	cleanupPool.Start(ctx)

	// ---- Use cases ----
	priv := usecase.NewPrivilegeCheck(outbound)
	accessUC := usecase.NewAccessUseCase(groupRepo, userRepo, mirror, logger)
	registrationUC := usecase.NewRegistrationUseCase(userRepo, groupRepo, logger)
	activationUC := usecase.NewActivationUseCase(groupRepo, userRepo, outbound, priv, mirror, cfg.Activation.GroupPassword, logger)
	echoUC := usecase.NewEchoUseCase(outbound, runner, priv, logger)
	reportUC := usecase.NewReportUseCase(groupRepo, outbound, runner, cleanupPool, cfg.Report.CleanupDelay, logger)
	broadcastUC := usecase.NewBroadcastUseCase(userRepo, outbound, priv, cfg.Broadcast.Throttle, logger)

	facade := application.NewBotFacade(accessUC, registrationUC, activationUC, echoUC, reportUC, broadcastUC)

	// ---- Polling ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(cfg, botAPI, outbound, facade, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram adapter")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin / health HTTP ----
	adminSrv := web.NewServer(cfg.Admin.Port, logger)
	go func() {
		if err := adminSrv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = adminSrv.Shutdown(context.Background())
	cleanupPool.Stop()
}
