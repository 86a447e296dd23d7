package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/trivia-bot/internal/config"
	"github.com/aliskhannn/trivia-bot/internal/delivery/telegram"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres/repository"
	redisinfra "github.com/aliskhannn/trivia-bot/internal/infra/redis"
	"github.com/aliskhannn/trivia-bot/internal/logger"
	"github.com/aliskhannn/trivia-bot/internal/service"
	"github.com/aliskhannn/trivia-bot/internal/storage"
	"github.com/aliskhannn/trivia-bot/internal/trivia"
	"github.com/aliskhannn/trivia-bot/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tgbotapi.SetLogger(zap.NewStdLog(lg.Named("tgbotapi"))); err != nil {
		return err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Debug
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	// Question service.
	client, err := trivia.NewClient(trivia.Options{
		BaseURL:         cfg.Trivia.BaseURL,
		Timeout:         cfg.Trivia.Timeout,
		WithCredentials: cfg.Trivia.WithCredentials,
	})
	if err != nil {
		return err
	}

	// Results storage.
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	tr := postgres.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	resultRepo := repository.NewResultRepository(pool)

	// Optional leaderboard.
	var leaderboard service.Leaderboard
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		leaderboard = redisinfra.NewLeaderboard(rdb, cfg.Redis.Key)
		lg.Info("leaderboard enabled", zap.String("key", cfg.Redis.Key))
	}

	userService := service.NewUserService(userRepo)
	resultService := service.NewResultService(tr, userRepo, resultRepo, leaderboard, lg)
	resetService := service.NewResetService(tr, leaderboard)

	chats := storage.NewChatStore(func(chatID int64) *storage.ChatState {
		return &storage.ChatState{
			List:   view.NewQuestionList(client, cfg.Trivia.PageSize),
			Search: &view.SearchBox{},
			Form:   view.NewQuestionForm(client),
			Quiz:   view.NewQuiz(client, cfg.Quiz.Rounds),
		}
	})
	sweeper := service.NewSweeperService(chats, cfg.Session.IdleTimeout, cfg.Session.SweepSpec, lg)

	handler := telegram.NewHandler(
		bot,
		lg,
		chats,
		userService,
		resultService,
		resetService,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Run(gctx)
	})
	g.Go(func() error {
		return sweeper.Start(gctx)
	})

	err = g.Wait()
	bot.StopReceivingUpdates()
	lg.Info("shutdown complete")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
