package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidhub/internal/api/handler"
	"github.com/d60-Lab/vidhub/internal/api/middleware"
	"github.com/d60-Lab/vidhub/internal/api/router"
	"github.com/d60-Lab/vidhub/internal/media"
	"github.com/d60-Lab/vidhub/internal/repository"
	"github.com/d60-Lab/vidhub/internal/service"
	"github.com/d60-Lab/vidhub/pkg/database"
	"github.com/d60-Lab/vidhub/pkg/logger"
	"github.com/d60-Lab/vidhub/pkg/tracing"
)

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("shutdown tracing", zap.Error(err))
		}
	}()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if autoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	store, err := media.NewStore(ctx, cfg.Media)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	var mediaDir string
	if local, ok := store.(*media.LocalStore); ok {
		mediaDir = local.Dir()
	}

	limiter, closeLimiter, err := newLimiter(ctx)
	if err != nil {
		return err
	}
	defer closeLimiter()

	if err := handler.RegisterValidators(); err != nil {
		return err
	}

	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	comments := repository.NewCommentRepository(db)
	tweets := repository.NewTweetRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	likes := repository.NewLikeRepository(db)
	playlists := repository.NewPlaylistRepository(db)

	h := handler.New(handler.Services{
		Engagement:    service.NewEngagementService(users, videos, comments, tweets, subs, likes),
		Channels:      service.NewChannelService(users, videos, comments, subs, likes),
		Videos:        service.NewVideoService(users, videos, subs, likes, store),
		Subscriptions: service.NewSubscriptionService(users, subs),
		Likes:         service.NewLikeService(users, likes),
		Feeds:         service.NewFeedService(users, videos, comments, tweets, likes),
		Playlists:     service.NewPlaylistService(users, videos, playlists),
	})

	engine := router.New(router.Options{
		Config:   cfg,
		DB:       db,
		Handler:  h,
		Auth:     middleware.NewAuthenticator(cfg.JWT.Secret, cfg.JWT.Issuer),
		Limiter:  limiter,
		MediaDir: mediaDir,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}

// newLimiter redis 可用时使用分布式固定窗口，否则退回进程内令牌桶
func newLimiter(ctx context.Context) (middleware.Limiter, func(), error) {
	noop := func() {}
	if !cfg.RateLimit.Enabled {
		return nil, noop, nil
	}
	if !cfg.Redis.Enabled {
		return middleware.NewLocalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst), noop, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, noop, err
	}
	return middleware.NewRedisLimiter(client, cfg.RateLimit.Burst, cfg.RateLimit.Window),
		func() { _ = client.Close() }, nil
}
