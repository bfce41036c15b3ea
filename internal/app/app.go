package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/orgball2608/events-telegram-bot/internal/blob"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/command"
	"github.com/orgball2608/events-telegram-bot/internal/command/commandimpl"
	"github.com/orgball2608/events-telegram-bot/internal/feed"
	"github.com/orgball2608/events-telegram-bot/internal/likes"
	"github.com/orgball2608/events-telegram-bot/internal/migrations"
	"github.com/orgball2608/events-telegram-bot/internal/moderation"
	"github.com/orgball2608/events-telegram-bot/internal/ratelimit"
	"github.com/orgball2608/events-telegram-bot/internal/reaper"
	"github.com/orgball2608/events-telegram-bot/internal/render"
	repositories "github.com/orgball2608/events-telegram-bot/internal/repositories/fx"
	"github.com/orgball2608/events-telegram-bot/internal/session"
	"github.com/orgball2608/events-telegram-bot/internal/telegram"
	"github.com/orgball2608/events-telegram-bot/internal/telegram/telegramimpl"
	"github.com/orgball2608/events-telegram-bot/internal/wizard"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/orgball2608/events-telegram-bot/pkg/pgx"
	"github.com/orgball2608/events-telegram-bot/pkg/redis"
	"go.uber.org/fx"
)

var App = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		redis.New,
		calendar.NewFromConfig,
		render.New,
		session.NewKeyLock,
	),
	fx.Provide(
		fx.Annotate(
			session.NewRedisFromConfig,
			fx.As(new(session.Store)),
		),
		fx.Annotate(
			blob.NewFSFromConfig,
			fx.As(new(blob.Store)),
		),
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			ratelimit.NewFromConfig,
			fx.As(new(ratelimit.Limiter)),
		),
		fx.Annotate(
			reaper.NewFromConfig,
			fx.As(fx.Self(), new(moderation.Purger)),
		),
		fx.Annotate(
			moderation.New,
			fx.As(new(moderation.Handoff), new(commandimpl.Reviewer)),
		),
		wizard.New,
		feed.NewFromConfig,
		likes.New,
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate brings the schema up to date before anything touches the pool.
func migrate(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			db, err := sql.Open("postgres", cfg.GetDSN())
			if err != nil {
				return fmt.Errorf("failed to open database for migrations: %w", err)
			}
			defer db.Close()

			if err := migrations.Up(ctx, db, "."); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			log.Info("Database migrations applied")
			return nil
		},
	})
}

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, log logger.Logger, cfg *config.Config,
	cmdClient command.Client, sweeper *reaper.Reaper, handoff moderation.Handoff) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           healthMux(log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := handoff.Ready(); err != nil {
				log.Warn("Moderation chat is not configured, new posts will be refused", "error", err)
			}

			go startHttpServer(srv, log)

			if err := sweeper.Start(ctx); err != nil {
				return err
			}

			go func() {
				defer close(done)
				if err := cmdClient.HandleCommand(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("Command handler stopped", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()

			select {
			case <-done:
			case <-stopCtx.Done():
				log.Warn("Timed out waiting for in-flight updates")
			}

			if err := sweeper.Stop(); err != nil {
				log.Error("Failed to stop retention reaper", "error", err)
			}
			return srv.Shutdown(stopCtx)
		},
	})
}

func healthMux(log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})
	return mux
}

func startHttpServer(srv *http.Server, log logger.Logger) {
	log.Info("Starting server", "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed to start", "error", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Debug("Health check request received", "method", r.Method, "url", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "error", err)
	}
}
