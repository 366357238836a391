package main

import (
	"context"
	"errors"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"procurement_evaluation_system/configs"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/di"
	"procurement_evaluation_system/internal/evaluation"
	tgbot "procurement_evaluation_system/internal/tg_bot"
	"syscall"
	"time"
)

type lapsedCloser interface {
	CloseLapsedOpportunities(ctx context.Context) ([]*models.Opportunity, error)
}

func main() {
	config, err := configs.LoadDeadlineServiceConfig()
	logger := di.NewLogger(config.App, config.Logger)

	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	logger.Info("config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting store")
	store, closer, err := di.NewStore(ctx, config.App, config.DB, config.SQLite, logger)
	if err != nil {
		logger.Fatalw("failed to start store", "error", err)
	}
	defer closer.Close()
	logger.Info("store started")

	engine := evaluation.NewEngine(store, evaluation.Config{LockTimeout: config.Engine.LockTimeout}, logger, newNotifier(config.Telegram, logger))

	server := newHealthCheckServer(config.Scheduler.HealthCheckAddr)
	go func() {
		logger.Infow("setting up health check server", "addr", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("failed to start http server", "error", err)
		}
	}()

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Cron(config.Scheduler.Cron).Do(func() { closeLapsed(ctx, engine, logger) }); err != nil {
		logger.Fatalw("failed to schedule deadline job", "cron", config.Scheduler.Cron, "error", err)
	}
	s.StartAsync()
	logger.Infow("deadline job scheduled", "cron", config.Scheduler.Cron)

	<-ctx.Done()
	s.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("failed to shutdown http server", "error", err)
		return
	}

	logger.Info("shutting down")
}

// newNotifier returns nil when Telegram is not configured; the engine then skips notifications.
func newNotifier(config configs.Telegram, logger *zap.SugaredLogger) evaluation.Notifier {
	if !config.Enabled() {
		logger.Info("telegram notifications disabled")
		return nil
	}

	notifier, err := tgbot.NewNotifier(config, logger)
	if err != nil {
		logger.Errorw("could not create bot, notifications disabled", "error", err)
		return nil
	}
	return notifier
}

// closeLapsed moves every opportunity past its proposal deadline into evaluation and
// returns how many moved.
func closeLapsed(ctx context.Context, closer lapsedCloser, logger *zap.SugaredLogger) int {
	logger.Info("closing lapsed opportunities")

	closed, err := closer.CloseLapsedOpportunities(ctx)
	if err != nil {
		logger.Errorw("failed to close some opportunities", "error", err)
	}

	if len(closed) == 0 {
		logger.Info("no opportunities to close")
		return 0
	}

	for _, o := range closed {
		logger.Infow("opportunity closed for submissions", "opportunity_id", o.ID, "title", o.Title)
	}
	return len(closed)
}

func newHealthCheckServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/deadline-service/healthcheck", healthCheckHandler)

	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("I'm alive"))
}
