// Command worker обрабатывает задачи поиска из общей очереди Redis. Нужен, когда
// встроенного в бот пула мало: несколько воркеров читают одну очередь.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"avbot/api/internal/app"
	"avbot/api/internal/config"
	"avbot/api/internal/httpserver"
	"avbot/api/internal/i18n"
	"avbot/api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty).With().Str("role", "worker").Logger()
	i18n.SetFallback(cfg.DefaultLang)

	if cfg.RedisURL == "" {
		log.Fatal().Msg("REDIS_URL is required for a standalone worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}
	defer deps.Close()

	mux := http.NewServeMux()
	httpserver.Register(mux, deps.HealthChecks())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return deps.Runner.Run(gctx) })
	g.Go(func() error { return httpserver.StartHTTP(gctx, "0.0.0.0:"+cfg.Port, mux, log) })

	log.Info().Int("workers", cfg.Workers).Msg("worker started")
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("stopped with error")
		return
	}
	log.Info().Msg("stopped")
}
