// Package app собирает зависимости, общие для бота и воркера.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"avbot/api/internal/cache"
	"avbot/api/internal/config"
	"avbot/api/internal/httpserver"
	"avbot/api/internal/lookup"
	"avbot/api/internal/plate"
	"avbot/api/internal/plate/formats"
	"avbot/api/internal/platesmania"
	"avbot/api/internal/store"
	"avbot/api/internal/telegram"
	"avbot/api/internal/worker"
)

type Deps struct {
	Cfg *config.Config
	Log zerolog.Logger

	DB    *sql.DB
	Redis *redis.Client // nil без REDIS_URL

	Users   *store.UserRepo
	Queries *store.QueryRepo

	Cache    cache.Store
	Queue    worker.Queue
	Provider *platesmania.Client
	Registry *plate.Registry
	Bot      *tgbotapi.BotAPI
	Lookup   *lookup.Service
	Runner   *worker.Runner
}

// Open подключается к Postgres (с миграциями), Redis и Telegram и собирает конвейер поиска.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Deps, error) {
	d := &Deps{Cfg: cfg, Log: log}

	db, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	d.DB = db
	log.Info().Str("dsn", config.SafeDSN(cfg.DatabaseURL)).Msg("db connected")

	if err := store.Migrate(ctx, db); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	d.Users = store.NewUserRepo(db)
	d.Queries = store.NewQueryRepo(db)

	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.Redis = rdb
		d.Cache = cache.NewRedisStore(rdb)
		d.Queue = worker.NewRedisQueue(rdb, worker.DefaultQueueKey)
		log.Info().Msg("redis connected: shared cache and job queue")
	} else {
		d.Cache = cache.NewMemoryStore()
		d.Queue = worker.NewChanQueue(256)
		log.Warn().Msg("REDIS_URL is empty: in-process cache and job queue")
	}

	fetcher, err := platesmania.NewHTTPFetcher(cfg.FetchTimeout, cfg.FetchRPS, cfg.ProxyURL)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.Provider = platesmania.New(fetcher, platesmania.WithAPIKey(cfg.ANKey))
	d.Registry = formats.New(d.Provider)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("telegram: %w", err)
	}
	bot.Debug = false
	d.Bot = bot

	d.Lookup = lookup.New(d.Registry, d.Queries, d.Cache, d.Provider, telegram.NewSender(bot),
		lookup.WithLogger(log.With().Str("component", "lookup").Logger()),
		lookup.WithTTL(cfg.CacheSearchTTL, cfg.CacheMediaTTL),
	)
	d.Runner = worker.New(d.Queue, d.Lookup, d.Lookup,
		worker.WithWorkers(cfg.Workers),
		worker.WithTimeout(cfg.TaskTimeout),
		worker.WithRetryDelay(cfg.RetryDelay),
		worker.WithMaxRetries(cfg.MaxRetries),
		worker.WithRetryOn(platesmania.ErrTransport),
		worker.WithLogger(log.With().Str("component", "worker").Logger()),
	)
	return d, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	// пул под ~20 rps
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(1 * time.Hour)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// HealthChecks - проверки для /healthz.
func (d *Deps) HealthChecks() map[string]httpserver.Check {
	checks := map[string]httpserver.Check{"db": d.DB.PingContext}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	return checks
}

// PurgeLoop раз в час удаляет запросы старше retention; retention <= 0 выключает очистку.
func (d *Deps) PurgeLoop(ctx context.Context, retention time.Duration) error {
	if retention <= 0 {
		return nil
	}
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		n, err := d.Queries.PurgeOlderThan(ctx, retention)
		switch {
		case err != nil && ctx.Err() == nil:
			d.Log.Error().Err(err).Msg("purge old queries")
		case n > 0:
			d.Log.Info().Int64("deleted", n).Msg("old queries purged")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (d *Deps) Close() {
	if d.Queue != nil {
		_ = d.Queue.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
