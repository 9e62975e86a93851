package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"avbot/api/internal/app"
	"avbot/api/internal/config"
	"avbot/api/internal/httpserver"
	"avbot/api/internal/i18n"
	"avbot/api/internal/logger"
	"avbot/api/internal/recognize"
	"avbot/api/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	i18n.SetFallback(cfg.DefaultLang)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}
	defer deps.Close()

	r := &telegram.Router{
		Bot:      deps.Bot,
		Registry: deps.Registry,
		Users:    deps.Users,
		Queries:  deps.Queries,
		Jobs:     deps.Runner,
		Log:      log.With().Str("component", "router").Logger(),
	}
	if cfg.GeminiAPIKey != "" {
		r.Reader = recognize.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		log.Info().Str("model", cfg.GeminiModel).Msg("plate recognition enabled")
	}

	// DefaultServeMux: ListenForWebhook регистрирует обработчик туда же
	httpserver.Register(http.DefaultServeMux, deps.HealthChecks())
	addr := "0.0.0.0:" + cfg.Port

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return deps.Runner.Run(gctx) })
	g.Go(func() error { return deps.PurgeLoop(gctx, cfg.QueryRetention) })
	g.Go(func() error { return httpserver.StartHTTP(gctx, addr, http.DefaultServeMux, log) })

	handle := func(upd tgbotapi.Update) { r.HandleUpdate(gctx, upd) }
	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		updates, err := startWebhook(deps.Bot, webhookURL)
		if err != nil {
			log.Fatal().Err(err).Msg("set webhook")
		}
		log.Info().Str("addr", addr).Msg("webhook mode")
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case upd, ok := <-updates:
					if !ok {
						log.Warn().Msg("webhook updates channel closed")
						return nil
					}
					go handle(upd)
				}
			}
		})
	} else {
		if _, err := deps.Bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Warn().Err(err).Msg("delete webhook")
		}
		log.Info().Msg("polling mode")
		g.Go(func() error {
			runPolling(gctx, deps.Bot, log, handle)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("stopped with error")
		return
	}
	log.Info().Msg("stopped")
}

func startWebhook(bot *tgbotapi.BotAPI, baseURL string) (tgbotapi.UpdatesChannel, error) {
	// секретный путь вебхука
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		return nil, err
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		return nil, err
	}
	return bot.ListenForWebhook(path), nil
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 от Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

// runPolling - long polling с backoff; каждое обновление обрабатывается в своей горутине,
// поиск всё равно уходит в очередь.
func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, log zerolog.Logger, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for ctx.Err() == nil {
		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), baseDelay), maxDelay)
			log.Warn().Err(err).Dur("retry_in", d).Msg("polling error")
			wait(ctx, d)
			continue
		}
		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			go handle(upd)
		}
		if len(updates) == 0 {
			wait(ctx, 200*time.Millisecond)
		}
	}
	log.Info().Msg("polling: context cancelled")
}

func wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func shortHash(s string) string {
	// FNV-1a, стабильный для токена
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
