package httpserver

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Check - проверка зависимости для /healthz (db, redis).
type Check func(ctx context.Context) error

// Register вешает /healthz и /metrics на mux. Для вебхука нужен
// http.DefaultServeMux: tgbotapi.ListenForWebhook регистрирует обработчик там же.
func Register(mux *http.ServeMux, checks map[string]Check) {
	mux.Handle("/healthz", Health(checks))
	mux.Handle("/metrics", promhttp.Handler())
}

// Health отвечает 200 "ok", если все проверки прошли, иначе 503 со списком упавших.
func Health(checks map[string]Check) http.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var failed []string
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				failed = append(failed, name+": not ok\n"+err.Error())
			}
		}
		if len(failed) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(strings.Join(failed, "\n")))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// StartHTTP блокируется до остановки ctx.
func StartHTTP(ctx context.Context, addr string, h http.Handler, log zerolog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	log.Info().Str("addr", addr).Msg("http listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
