package platesmania

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"avbot/api/internal/metrics"
)

// ErrTransport marks retryable failures: the network, timeouts, 5xx and 429.
var ErrTransport = errors.New("platesmania: transport failure")

// ErrPhotoNotFound - картинка удалена с сервера (404).
var ErrPhotoNotFound = errors.New("platesmania: photo not found")

// Fetcher - HTTP-доступ к удалённому сайту. Как обходится защита от ботов, здесь не важно:
// нужен только статус и тело ответа.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) (status int, body []byte, err error)
}

// HTTPFetcher - Fetcher поверх net/http с ограничением частоты запросов.
type HTTPFetcher struct {
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher creates a fetcher; rps <= 0 disables the limiter, proxyURL may be empty.
func NewHTTPFetcher(timeout time.Duration, rps float64, proxyURL string) (*HTTPFetcher, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		pu, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		tr.Proxy = http.ProxyURL(pu)
	}
	f := &HTTPFetcher{
		httpc: &http.Client{Timeout: timeout, Transport: tr},
	}
	if rps > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return f, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) (int, []byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	// заголовки как у обычного браузера
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := f.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// fetch вызывает Fetcher, меряет задержку и раскладывает сбои на транспортные и прочие.
func (c *Client) fetch(ctx context.Context, endpoint, rawURL string, params url.Values) (int, []byte, error) {
	start := time.Now()
	status, body, err := c.fetcher.Fetch(ctx, rawURL, params)
	label := strconv.Itoa(status)
	if err != nil {
		label = "error"
	}
	metrics.ProviderDuration.WithLabelValues(endpoint, label).Observe(time.Since(start).Seconds())

	if err != nil {
		return status, nil, fmt.Errorf("%w: %s: %v", ErrTransport, endpoint, err)
	}
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return status, nil, fmt.Errorf("%w: %s: status %d", ErrTransport, endpoint, status)
	}
	return status, body, nil
}
