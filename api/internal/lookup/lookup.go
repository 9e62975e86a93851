// Package lookup is the job handler: it turns a stored search query and a page
// index into one delivered message.
package lookup

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"avbot/api/internal/cache"
	"avbot/api/internal/carousel"
	"avbot/api/internal/i18n"
	"avbot/api/internal/metrics"
	"avbot/api/internal/plate"
	"avbot/api/internal/platesmania"
	"avbot/api/internal/store"
	"avbot/api/internal/worker"
)

//go:embed assets/not-found.png
var notFoundPNG []byte

const placeholderKey = "placeholder:not-found"

// QueryStore - чтение сохранённых запросов.
type QueryStore interface {
	Get(ctx context.Context, id int64) (store.SearchQuery, error)
}

// PhotoSource скачивает фотографию по ссылке из результата поиска.
type PhotoSource interface {
	Photo(ctx context.Context, url string) ([]byte, error)
}

// Media - картинка для отправки: либо уже загруженный в Telegram file id, либо байты.
type Media struct {
	FileID string
	Data   []byte
	Name   string
}

// Deliverer - исходящая сторона транспорта. SendPhoto/EditPhoto возвращают file id
// доставленной картинки, чтобы его можно было переиспользовать.
type Deliverer interface {
	SendText(ctx context.Context, chatID int64, replyTo int, text string, markdown bool) error
	SendPhoto(ctx context.Context, chatID int64, replyTo int, photo Media, caption string, kb [][]carousel.Button) (string, error)
	EditPhoto(ctx context.Context, chatID int64, messageID int, photo Media, caption string, kb [][]carousel.Button) (string, error)
}

type Service struct {
	reg     *plate.Registry
	queries QueryStore
	cache   cache.Store
	photos  PhotoSource
	out     Deliverer
	log     zerolog.Logger

	searchTTL time.Duration
	mediaTTL  time.Duration
}

type Option func(*Service)

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// WithTTL задаёт время жизни кэша поиска и кэша file id.
func WithTTL(search, media time.Duration) Option {
	return func(s *Service) {
		s.searchTTL = search
		s.mediaTTL = media
	}
}

func New(reg *plate.Registry, queries QueryStore, c cache.Store, photos PhotoSource, out Deliverer, opts ...Option) *Service {
	s := &Service{
		reg:       reg,
		queries:   queries,
		cache:     c,
		photos:    photos,
		out:       out,
		log:       zerolog.Nop(),
		searchTTL: 5 * time.Minute,
		mediaTTL:  30 * time.Minute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Process implements worker.Handler.
func (s *Service) Process(ctx context.Context, job worker.Job) error {
	log := s.log.With().Str("job_id", job.ID).Int64("query_id", job.QueryID).Logger()

	sq, err := s.queries.Get(ctx, job.QueryID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn().Msg("search query not found")
		return s.out.SendText(ctx, job.ChatID, job.MessageID, i18n.T(job.Lang, "The query has expired, please send the plate again."), false)
	}
	if err != nil {
		return fmt.Errorf("load search query %d: %w", job.QueryID, err)
	}

	f, q, ok := s.reg.Restore(sq.NumType, sq.Text)
	if !ok {
		log.Error().Str("num_type", sq.NumType).Str("query", sq.Text).Msg("stored query no longer validates")
		return s.out.SendText(ctx, job.ChatID, job.MessageID, i18n.T(job.Lang, "The query has expired, please send the plate again."), false)
	}
	log = log.With().Str("num_type", f.NumType).Logger()

	res, cached, err := s.search(ctx, f, q, false)
	if err != nil {
		return err
	}

	switch {
	case res == nil:
		log.Info().Msg("no data")
		return s.out.SendText(ctx, job.ChatID, job.MessageID, f.NoData(job.Lang), false)
	case f.Mode == plate.ModeListing:
		// для списков счётчик страницы главнее карточек: «найдено 1 204» без карточек это результат
		text := f.WithResults(q, res, job.Lang)
		if res.TotalResults == 0 && len(res.Records) == 0 {
			text = f.NoResults(q, job.Lang)
		}
		return s.out.SendText(ctx, job.ChatID, job.MessageID, text, true)
	case res.Empty():
		return s.out.SendText(ctx, job.ChatID, job.MessageID, f.NoResults(q, job.Lang), false)
	}

	view, err := carousel.Render(f.DisplayQuery(q), res, job.Page)
	if errors.Is(err, carousel.ErrPageOutOfRange) {
		if cached {
			log.Info().Int("page", job.Page).Msg("page beyond cached result, refetching")
			fresh, _, ferr := s.search(ctx, f, q, true)
			if ferr != nil {
				return ferr
			}
			if !fresh.Empty() {
				res = fresh
			}
		}
		view, err = carousel.Render(f.DisplayQuery(q), res, carousel.Clamp(job.Page, len(res.Records)))
	}
	if err != nil {
		return err
	}

	return s.deliver(ctx, job, view, log)
}

// search - cache-aside поиск. fresh обходит кэш на чтение. cached сообщает,
// что результат взят из кэша.
func (s *Service) search(ctx context.Context, f *plate.Format, q plate.Query, fresh bool) (res *plate.Result, cached bool, err error) {
	key := cache.Key(cache.OpSearch, f.NumType, q.String())
	if !fresh {
		hit, ok, err := cache.GetJSON[*plate.Result](ctx, s.cache, key)
		switch {
		case err != nil:
			metrics.CacheError(cache.OpSearch)
			s.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		case ok && hit != nil:
			metrics.CacheHit(cache.OpSearch)
			return hit, true, nil
		default:
			metrics.CacheMiss(cache.OpSearch)
		}
	}

	res, err = f.Search(ctx, q)
	if err != nil {
		return nil, false, fmt.Errorf("search %s %q: %w", f.NumType, q, err)
	}
	if res != nil {
		if err := cache.SetJSON(ctx, s.cache, key, res, s.searchTTL); err != nil {
			metrics.CacheError(cache.OpSearch)
			s.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return res, false, nil
}

func (s *Service) deliver(ctx context.Context, job worker.Job, view carousel.View, log zerolog.Logger) error {
	media, mediaKey, err := s.media(ctx, view.Record.PhotoURL, log)
	if err != nil {
		return err
	}
	kb := carousel.Keyboard(job.QueryID, view.Pages)

	var fileID string
	if job.Edit {
		fileID, err = s.out.EditPhoto(ctx, job.ChatID, job.MessageID, media, view.Caption, kb)
	} else {
		fileID, err = s.out.SendPhoto(ctx, job.ChatID, job.MessageID, media, view.Caption, kb)
	}
	if err != nil {
		return fmt.Errorf("deliver photo: %w", err)
	}

	if media.FileID == "" && fileID != "" {
		if err := cache.SetJSON(ctx, s.cache, mediaKey, fileID, s.mediaTTL); err != nil {
			metrics.CacheError(cache.OpMedia)
			log.Warn().Err(err).Msg("media cache set failed")
		}
	}
	return nil
}

// media находит file id в кэше или скачивает фото. 404 заменяется встроенной заглушкой.
func (s *Service) media(ctx context.Context, photoURL string, log zerolog.Logger) (Media, string, error) {
	key := cache.Key(cache.OpMedia, photoURL)
	if m, ok := s.cachedMedia(ctx, key, log); ok {
		return m, key, nil
	}

	data, err := s.photos.Photo(ctx, photoURL)
	switch {
	case err == nil:
		return Media{Data: data, Name: "photo.jpg"}, key, nil
	case errors.Is(err, platesmania.ErrTransport):
		return Media{}, key, fmt.Errorf("load photo: %w", err)
	case !errors.Is(err, platesmania.ErrPhotoNotFound):
		log.Warn().Err(err).Str("url", photoURL).Msg("photo unavailable, using placeholder")
	}

	key = cache.Key(cache.OpMedia, placeholderKey)
	if m, ok := s.cachedMedia(ctx, key, log); ok {
		return m, key, nil
	}
	return Media{Data: notFoundPNG, Name: "not-found.png"}, key, nil
}

func (s *Service) cachedMedia(ctx context.Context, key string, log zerolog.Logger) (Media, bool) {
	fileID, ok, err := cache.GetJSON[string](ctx, s.cache, key)
	switch {
	case err != nil:
		metrics.CacheError(cache.OpMedia)
		log.Warn().Err(err).Msg("media cache get failed")
	case ok && fileID != "":
		metrics.CacheHit(cache.OpMedia)
		return Media{FileID: fileID}, true
	default:
		metrics.CacheMiss(cache.OpMedia)
	}
	return Media{}, false
}

// NotifyFailure implements worker.FailureNotifier.
func (s *Service) NotifyFailure(ctx context.Context, job worker.Job) error {
	return s.out.SendText(ctx, job.ChatID, job.MessageID,
		i18n.T(job.Lang, "Service is temporarily unavailable, please try again later."), false)
}
