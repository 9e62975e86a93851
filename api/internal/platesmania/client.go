package platesmania

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"avbot/api/internal/plate"
)

const (
	defaultBaseURL = "https://platesmania.com"
	defaultAPIURL  = "https://avto-nomer.ru/mobile/api_photo.php"
)

// Типы номеров (ctype) в галерее.
const (
	CTypeRUCars            = 1
	CTypeRUTrailers        = 2
	CTypeRUSpecialVehicles = 3
	CTypeRUMotorcycles     = 4
	CTypeRUNewTransit      = 5
	CTypeRUPublicTransport = 6
	CTypeRUPoliceVehicles  = 7

	CTypeSUPrivateVehicles1980 = 1
	CTypeUARegularPlates2004   = 1
	CTypeKZPrivateVehicles2012 = 1
	CTypeUZPrivateVehicles     = 1
	CTypeGEVehicles2014        = 1
)

// TagNewLetterCombination - фильтр галереи «новое буквосочетание».
const TagNewLetterCombination = 14

// GalleryParams - фильтры страницы gallery.php.
type GalleryParams struct {
	Country    string
	CType      int
	Nomer      string
	FastSearch string
	Region     string
	Tags       []int
}

func (p GalleryParams) values() url.Values {
	v := url.Values{}
	v.Set("gal", p.Country)
	if p.CType > 0 {
		v.Set("ctype", strconv.Itoa(p.CType))
	}
	if p.Nomer != "" {
		v.Set("nomer", p.Nomer)
	}
	if p.FastSearch != "" {
		v.Set("fastsearch", p.FastSearch)
	}
	if p.Region != "" {
		v.Set("region", p.Region)
	}
	for _, t := range p.Tags {
		v.Add("tags[]", strconv.Itoa(t))
	}
	return v
}

// Client ходит на platesmania.com (разметка) и в мобильный API avto-nomer.ru (JSON).
type Client struct {
	fetcher Fetcher
	baseURL string
	apiURL  string
	apiKey  string
	log     zerolog.Logger
}

type Option func(*Client)

// WithAPIKey включает JSON API для российских легковых номеров.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithBaseURL переопределяет адрес галереи (тесты, зеркала).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAPIURL переопределяет адрес JSON API.
func WithAPIURL(u string) Option {
	return func(c *Client) { c.apiURL = u }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(f Fetcher, opts ...Option) *Client {
	c := &Client{fetcher: f, baseURL: defaultBaseURL, apiURL: defaultAPIURL, log: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) galleryURL(country string) string {
	return c.baseURL + "/" + country + "/gallery.php"
}

// Gallery ищет по странице галереи. nil без ошибки означает, что сайт ответил,
// но контейнера результатов на странице нет.
func (c *Client) Gallery(ctx context.Context, p GalleryParams) (*plate.Result, error) {
	pageURL := c.galleryURL(p.Country)
	status, body, err := c.fetch(ctx, "gallery", pageURL, p.values())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}
	base, _ := url.Parse(pageURL)
	res, err := parseGallery(body, base)
	if err != nil {
		c.log.Warn().Err(err).Str("country", p.Country).Msg("unparseable gallery page")
		return nil, nil
	}
	return res, nil
}

// PhotoAPI ищет номер через JSON API; без ключа возвращает nil. Ответ не в JSON
// (заглушка антибота, техработы) тоже nil: данных нет, но это не сбой транспорта.
func (c *Client) PhotoAPI(ctx context.Context, nomer string) (*plate.Result, error) {
	if c.apiKey == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("gal", "1")
	params.Set("nomer", nomer)
	status, body, err := c.fetch(ctx, "api_photo", c.apiURL, params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}
	res, err := parsePhotoAPI(body)
	if err != nil {
		c.log.Warn().Err(err).Msg("unparseable api_photo answer")
		return nil, nil
	}
	return res, nil
}

// HasAPIKey сообщает, доступен ли JSON API.
func (c *Client) HasAPIKey() bool { return c.apiKey != "" }

// Photo скачивает картинку для отправки в чат.
func (c *Client) Photo(ctx context.Context, photoURL string) ([]byte, error) {
	status, body, err := c.fetch(ctx, "photo", secureURL(nil, photoURL), nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, ErrPhotoNotFound
	case status != http.StatusOK:
		return nil, &StatusError{Code: status}
	}
	return body, nil
}

// SeriesRUURL - ссылка на галерею серии российских номеров, например "ack13" -> a*ck13.
func (c *Client) SeriesRUURL(series string) string {
	v := url.Values{}
	v.Set("fastsearch", series[:1]+"*"+series[1:])
	return c.galleryURL("ru") + "?" + v.Encode()
}

// SeriesUSURL - ссылка на галерею серии номеров штата.
func (c *Client) SeriesUSURL(regionID, ctype int, series string) string {
	v := url.Values{}
	v.Set("gal", "us")
	v.Set("region", strconv.Itoa(regionID))
	v.Set("ctype", strconv.Itoa(ctype))
	v.Set("nomer", series+" *")
	return c.galleryURL("us") + "?" + v.Encode()
}

// StatusError - неожиданный (не транспортный) HTTP-статус.
type StatusError struct{ Code int }

func (e *StatusError) Error() string { return "platesmania: unexpected status " + strconv.Itoa(e.Code) }

// secureURL приводит ссылку к https и разрешает относительные пути от base.
func secureURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if !u.IsAbs() && base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme == "http" || u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String()
}
