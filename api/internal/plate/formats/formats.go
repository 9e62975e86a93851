// Package formats registers every supported plate format and binds it to the
// platesmania search operations.
package formats

import (
	"context"
	"fmt"
	"strings"

	"avbot/api/internal/i18n"
	"avbot/api/internal/plate"
	"avbot/api/internal/platesmania"
	"avbot/api/internal/util"
)

// Provider - то, что форматам нужно от клиента platesmania.
type Provider interface {
	Gallery(ctx context.Context, p platesmania.GalleryParams) (*plate.Result, error)
	PhotoAPI(ctx context.Context, nomer string) (*plate.Result, error)
	HasAPIKey() bool
	SeriesRUURL(series string) string
	SeriesUSURL(regionID, ctype int, series string) string
}

// Country codes in the order they are offered to the user.
const (
	RU = "ru"
	SU = "su"
	US = "us"
	UA = "ua"
	KZ = "kz"
	UZ = "uz"
	GE = "ge"
)

var countryNames = map[string]string{
	RU: "Russia",
	SU: "Soviet Union",
	US: "United States",
	UA: "Ukraine",
	KZ: "Kazakhstan",
	UZ: "Uzbekistan",
	GE: "Georgia",
}

// CountryName returns the localized country title.
func CountryName(country, lang string) string {
	name, ok := countryNames[country]
	if !ok {
		return strings.ToUpper(country)
	}
	return i18n.T(lang, name)
}

// New builds the registry. Registration order defines classifier order.
func New(p Provider) *plate.Registry {
	reg := plate.NewRegistry()
	reg.Register(RU, ruFormats(p)...)
	reg.Register(SU, suFormats(p)...)
	reg.Register(US, usFormats(p)...)
	reg.Register(UA, uaFormats(p)...)
	reg.Register(KZ, kzFormats(p)...)
	reg.Register(UZ, uzFormats(p)...)
	reg.Register(GE, geFormats(p)...)
	return reg
}

func noData(lang string) string { return i18n.T(lang, "No data") }

func nothingFound(_ plate.Query, lang string) string { return i18n.T(lang, "Nothing found") }

// carousel заполняет общие для галерейных форматов поля.
func carousel(f *plate.Format) *plate.Format {
	f.Mode = plate.ModeCarousel
	f.NoData = noData
	if f.NoResults == nil {
		f.NoResults = nothingFound
	}
	return f
}

// ruCarousel - галерейный российский формат, подписи кириллицей.
func ruCarousel(f *plate.Format) *plate.Format {
	f.Display = plate.ToCyrillic
	return carousel(f)
}

func listing(f *plate.Format) *plate.Format {
	f.Mode = plate.ModeListing
	f.NoData = noData
	return f
}

// gallerySearch ищет канонический запрос в галерее страны без пробелов.
func gallerySearch(p Provider, country string, ctype int) func(context.Context, plate.Query) (*plate.Result, error) {
	return func(ctx context.Context, q plate.Query) (*plate.Result, error) {
		return p.Gallery(ctx, platesmania.GalleryParams{
			Country: country,
			CType:   ctype,
			Nomer:   compact(q.String()),
		})
	}
}

func compact(s string) string { return strings.ReplaceAll(s, " ", "") }

// recordLines рендерит «• 01.01.2021 /A123AA37 - Lada 2107» для списка.
// withLines добавляет к заголовку список карточек; без карточек остаётся один заголовок.
func withLines(head, title string, res *plate.Result) string {
	if len(res.Records) == 0 {
		return head
	}
	return head + "\n\n" + title + "\n" + recordLines(res)
}

func recordLines(res *plate.Result) string {
	lines := make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		date := "-"
		if !r.Date.IsZero() {
			date = r.Date.Format("02.01.2006")
		}
		lines = append(lines, fmt.Sprintf("• %s /%s - %s",
			date,
			strings.ToUpper(plate.ToLatin(compact(r.LicensePlate))),
			util.EscMarkdown(strings.TrimSpace(r.Make+" "+r.Model)),
		))
	}
	return strings.Join(lines, "\n")
}
