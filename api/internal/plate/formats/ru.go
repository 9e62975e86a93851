package formats

import (
	"context"

	"avbot/api/internal/i18n"
	"avbot/api/internal/plate"
	"avbot/api/internal/platesmania"
)

var (
	ruVehicle = plate.NewPattern(`^([abekmhopctyx]{1})\s*(\d{3})\s*([abekmhopctyx]{2})\s*(\d{2,3})$`, " ")
	ruTrailer = plate.NewPattern(`^([abekmhopctyx]{2})\s*(\d{4})\s*(\d{2})$`, " ")
	ruSpecial = plate.NewPattern(`^(\d{4})\s*([abekmhopctyx]{2})\s*(\d{2})$`, " ")
	ruTransit = plate.NewPattern(`^([abekmhopctyx]{2})\s*(\d{3})\s*([abekmhopctyx]{1})\s*(\d{2})$`, " ")
	ruPublic  = plate.NewPattern(`^([abekmhopctyx]{2})\s*(\d{3})\s*(\d{2})$`, " ")
	ruPolice  = plate.NewPattern(`^([abekmhopctyx]{1})\s*(\d{4})\s*(\d{2})$`, " ")
	ruRegion  = plate.NewPattern(`^ru(\d{2,3})$`, "")
	ruSeries  = plate.NewPattern(`^([abekmhopctyx]{1})[\s\*]*([abekmhopctyx]{2})(\d{2,3})$`, "")
)

// knownRegion проверяет группу с кодом региона по справочнику.
func knownRegion(idx int) func([]string) bool {
	return func(groups []string) bool {
		_, ok := plate.RuRegions[groups[idx]]
		return ok
	}
}

func ruFormats(p Provider) []*plate.Format {
	return []*plate.Format{
		ruCarousel(&plate.Format{
			NumType:     "ru",
			Example:     "а123аа777",
			Description: "vehicle plate 🚗",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, ruVehicle, nil),
			Search:      ruVehicleSearch(p),
		}),
		ruCarousel(&plate.Format{
			NumType:     "ru-trailer",
			Example:     "ан239936",
			Description: "trailer plate",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, ruTrailer, nil),
			Search:      gallerySearch(p, RU, platesmania.CTypeRUTrailers),
		}),
		ruCarousel(&plate.Format{
			NumType:     "ru-spec",
			Example:     "4197хк47",
			Description: "special vehicle plate 🚜",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, ruSpecial, nil),
			Search:      gallerySearch(p, RU, platesmania.CTypeRUSpecialVehicles),
		}),
		// тот же шаблон, что у спецтехники: такие запросы всегда неоднозначны
		ruCarousel(&plate.Format{
			NumType:     "ru-moto",
			Example:     "7851аа40",
			Description: "motorcycle plate 🏍",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, ruSpecial, nil),
			Search:      gallerySearch(p, RU, platesmania.CTypeRUMotorcycles),
		}),
		ruCarousel(&plate.Format{
			NumType:     "ru-transit",
			Example:     "нт005х77",
			Description: "transit plate",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, ruTransit, nil),
			Search:      gallerySearch(p, RU, platesmania.CTypeRUNewTransit),
		}),
		ruCarousel(&plate.Format{
			NumType:     "ru-pt",
			Example:     "аа12377",
			Description: "public transport plate 🚌",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, ruPublic, nil),
			Search:      gallerySearch(p, RU, platesmania.CTypeRUPublicTransport),
		}),
		ruCarousel(&plate.Format{
			NumType:     "ru-police",
			Example:     "с201799",
			Description: "police vehicles plate 🚓",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, ruPolice, nil),
			Search:      gallerySearch(p, RU, platesmania.CTypeRUPoliceVehicles),
		}),
		listing(&plate.Format{
			NumType:     "ru-region",
			Example:     "ru37",
			Description: "info about region",
			Fold:        plate.Lower,
			Validate:    plate.WithPrefix("ru", plate.Validator(plate.Lower, ruRegion, knownRegion(0))),
			Search:      ruRegionSearch(p),
			NoResults:   ruRegionTitle,
			WithResults: func(q plate.Query, res *plate.Result, lang string) string {
				return withLines(ruRegionTitle(q, lang), i18n.T(lang, "Latest series:"), res)
			},
		}),
		listing(&plate.Format{
			NumType:     "ru-series",
			Example:     "ааа777",
			Description: "info about vehicle plate series",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, ruSeries, knownRegion(2)),
			Search:      ruSeriesSearch(p),
			NoResults: func(q plate.Query, lang string) string {
				s := q.String()
				return i18n.T(lang, "No plates in the series [%s](%s) yet", plate.ToCyrillic(s), p.SeriesRUURL(s))
			},
			WithResults: func(q plate.Query, res *plate.Result, lang string) string {
				s := q.String()
				head := i18n.T(lang, "Pictures in the series [%s](%s): %d", plate.ToCyrillic(s), p.SeriesRUURL(s), res.TotalResults)
				return withLines(head, i18n.T(lang, "Latest plates:"), res)
			},
		}),
	}
}

// ruVehicleSearch идёт в JSON API, если есть ключ, иначе в галерею.
func ruVehicleSearch(p Provider) func(context.Context, plate.Query) (*plate.Result, error) {
	gallery := gallerySearch(p, RU, platesmania.CTypeRUCars)
	return func(ctx context.Context, q plate.Query) (*plate.Result, error) {
		if p.HasAPIKey() {
			return p.PhotoAPI(ctx, compact(q.String()))
		}
		return gallery(ctx, q)
	}
}

func regionCode(q plate.Query) string { return q.String()[len("ru"):] }

func ruRegionSearch(p Provider) func(context.Context, plate.Query) (*plate.Result, error) {
	return func(ctx context.Context, q plate.Query) (*plate.Result, error) {
		return p.Gallery(ctx, platesmania.GalleryParams{
			Country: RU,
			CType:   platesmania.CTypeRUCars,
			Region:  regionCode(q),
			Tags:    []int{platesmania.TagNewLetterCombination},
		})
	}
}

func ruRegionTitle(q plate.Query, lang string) string {
	code := regionCode(q)
	return i18n.T(lang, "Region *%s* - %s", code, plate.RuRegions[code])
}

func ruSeriesSearch(p Provider) func(context.Context, plate.Query) (*plate.Result, error) {
	return func(ctx context.Context, q plate.Query) (*plate.Result, error) {
		s := q.String()
		return p.Gallery(ctx, platesmania.GalleryParams{
			Country:    RU,
			CType:      platesmania.CTypeRUCars,
			FastSearch: s[:1] + "*" + s[1:],
		})
	}
}
