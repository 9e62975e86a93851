package formats

import (
	"context"
	"strings"

	"avbot/api/internal/i18n"
	"avbot/api/internal/plate"
	"avbot/api/internal/platesmania"
)

var usSeries = plate.NewPattern(`^([a-z]{2})\s+([a-z]{3})$`, " ")

func usFormats(p Provider) []*plate.Format {
	seriesURL := func(q plate.Query) (string, string, string) {
		state, series := splitState(q)
		st := plate.USStates[state]
		return state, series, p.SeriesUSURL(st.RegionID, st.CType, series)
	}
	return []*plate.Format{
		listing(&plate.Format{
			NumType:     "us",
			Example:     "ny xxx",
			Description: "info about state plate series (possible states: pa, oh, nc, ny)",
			Fold:        plate.Lower,
			Validate: plate.Validator(plate.Lower, usSeries, func(groups []string) bool {
				_, ok := plate.USStates[groups[0]]
				return ok
			}),
			Search: func(ctx context.Context, q plate.Query) (*plate.Result, error) {
				state, series := splitState(q)
				st := plate.USStates[state]
				return p.Gallery(ctx, platesmania.GalleryParams{
					Country: US,
					CType:   st.CType,
					Region:  itoa(st.RegionID),
					Nomer:   series + " *",
				})
			},
			NoResults: func(q plate.Query, lang string) string {
				state, series, url := seriesURL(q)
				return i18n.T(lang, "There are no plates in the series [%s](%s) of the state `%s`", series, url, state)
			},
			WithResults: func(q plate.Query, res *plate.Result, lang string) string {
				state, series, url := seriesURL(q)
				return i18n.T(lang, "Pictures in the series [%s](%s) of the state `%s`: %d", series, url, state, res.TotalResults)
			},
		}),
	}
}

func splitState(q plate.Query) (state, series string) {
	state, series, _ = strings.Cut(q.String(), " ")
	return state, series
}
