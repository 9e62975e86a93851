package formats

import (
	"strconv"

	"avbot/api/internal/plate"
	"avbot/api/internal/platesmania"
)

var (
	uaRegular = plate.NewPattern(`^([a-z]{2})\s*(\d{4})\s*([a-z]{2})$`, " ")
	kzPrivate = plate.NewPattern(`^(\d{3})\s*([a-z]{3})\s*(\d{2})$`, " ")
	uzPrivate = plate.NewPattern(`^(\d{2})\s*([a-z]{1})\s*(\d{3})\s*([a-z]{2})$`, " ")
	geVehicle = plate.NewPattern(`^([a-z]{2})-(\d{3})-([a-z]{2})$`, "-")
)

func uaFormats(p Provider) []*plate.Format {
	return []*plate.Format{
		carousel(&plate.Format{
			NumType:     "ua",
			Example:     "aa1234bb",
			Description: "regular plates (2004)",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, uaRegular, nil),
			Search:      gallerySearch(p, UA, platesmania.CTypeUARegularPlates2004),
		}),
	}
}

func kzFormats(p Provider) []*plate.Format {
	return []*plate.Format{
		carousel(&plate.Format{
			NumType:     "kz",
			Example:     "453dxa12",
			Description: "private vehicle plate (2012)",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, kzPrivate, nil),
			Search:      gallerySearch(p, KZ, platesmania.CTypeKZPrivateVehicles2012),
		}),
	}
}

func uzFormats(p Provider) []*plate.Format {
	return []*plate.Format{
		carousel(&plate.Format{
			NumType:     "uz",
			Example:     "01p347ta",
			Description: "private vehicle plate",
			Fold:        plate.ToLatin,
			Validate:    plate.Validator(plate.ToLatin, uzPrivate, nil),
			Search:      gallerySearch(p, UZ, platesmania.CTypeUZPrivateVehicles),
		}),
	}
}

func geFormats(p Provider) []*plate.Format {
	return []*plate.Format{
		carousel(&plate.Format{
			NumType:     "ge",
			Example:     "af-235-fa",
			Description: "vehicle plate (2014)",
			Fold:        plate.Lower,
			Validate:    plate.Validator(plate.Lower, geVehicle, nil),
			Search:      gallerySearch(p, GE, platesmania.CTypeGEVehicles2014),
		}),
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
