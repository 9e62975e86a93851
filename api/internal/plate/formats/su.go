package formats

import (
	"avbot/api/internal/plate"
	"avbot/api/internal/platesmania"
)

var suPrivate = plate.NewPattern(`^([абвгдежзиклмнопрстуфхцчшщэюяі]{1})\s*(\d{4})\s*([абвгдежзиклмнопрстуфхцчшщэюяі]{2})$`, " ")

func suFormats(p Provider) []*plate.Format {
	return []*plate.Format{
		carousel(&plate.Format{
			NumType:     "su",
			Example:     "а0069МО",
			Description: "private vehicles (1980) 🚗",
			Fold:        plate.ToUkrainianI,
			Validate:    plate.Validator(plate.ToUkrainianI, suPrivate, nil),
			Search:      gallerySearch(p, SU, platesmania.CTypeSUPrivateVehicles1980),
		}),
	}
}
