package query

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("latitude_range", validateLatitude)
	validate.RegisterValidation("longitude_range", validateLongitude)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180.0 && lon <= 180.0
}

type queryBounds struct {
	Latitude  float64 `validate:"latitude_range"`
	Longitude float64 `validate:"longitude_range"`
	Days      int     `validate:"min=1,max=7"`
}

func validateRanges(q ForecastQuery) error {
	b := queryBounds{
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		Days:      q.Days,
	}

	err := validate.Struct(b)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return invalid("invalid query")
	}

	switch errs[0].Field() {
	case "Latitude":
		return invalid("lat must be in range -90..90")
	case "Longitude":
		return invalid("lon must be in range -180..180")
	case "Days":
		return invalid("days must be in range 1..7")
	default:
		return invalid("invalid query")
	}
}
