package dto

import (
	"encoding/json"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/pkg/validator"
)

const maxFare = 100000

func ValidateSave(v *validator.Validator, req *models.SaveRequest) {
	v.Check(validator.Between(req.TotalFare, 0, maxFare), "total_fare", "must be between 0 and 100000")
	v.Check(validator.Between(req.TrikeFare, 0, maxFare), "trike_fare", "must be between 0 and 100000")
	v.Check(req.TrikeFare <= req.TotalFare, "trike_fare", "must not exceed total_fare")
	if req.FareDetails != "" {
		v.Check(json.Valid([]byte(req.FareDetails)), "fare_details", "must be a JSON document")
	}
}
