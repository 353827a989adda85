package models

import (
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/types"
)

type FareSegment struct {
	Description string  `json:"description"`
	Vehicle     string  `json:"vehicle"`
	Fare        float64 `json:"fare"`
}

// FareResult is one priced route. TotalFare is the segment sum plus TrikeFare.
type FareResult struct {
	Segments  []FareSegment `json:"segments"`
	TrikeFare float64       `json:"trike_fare"`
	TotalFare float64       `json:"total_fare"`
}

func (r *FareResult) Clone() *FareResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Segments = append([]FareSegment(nil), r.Segments...)
	return &c
}

type CalculateRequest struct {
	District      types.DistrictID `json:"district"`
	StartLocation string           `json:"start_location"`
	Destination   string           `json:"destination,omitempty"`
	IncludeTrike  bool             `json:"include_trike"`
}

type SaveRequest struct {
	District      types.DistrictID `json:"district"`
	StartLocation string           `json:"start_location"`
	Destination   string           `json:"destination"`
	IncludeTrike  bool             `json:"include_trike"`
	TotalFare     float64          `json:"total_fare"`
	TrikeFare     float64          `json:"trike_fare"`
	FareDetails   string           `json:"fare_details"`
}

type SaveResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type FareRecord struct {
	ID            int64            `json:"id"`
	SRCode        string           `json:"-"`
	District      types.DistrictID `json:"district"`
	StartLocation string           `json:"start_location"`
	Destination   string           `json:"destination"`
	IncludeTrike  bool             `json:"include_trike"`
	TotalFare     float64          `json:"total_fare"`
	TrikeFare     float64          `json:"trike_fare"`
	FareDetails   string           `json:"-"`
	CreatedAt     time.Time        `json:"created_at"`
}

type WeeklyAverage struct {
	WeeklyAverage float64   `json:"weekly_average"`
	WeekStart     time.Time `json:"week_start"`
	WeekEnd       time.Time `json:"week_end"`
}
