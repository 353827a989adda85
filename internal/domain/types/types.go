package types

import "strings"

type ServiceMode string

// Fare Service - Prices routes from the fare guide, authenticates students and keeps their fare records
// Migrate - Creates the database schema and seeds the development account
const (
	FareService ServiceMode = "fare-service"
	Migrate     ServiceMode = "migrate"
)

func (m ServiceMode) Valid() bool {
	switch m {
	case FareService, Migrate:
		return true
	}
	return false
}

// HomeLocation is the canonical campus location every route ends at by default.
const HomeLocation = "BSU"

// IsHome reports whether loc names the home location, ignoring case and surrounding space.
func IsHome(loc string) bool {
	return strings.EqualFold(strings.TrimSpace(loc), HomeLocation)
}

// DistrictID identifies one of the six districts of the fare guide.
type DistrictID int

const (
	MinDistrict DistrictID = 1
	MaxDistrict DistrictID = 6
)

func (d DistrictID) Valid() bool {
	return d >= MinDistrict && d <= MaxDistrict
}

// Field names an editable input of the fare entry form.
type Field string

func (f Field) String() string {
	return string(f)
}

const (
	FieldDistrict      Field = "district"
	FieldStartLocation Field = "start_location"
	FieldDestination   Field = "destination"
	FieldIncludeTrike  Field = "include_trike"
)

// Vehicle used on a fare segment
type Vehicle string

const (
	VehicleBus      Vehicle = "bus"
	VehicleJeepney  Vehicle = "jeepney"
	VehicleTricycle Vehicle = "tricycle"
	VehicleVan      Vehicle = "van"
)
