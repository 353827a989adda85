package catalog

import (
	"strings"

	"github.com/Temutjin2k/fair-fares/internal/domain/types"
)

// Start locations per district, in the order they are offered to the user.
var defaultTable = map[types.DistrictID][]string{
	1: {"Balayan", "Calaca", "Calatagan", "Lemery", "Lian", "Nasugbu", "Taal", "Tuy", types.HomeLocation},
	2: {"Bauan", "Lobo", "Mabini", "San Luis", "San Pascual", "Tingloy", types.HomeLocation},
	3: {
		"Agoncillo", "Alitagtag", "Balete", "Cuenca", "Laurel", "Malvar", "Mataas na Kahoy",
		"San Nicolas", "Santa Teresita", "Santo Tomas", "Talisay", "Tanauan", types.HomeLocation,
	},
	4: {"Ibaan", "Padre Garcia", "Rosario", "San Jose", "San Juan", "Taysan", types.HomeLocation},
	5: {"Batangas City", types.HomeLocation},
	6: {"Lipa City", types.HomeLocation},
}

// Catalog maps a district to its ordered start locations.
type Catalog struct {
	table map[types.DistrictID][]string
}

// Default returns the catalog of the six Batangas districts.
func Default() *Catalog {
	return &Catalog{table: defaultTable}
}

// New builds a catalog from a custom table. The table is copied.
func New(table map[types.DistrictID][]string) *Catalog {
	c := &Catalog{table: make(map[types.DistrictID][]string, len(table))}
	for d, locs := range table {
		c.table[d] = append([]string(nil), locs...)
	}
	return c
}

// LocationsFor returns a fresh copy of the district's locations.
// Unknown districts yield an empty, non-nil slice.
func (c *Catalog) LocationsFor(d types.DistrictID) []string {
	locs, ok := c.table[d]
	if !ok {
		return []string{}
	}
	return append([]string(nil), locs...)
}

// Districts lists the known district identifiers in ascending order.
func (c *Catalog) Districts() []types.DistrictID {
	out := make([]types.DistrictID, 0, len(c.table))
	for d := types.MinDistrict; d <= types.MaxDistrict; d++ {
		if _, ok := c.table[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Contains is a case-insensitive membership check.
func (c *Catalog) Contains(d types.DistrictID, location string) bool {
	location = strings.TrimSpace(location)
	for _, loc := range c.table[d] {
		if strings.EqualFold(loc, location) {
			return true
		}
	}
	return false
}

// LocationsFor looks up the default catalog.
func LocationsFor(d types.DistrictID) []string {
	return Default().LocationsFor(d)
}
