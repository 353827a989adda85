package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/internal/service/catalog"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the locations of each district",
	Args:  cobra.NoArgs,
	RunE:  runLocations,
}

var locationsDistrict int

func init() {
	locationsCmd.Flags().IntVar(&locationsDistrict, "district", 0, "Only this district (1-6)")
	rootCmd.AddCommand(locationsCmd)
}

func runLocations(cmd *cobra.Command, _ []string) error {
	c := catalog.Default()
	districts := c.Districts()
	if locationsDistrict != 0 {
		d := types.DistrictID(locationsDistrict)
		if !d.Valid() {
			return fmt.Errorf("%w: %d", types.ErrUnknownDistrict, locationsDistrict)
		}
		districts = []types.DistrictID{d}
	}

	out := cmd.OutOrStdout()
	for _, d := range districts {
		fmt.Fprintf(out, "District %d: %s\n", d, strings.Join(c.LocationsFor(d), ", "))
	}
	return nil
}
