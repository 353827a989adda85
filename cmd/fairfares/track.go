package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/internal/service/catalog"
	"github.com/Temutjin2k/fair-fares/internal/service/track"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Price a route and optionally save it",
	Example: `  fairfares track --district 1 --start Lemery --trike
  fairfares track --district 1 --start Lemery --save`,
	Args: cobra.NoArgs,
	RunE: runTrack,
}

var (
	trackDistrict    int
	trackStart       string
	trackDestination string
	trackTrike       bool
	trackSave        bool
)

func init() {
	trackCmd.Flags().IntVar(&trackDistrict, "district", int(types.MinDistrict), "District of the start location (1-6)")
	trackCmd.Flags().StringVar(&trackStart, "start", "", "Start location")
	trackCmd.Flags().StringVar(&trackDestination, "destination", "", "Destination, BSU when empty")
	trackCmd.Flags().BoolVar(&trackTrike, "trike", false, "Add the tricycle leg")
	trackCmd.Flags().BoolVar(&trackSave, "save", false, "Save the calculated fare")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, _ []string) error {
	who, err := env.identity()
	if err != nil {
		return err
	}

	ctrl := track.NewController(env.gateway, catalog.Default(), *who, env.log,
		track.WithNoticeDelay(env.cfg.Track.NoticeDelay),
		track.WithDistrict(types.DistrictID(trackDistrict)),
	)
	defer ctrl.Close()

	ctrl.SetStartLocation(trackStart)
	if trackDestination != "" {
		ctrl.SetDestination(trackDestination)
	}
	ctrl.SetIncludeTrike(trackTrike)

	out := cmd.OutOrStdout()

	res, err := ctrl.Calculate(cmd.Context())
	if err != nil {
		printFormErrors(out, ctrl.Snapshot())
		return err
	}
	printResult(out, ctrl.Snapshot().Form, res)

	if !trackSave {
		return nil
	}

	if _, err := ctrl.Save(cmd.Context()); err != nil {
		return err
	}
	if n := ctrl.Snapshot().Notice; n != nil {
		fmt.Fprintln(out, n.Message)
	}
	return nil
}

func printFormErrors(w io.Writer, s track.Snapshot) {
	if s.Form.StartLocationError != "" {
		fmt.Fprintf(w, "start: %s\n", s.Form.StartLocationError)
	}
	if s.Form.DestinationError != "" {
		fmt.Fprintf(w, "destination: %s\n", s.Form.DestinationError)
	}
	if s.Notice != nil && s.Notice.Kind == track.NoticeError {
		fmt.Fprintln(w, s.Notice.Message)
	}
}

func printResult(w io.Writer, form track.Form, res *models.FareResult) {
	dest := form.Destination
	if dest == "" {
		dest = types.HomeLocation
	}
	fmt.Fprintf(w, "District %d: %s -> %s\n", form.District, form.StartLocation, dest)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, seg := range res.Segments {
		fmt.Fprintf(tw, "  %s\t%s\t%.2f\n", seg.Description, seg.Vehicle, seg.Fare)
	}
	if res.TrikeFare > 0 {
		fmt.Fprintf(tw, "  Tricycle\t%s\t%.2f\n", types.VehicleTricycle, res.TrikeFare)
	}
	fmt.Fprintf(tw, "  Total\t\t%.2f\n", res.TotalFare)
	_ = tw.Flush()
}
