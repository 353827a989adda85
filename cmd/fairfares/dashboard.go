package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/internal/service/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show profile, weekly average and fare history",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

var dashboardWatch bool

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardWatch, "watch", false, "Keep running and apply live updates")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	who, err := env.identity()
	if err != nil {
		return err
	}

	ctrl := dashboard.NewController(env.gateway, env.log)
	out := cmd.OutOrStdout()

	// A partial dashboard is still worth printing.
	loadErr := ctrl.Load(cmd.Context(), who)
	printDashboard(out, ctrl.Snapshot())
	if loadErr != nil && !dashboardWatch {
		return loadErr
	}
	if !dashboardWatch {
		return nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for updates, press Ctrl+C to stop")
	err = env.gateway.WatchDashboard(cmd.Context(), *who, func(ev models.FareEvent) {
		if ev.Type == types.EventFareRecordSaved {
			// The event carries no record; fetch the history again.
			_ = ctrl.Load(cmd.Context(), who)
		} else if !ctrl.ApplyEvent(ev) {
			return
		}
		fmt.Fprintln(out)
		printDashboard(out, ctrl.Snapshot())
	})
	if err != nil && cmd.Context().Err() == nil {
		return err
	}
	return nil
}

func printDashboard(w io.Writer, s dashboard.Snapshot) {
	if s.Profile != nil {
		fmt.Fprintf(w, "%s (%s), %s\n", s.Profile.Name, s.Profile.SRCode, s.Profile.College)
	}
	if s.WeeklyAverage != nil {
		fmt.Fprintf(w, "Weekly average: %.2f (%s to %s)\n",
			s.WeeklyAverage.WeeklyAverage,
			s.WeeklyAverage.WeekStart.Format("Jan 2"),
			s.WeeklyAverage.WeekEnd.Format("Jan 2"))
	}

	if len(s.History) == 0 {
		fmt.Fprintln(w, "No saved fares yet")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tDISTRICT\tROUTE\tTRIKE\tTOTAL")
		for _, r := range s.History {
			trike := "-"
			if r.IncludeTrike {
				trike = fmt.Sprintf("%.2f", r.TrikeFare)
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s -> %s\t%s\t%.2f\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.District, r.StartLocation, r.Destination, trike, r.TotalFare)
		}
		_ = tw.Flush()
	}

	for _, section := range slices.Sorted(maps.Keys(s.Errors)) {
		fmt.Fprintf(w, "could not load %s: %v\n", section, s.Errors[section])
	}
}
