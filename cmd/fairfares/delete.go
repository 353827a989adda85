package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/fair-fares/internal/service/dashboard"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your saved fares",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var deleteRollback bool

func init() {
	deleteCmd.Flags().BoolVar(&deleteRollback, "rollback", false, "Keep the record in the printed history when the server refuses the delete")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid record id %q", args[0])
	}

	who, err := env.identity()
	if err != nil {
		return err
	}

	var opts []dashboard.Option
	if deleteRollback {
		opts = append(opts, dashboard.WithRollbackOnFailure())
	}
	ctrl := dashboard.NewController(env.gateway, env.log, opts...)

	// History failures only affect what is printed afterwards.
	_ = ctrl.Load(cmd.Context(), who)

	out := cmd.OutOrStdout()
	if err := ctrl.Delete(cmd.Context(), id); err != nil {
		printDashboard(out, ctrl.Snapshot())
		return err
	}

	fmt.Fprintf(out, "Record %d deleted\n", id)
	printDashboard(out, ctrl.Snapshot())
	return nil
}
