package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in student",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var whoamiRemote bool

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Ask the server for the profile instead of the stored session")
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	who, err := env.identity()
	if err != nil {
		return err
	}

	profile := who.Profile()
	if whoamiRemote {
		remote, err := env.gateway.Profile(cmd.Context(), *who)
		if err != nil {
			return err
		}
		profile = *remote
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "SR-code: %s\n", profile.SRCode)
	fmt.Fprintf(out, "Name:    %s\n", profile.Name)
	fmt.Fprintf(out, "College: %s\n", profile.College)
	return nil
}
