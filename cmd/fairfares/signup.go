package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var signupReq models.SignupRequest

func init() {
	signupCmd.Flags().StringVar(&signupReq.SRCode, "srcode", "", "Student SR-code")
	signupCmd.Flags().StringVar(&signupReq.Name, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupReq.College, "college", "", "College or department")
	signupCmd.Flags().StringVar(&signupReq.Password, "password", "", "Password")
	_ = signupCmd.MarkFlagRequired("srcode")
	_ = signupCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(signupCmd)
}

func runSignup(cmd *cobra.Command, _ []string) error {
	profile, err := env.gateway.Signup(cmd.Context(), signupReq)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s (%s). Run `fairfares login` to sign in.\n", profile.Name, profile.SRCode)
	return nil
}
