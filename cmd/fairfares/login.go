package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var (
	loginSRCode   string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVar(&loginSRCode, "srcode", "", "Student SR-code")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password, read from stdin when omitted")
	_ = loginCmd.MarkFlagRequired("srcode")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	password := loginPassword
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	who, err := env.store.Login(cmd.Context(), loginSRCode, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s (%s)\n", who.Name, who.SRCode)
	return nil
}
