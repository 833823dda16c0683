package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var checkEmailCmd = &cobra.Command{
	Use:   "check-email <email>",
	Short: "Ask the backend whether an email is still free",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckEmail,
}

func runCheckEmail(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	available, err := client.CheckEmail(context.Background(), args[0])
	if err != nil {
		return err
	}
	if available {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: available\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: taken\n", args[0])
	}
	return nil
}
