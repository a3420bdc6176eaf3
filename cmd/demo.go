package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// demoCmd sends a fixed sample reading, errors are only logged
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Send a sample reading",
	Long:  `Sends temperature=25.5 humidity=65.2 noise=45.0 light=15.0. Failures are logged and the command still succeeds.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Fprintln(cmd.OutOrStdout(), "🌡️ Running sample send...")
		a.publisher.Send(cmd.Context(), 25.5, 65.2, 45.0, 15.0)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
