package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ponytojas/go-mqtt-firebase/internal/models"
)

var reading models.SensorData

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send one sensor reading",
	Long:  `Overwrites the latest-reading record with the given values and the current UTC time.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		data := reading
		if err := a.publisher.Publish(cmd.Context(), &data); err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✅ Sent to %s: temperature=%v humidity=%v noise=%v light=%v\n",
			a.cfg.Firebase.Path, data.Temperature, data.Humidity, data.Noise, data.Light)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().Float64VarP(&reading.Temperature, "temperature", "t", 0, "Temperature in °C")
	sendCmd.Flags().Float64VarP(&reading.Humidity, "humidity", "u", 0, "Relative humidity in %")
	sendCmd.Flags().Float64VarP(&reading.Noise, "noise", "n", 0, "Noise level in dB")
	sendCmd.Flags().Float64VarP(&reading.Light, "light", "l", 0, "Light intensity in lux")
	for _, name := range []string{"temperature", "humidity", "noise", "light"} {
		_ = sendCmd.MarkFlagRequired(name)
	}
}
