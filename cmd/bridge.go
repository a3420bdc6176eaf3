package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ponytojas/go-mqtt-firebase/internal/database"
	"github.com/ponytojas/go-mqtt-firebase/internal/mqtt"
)

// bridgeCmd represents the bridge command
var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Forward readings from MQTT to Firebase",
	Long: `Subscribes to the configured MQTT topic and writes every reading to the latest-reading record.
When timescale.enabled is set, each reading is archived in TimescaleDB as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		var archive mqtt.Archiver
		if a.cfg.Timescale.Enabled {
			db, err := database.NewTimescaleDB(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			if err := db.InitializeTable(ctx); err != nil {
				return fmt.Errorf("failed to initialize table: %w", err)
			}
			archive = db
		}

		client := mqtt.NewClient(a.cfg, a.publisher, archive, a.logger)
		if err := client.Connect(); err != nil {
			return err
		}
		defer client.Disconnect()

		if err := client.Subscribe(ctx); err != nil {
			return err
		}

		a.logger.Info("service is running", zap.String("topic", a.cfg.MQTT.Topic), zap.Bool("archive", archive != nil))
		<-ctx.Done()
		a.logger.Info("shutting down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
}
