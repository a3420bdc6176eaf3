package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ponytojas/go-mqtt-firebase/internal/database"
	"github.com/ponytojas/go-mqtt-firebase/internal/models"
)

var (
	fromArchive bool

	errArchiveDisabled = errors.New("archive is disabled, set timescale.enabled to read from it")
)

// latestCmd represents the latest command
var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the latest reading",
	Long:  `Reads the latest-reading record back from Firebase, or from the TimescaleDB archive with --archive.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if fromArchive {
			return latestFromArchive(cmd)
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.publisher.Latest(ctx)
		if err != nil {
			return err
		}
		renderRecord(cmd.OutOrStdout(), a.cfg.Firebase.Path, rec)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(latestCmd)
	latestCmd.Flags().BoolVar(&fromArchive, "archive", false, "Read from the TimescaleDB archive instead of Firebase")
}

// latestFromArchive reads the newest archived row, firebase is not initialized
func latestFromArchive(cmd *cobra.Command) error {
	ctx := cmd.Context()
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.Timescale.Enabled {
		return errArchiveDisabled
	}
	db, err := database.NewTimescaleDB(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	data, err := db.Latest(ctx)
	if err != nil {
		return err
	}
	renderRecord(cmd.OutOrStdout(), a.cfg.Timescale.TableName, recordOf(data))
	return nil
}

func recordOf(d *models.SensorData) *models.Record {
	return &models.Record{
		Temperature: d.Temperature,
		Humidity:    d.Humidity,
		Noise:       d.Noise,
		Light:       d.Light,
		LastUpdated: models.FormatTimestamp(d.Timestamp),
	}
}

// renderRecord prints rec as a two column table
func renderRecord(w io.Writer, source string, rec *models.Record) {
	c := color.New(color.FgCyan, color.Bold)
	_, _ = c.Fprintf(w, "📡 Latest reading from %s\n", source)

	table := tablewriter.NewWriter(w)
	bold := tablewriter.Colors{tablewriter.Bold}
	table.SetHeader([]string{"Sensor", "Value"})
	table.SetHeaderColor(bold, bold)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.AppendBulk([][]string{
		{"🌡️ temperature", formatValue(rec.Temperature, "°C")},
		{"💧 humidity", formatValue(rec.Humidity, "%")},
		{"🔊 noise", formatValue(rec.Noise, "dB")},
		{"💡 light", formatValue(rec.Light, "lux")},
		{"🕰 last_updated", rec.LastUpdated},
	})
	table.Render()
}

func formatValue(v float64, unit string) string {
	return fmt.Sprintf("%s %s", strconv.FormatFloat(v, 'f', -1, 64), unit)
}
