package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponytojas/go-mqtt-firebase/internal/models"
)

// execute runs the root command with args and returns its output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range append(rootCmd.Commands(), rootCmd) {
		resetFlags(c)
	}
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
}

// missingCredentials writes a config.yaml pointing at a key that does not exist
func missingCredentials(t *testing.T) string {
	dir := t.TempDir()
	yaml := "firebase:\n  credentials_file: " + filepath.Join(dir, "serviceAccountKey.json") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	return dir
}

func Test_HelpCommands(t *testing.T) {
	tests := map[string]string{
		sendCmd.Use:   "Overwrites the latest-reading record",
		demoCmd.Use:   "Sends temperature=25.5",
		bridgeCmd.Use: "Subscribes to the configured MQTT topic",
		latestCmd.Use: "Reads the latest-reading record back",
	}
	for use, expected := range tests {
		actual, err := execute(t, use, "-h")
		assert.NoError(t, err)
		assert.Contains(t, actual, expected, "actual is not expected")
	}
}

func Test_SendRequiresAllValues(t *testing.T) {
	_, err := execute(t, sendCmd.Use, "--temperature", "25.5", "--humidity", "65.2")
	assert.ErrorContains(t, err, "required flag(s)")
}

func Test_SendWithoutClientFails(t *testing.T) {
	dir := missingCredentials(t)
	_, err := execute(t, "--config", dir, sendCmd.Use, "-t", "25.5", "-u", "65.2", "-n", "45", "-l", "15")
	assert.ErrorContains(t, err, "firebase client not initialized")
}

func Test_DemoSwallowsErrors(t *testing.T) {
	dir := missingCredentials(t)
	out, err := execute(t, "--config", dir, demoCmd.Use)
	assert.NoError(t, err)
	assert.Contains(t, out, "Running sample send")
}

func Test_LatestArchiveDisabled(t *testing.T) {
	dir := missingCredentials(t)
	out, err := execute(t, "--config", dir, latestCmd.Use, "--archive")
	assert.ErrorIs(t, err, errArchiveDisabled)
	assert.NotContains(t, out, "firebase")
}

func Test_RenderRecord(t *testing.T) {
	var out bytes.Buffer
	renderRecord(&out, "sensors/latest", recordOf(&models.SensorData{
		Timestamp:   time.Date(2024, 5, 17, 8, 30, 0, 0, time.UTC),
		Temperature: 25.5, Humidity: 65.2, Noise: 45, Light: 15,
	}))
	actual := out.String()
	assert.Contains(t, actual, "sensors/latest")
	assert.Contains(t, actual, "25.5 °C")
	assert.Contains(t, actual, "65.2 %")
	assert.Contains(t, actual, "45 dB")
	assert.Contains(t, actual, "15 lux")
	assert.Contains(t, actual, "2024-05-17T08:30:00.000000")
}
