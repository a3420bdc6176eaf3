package models

import (
	"time"
)

// TimestampLayout is the UTC ISO 8601 form stored in last_updated
const TimestampLayout = "2006-01-02T15:04:05.000000"

// SensorData is one environment reading
type SensorData struct {
	Timestamp   time.Time `json:"timestamp" db:"time"`
	Temperature float64   `json:"temperature" db:"temperature"`
	Humidity    float64   `json:"humidity" db:"humidity"`
	Noise       float64   `json:"noise" db:"noise"`
	Light       float64   `json:"light" db:"light"`
	DeviceID    string    `json:"device_id,omitempty" db:"device_id"`
}

// Fields returns the values written to the remote record
func (d *SensorData) Fields() map[string]interface{} {
	return map[string]interface{}{
		"temperature":  d.Temperature,
		"humidity":     d.Humidity,
		"noise":        d.Noise,
		"light":        d.Light,
		"last_updated": FormatTimestamp(d.Timestamp),
	}
}

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Record is the remote record as read back from the realtime database
type Record struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Noise       float64 `json:"noise"`
	Light       float64 `json:"light"`
	LastUpdated string  `json:"last_updated"`
}
