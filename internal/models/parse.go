package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMissingField is returned when a payload lacks one of the sensor values
var ErrMissingField = errors.New("missing sensor field")

// ParseSensorData decodes a JSON payload as published on the sensor topic.
// Values may be numbers or numeric strings. The timestamp is optional and
// falls back to now.
func ParseSensorData(payload []byte, now time.Time) (*SensorData, error) {
	var rawData map[string]interface{}
	if err := json.Unmarshal(payload, &rawData); err != nil {
		return nil, fmt.Errorf("error unmarshaling message: %w", err)
	}

	data := &SensorData{Timestamp: now}
	if tsStr, ok := rawData["timestamp"].(string); ok && tsStr != "" {
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing timestamp %q: %w", tsStr, err)
		}
		data.Timestamp = ts
	}

	for key, dst := range map[string]*float64{
		"temperature": &data.Temperature,
		"humidity":    &data.Humidity,
		"noise":       &data.Noise,
		"light":       &data.Light,
	} {
		v, ok := getFloat64Value(rawData, key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
		*dst = v
	}

	if id, ok := rawData["device_id"].(string); ok {
		data.DeviceID = id
	}
	return data, nil
}

// getFloat64Value safely extracts a float64 value from the map
func getFloat64Value(data map[string]interface{}, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
