package models

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Fields(t *testing.T) {
	ts := time.Date(2024, 5, 17, 8, 30, 0, 123456000, time.FixedZone("WIB", 7*3600))
	d := SensorData{Timestamp: ts, Temperature: 25.5, Humidity: 65.2, Noise: 45.0, Light: 15.0}
	assert.Equal(t, map[string]interface{}{
		"temperature":  25.5,
		"humidity":     65.2,
		"noise":        45.0,
		"light":        15.0,
		"last_updated": "2024-05-17T01:30:00.123456",
	}, d.Fields())
}

func Test_FieldsPassThrough(t *testing.T) {
	for i := 0; i < 10; i++ {
		d := SensorData{
			Timestamp:   time.Now(),
			Temperature: gofakeit.Float64Range(-40, 60),
			Humidity:    gofakeit.Float64Range(0, 100),
			Noise:       gofakeit.Float64Range(0, 140),
			Light:       gofakeit.Float64Range(0, 100000),
		}
		f := d.Fields()
		assert.Equal(t, d.Temperature, f["temperature"])
		assert.Equal(t, d.Humidity, f["humidity"])
		assert.Equal(t, d.Noise, f["noise"])
		assert.Equal(t, d.Light, f["light"])
		assert.Len(t, f, 5)
	}
}

func Test_ParseSensorData(t *testing.T) {
	now := time.Now()
	d, err := ParseSensorData([]byte(`{"temperature":21.5,"humidity":"40.25","noise":33,"light":120,"device_id":"kitchen"}`), now)
	require.NoError(t, err)
	assert.Equal(t, 21.5, d.Temperature)
	assert.Equal(t, 40.25, d.Humidity)
	assert.Equal(t, 33.0, d.Noise)
	assert.Equal(t, 120.0, d.Light)
	assert.Equal(t, "kitchen", d.DeviceID)
	assert.Equal(t, now, d.Timestamp)
}

func Test_ParseSensorDataTimestamp(t *testing.T) {
	d, err := ParseSensorData([]byte(`{"timestamp":"2024-05-17T08:30:00Z","temperature":1,"humidity":2,"noise":3,"light":4}`), time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 8, 30, 0, 0, time.UTC), d.Timestamp.UTC())
}

func Test_ParseSensorDataErrors(t *testing.T) {
	_, err := ParseSensorData([]byte(`{"temperature":1,"humidity":2,"light":4}`), time.Now())
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = ParseSensorData([]byte(`{"temperature":"warm","humidity":2,"noise":3,"light":4}`), time.Now())
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = ParseSensorData([]byte(`not json`), time.Now())
	assert.Error(t, err)
	_, err = ParseSensorData([]byte(`{"timestamp":"yesterday","temperature":1,"humidity":2,"noise":3,"light":4}`), time.Now())
	assert.Error(t, err)
}
