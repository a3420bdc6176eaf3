// Package publisher pushes sensor readings to the remote latest-reading record.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ponytojas/go-mqtt-firebase/internal/firebase"
	"github.com/ponytojas/go-mqtt-firebase/internal/models"
)

// NotInitializedMessage is logged by Send when there is no database client
const NotInitializedMessage = "firebase client not initialized, skipping send"

var (
	// ErrNotInitialized is returned by Publish when there is no database client
	ErrNotInitialized = errors.New("firebase client not initialized")
	// ErrNoReading is returned by Latest when nothing was written to the path yet
	ErrNoReading = errors.New("no reading")
)

// Publisher overwrites the record at path with every reading it is given
type Publisher struct {
	store  firebase.Store
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// New returns a Publisher writing to path. A nil store stands for a client
// that failed to initialize; every send is then skipped.
func New(store firebase.Store, path string, logger *zap.Logger) *Publisher {
	return &Publisher{
		store:  store,
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Send stamps the reading with the current time and writes it. Failures are
// logged, never returned.
func (p *Publisher) Send(ctx context.Context, temperature, humidity, noise, light float64) {
	if p.store == nil {
		p.logger.Warn(NotInitializedMessage)
		return
	}

	data := &models.SensorData{
		Timestamp:   p.now(),
		Temperature: temperature,
		Humidity:    humidity,
		Noise:       noise,
		Light:       light,
	}
	if err := p.Publish(ctx, data); err != nil {
		p.logger.Error("error sending sensor data to firebase", zap.Error(err))
	}
}

// Publish writes data to the record and reports the outcome. A zero
// timestamp is written as the current time, data itself is not modified.
func (p *Publisher) Publish(ctx context.Context, data *models.SensorData) (err error) {
	if p.store == nil {
		return ErrNotInitialized
	}
	stamped := *data
	if stamped.Timestamp.IsZero() {
		stamped.Timestamp = p.now()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while updating %s: %v", p.path, r)
		}
	}()

	if err := p.store.Update(ctx, p.path, stamped.Fields()); err != nil {
		return err
	}

	p.logger.Info("sensor data sent to firebase",
		zap.String("path", p.path),
		zap.Float64("temperature", stamped.Temperature),
		zap.Float64("humidity", stamped.Humidity))
	return nil
}

// Latest reads the record back. A path holding null yields ErrNoReading.
func (p *Publisher) Latest(ctx context.Context) (*models.Record, error) {
	if p.store == nil {
		return nil, ErrNotInitialized
	}
	var rec models.Record
	if err := p.store.Get(ctx, p.path, &rec); err != nil {
		return nil, err
	}
	if rec.LastUpdated == "" {
		return nil, fmt.Errorf("%w at %s", ErrNoReading, p.path)
	}
	return &rec, nil
}
