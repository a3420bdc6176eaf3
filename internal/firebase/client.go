// Package firebase wraps the Firebase Admin SDK realtime database client.
package firebase

import (
	"context"
	"os"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/ponytojas/go-mqtt-firebase/config"
)

// Store reads and updates records addressed by a database path
type Store interface {
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	Get(ctx context.Context, path string, v interface{}) error
}

// Client is a Store backed by the Firebase Realtime Database
type Client struct {
	db     *db.Client
	logger *zap.Logger
}

var _ Store = (*Client)(nil)

// NewClient initializes the Firebase app from the service account key in cfg
// and opens its realtime database
func NewClient(ctx context.Context, cfg config.FirebaseConfig, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return nil, errors.Wrapf(err, "cannot read credentials file %s", cfg.CredentialsFile)
	}

	app, err := fb.NewApp(ctx, &fb.Config{DatabaseURL: cfg.DatabaseURL}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize firebase app")
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open realtime database")
	}

	logger.Info("firebase admin sdk initialized",
		zap.String("database_url", cfg.DatabaseURL),
		zap.String("credentials_file", cfg.CredentialsFile))

	return &Client{db: client, logger: logger}, nil
}

// Update writes fields to the record at path. Children not named in fields are kept.
func (c *Client) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if err := c.db.NewRef(path).Update(ctx, fields); err != nil {
		return errors.Wrapf(err, "unable to update %s", path)
	}
	c.logger.Debug("record updated", zap.String("path", path), zap.Int("fields", len(fields)))
	return nil
}

// Get decodes the record at path into v
func (c *Client) Get(ctx context.Context, path string, v interface{}) error {
	if err := c.db.NewRef(path).Get(ctx, v); err != nil {
		return errors.Wrapf(err, "unable to read %s", path)
	}
	return nil
}
