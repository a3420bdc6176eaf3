package database

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ponytojas/go-mqtt-firebase/config"
	"github.com/ponytojas/go-mqtt-firebase/internal/models"
)

// TimescaleDB archives every reading in a hypertable
type TimescaleDB struct {
	db     *sqlx.DB
	table  string
	logger *zap.Logger
}

// NewTimescaleDB creates a new TimescaleDB instance
func NewTimescaleDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*TimescaleDB, error) {
	logger.Info("connecting to database",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("user", cfg.Database.User),
		zap.String("dbname", cfg.Database.DBName),
		zap.String("sslmode", cfg.Database.SSLMode))

	db, err := sqlx.Open("pgx", cfg.GetDBConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return newTimescaleDB(db, cfg.Timescale.TableName, logger), nil
}

func newTimescaleDB(db *sqlx.DB, table string, logger *zap.Logger) *TimescaleDB {
	return &TimescaleDB{db: db, table: table, logger: logger}
}

// Close closes the database connection
func (t *TimescaleDB) Close() error {
	return t.db.Close()
}

// InitializeTable checks if the table exists and creates it if it doesn't
func (t *TimescaleDB) InitializeTable(ctx context.Context) error {
	var exists bool
	err := t.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, t.table).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "failed to check if table exists")
	}

	if exists {
		t.logger.Info("table already exists", zap.String("table", t.table))
		return nil
	}

	t.logger.Info("creating table", zap.String("table", t.table))
	if _, err := t.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE %s (
			time TIMESTAMPTZ NOT NULL,
			temperature DOUBLE PRECISION,
			humidity DOUBLE PRECISION,
			noise DOUBLE PRECISION,
			light DOUBLE PRECISION,
			device_id TEXT NOT NULL DEFAULT ''
		)
	`, t.table)); err != nil {
		return errors.Wrap(err, "failed to create table")
	}

	if _, err := t.db.ExecContext(ctx, `SELECT create_hypertable($1, 'time')`, t.table); err != nil {
		return errors.Wrap(err, "failed to convert table to hypertable")
	}

	t.logger.Info("table created and converted to hypertable", zap.String("table", t.table))
	return nil
}

// InsertSensorData inserts sensor data into the database
func (t *TimescaleDB) InsertSensorData(ctx context.Context, data *models.SensorData) error {
	_, err := t.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (time, temperature, humidity, noise, light, device_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.table), data.Timestamp, data.Temperature, data.Humidity, data.Noise, data.Light, data.DeviceID)
	if err != nil {
		return errors.Wrap(err, "failed to insert sensor data")
	}
	return nil
}

// Latest returns the most recent archived reading
func (t *TimescaleDB) Latest(ctx context.Context) (*models.SensorData, error) {
	var data models.SensorData
	err := t.db.GetContext(ctx, &data, fmt.Sprintf(`
		SELECT time, temperature, humidity, noise, light, device_id
		FROM %s ORDER BY time DESC LIMIT 1
	`, t.table))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query latest sensor data")
	}
	return &data, nil
}
