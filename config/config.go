package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidFirebaseConfig is returned by FirebaseConfig.Validate
var ErrInvalidFirebaseConfig = errors.New("invalid firebase configuration")

// Config holds all configuration for the application
type Config struct {
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Timescale TimescaleConfig `mapstructure:"timescale"`
	Firebase  FirebaseConfig  `mapstructure:"firebase"`
	Log       LogConfig       `mapstructure:"log"`
}

// MQTTConfig holds MQTT connection configuration
type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Port     int    `mapstructure:"port"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// DatabaseConfig holds Postgres connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// TimescaleConfig holds the optional history archive configuration
type TimescaleConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TableName string `mapstructure:"table_name"`
}

// FirebaseConfig points at the service account key and the realtime database record
type FirebaseConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	DatabaseURL     string `mapstructure:"database_url"`
	Path            string `mapstructure:"path"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// envBindings maps every config key to its environment variable
var envBindings = map[string]string{
	"mqtt.broker":    "MQTT_BROKER",
	"mqtt.port":      "MQTT_PORT",
	"mqtt.client_id": "MQTT_CLIENT_ID",
	"mqtt.topic":     "MQTT_TOPIC",
	"mqtt.username":  "MQTT_USERNAME",
	"mqtt.password":  "MQTT_PASSWORD",

	"database.host":     "DATABASE_HOST",
	"database.port":     "DATABASE_PORT",
	"database.user":     "DATABASE_USER",
	"database.password": "DATABASE_PASSWORD",
	"database.dbname":   "DATABASE_DBNAME",
	"database.sslmode":  "DATABASE_SSLMODE",

	"timescale.enabled":    "TIMESCALE_ENABLED",
	"timescale.table_name": "TIMESCALE_TABLE_NAME",

	"firebase.credentials_file": "FIREBASE_CREDENTIALS_FILE",
	"firebase.database_url":     "FIREBASE_DATABASE_URL",
	"firebase.path":             "FIREBASE_PATH",

	"log.level":       "LOG_LEVEL",
	"log.development": "LOG_DEVELOPMENT",
}

// LoadConfig loads configuration from file and/or environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values first (lowest precedence)
	d := GetDefaultConfig()
	v.SetDefault("mqtt.broker", d.MQTT.Broker)
	v.SetDefault("mqtt.port", d.MQTT.Port)
	v.SetDefault("mqtt.client_id", d.MQTT.ClientID)
	v.SetDefault("mqtt.topic", d.MQTT.Topic)
	v.SetDefault("mqtt.username", d.MQTT.Username)
	v.SetDefault("mqtt.password", d.MQTT.Password)

	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.dbname", d.Database.DBName)
	v.SetDefault("database.sslmode", d.Database.SSLMode)

	v.SetDefault("timescale.enabled", d.Timescale.Enabled)
	v.SetDefault("timescale.table_name", d.Timescale.TableName)

	v.SetDefault("firebase.credentials_file", d.Firebase.CredentialsFile)
	v.SetDefault("firebase.database_url", d.Firebase.DatabaseURL)
	v.SetDefault("firebase.path", d.Firebase.Path)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)

	// Try to load from config file (medium precedence)
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Environment variables (highest precedence), e.g. firebase.path -> FIREBASE_PATH
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("unable to bind env %s: %w", env, err)
		}
	}

	// Try to read config file, but don't fail if it doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: error reading config file: %v", err)
		} else {
			log.Println("No config file found, using environment variables and defaults")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &config, nil
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker:   "https://mqtt.ponytojas.dev",
			Port:     8883,
			ClientID: "go-mqtt-firebase",
			Topic:    "sensor/#",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "iot_data",
			SSLMode:  "disable",
		},
		Timescale: TimescaleConfig{
			Enabled:   false,
			TableName: "sensor_data",
		},
		Firebase: FirebaseConfig{
			CredentialsFile: "serviceAccountKey.json",
			DatabaseURL:     "https://YOUR_DATABASE_NAME.firebaseio.com",
			Path:            "sensors/latest",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the firebase settings can be handed to the SDK
func (f FirebaseConfig) Validate() error {
	if strings.TrimSpace(f.CredentialsFile) == "" {
		return fmt.Errorf("%w: credentials_file is empty", ErrInvalidFirebaseConfig)
	}
	// Emulators are selected with FIREBASE_DATABASE_EMULATOR_HOST, not through the url
	u, err := url.Parse(f.DatabaseURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: database_url %q is not an https url", ErrInvalidFirebaseConfig, f.DatabaseURL)
	}
	if strings.Trim(f.Path, "/ ") == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidFirebaseConfig)
	}
	return nil
}

// GetDBConnString returns the database connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetMQTTBrokerURL returns the MQTT broker URL
func (c *Config) GetMQTTBrokerURL() string {
	brokerURL := c.MQTT.Broker

	// If the URL already has a protocol, use it as is
	for _, scheme := range []string{"tcp://", "ssl://", "ws://", "wss://"} {
		if strings.HasPrefix(brokerURL, scheme) {
			if !strings.Contains(strings.TrimPrefix(brokerURL, scheme), ":") {
				brokerURL = fmt.Sprintf("%s:%d", brokerURL, c.MQTT.Port)
			}
			return brokerURL
		}
	}

	// Handle http:// and https:// protocols by converting to mqtt protocols
	if host, ok := strings.CutPrefix(brokerURL, "http://"); ok {
		return "tcp://" + c.withPort(host)
	}
	if host, ok := strings.CutPrefix(brokerURL, "https://"); ok {
		return "ssl://" + c.withPort(host)
	}

	return fmt.Sprintf("tcp://%s:%d", brokerURL, c.MQTT.Port)
}

func (c *Config) withPort(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return fmt.Sprintf("%s:%d", host, c.MQTT.Port)
}
