package mqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/ponytojas/go-mqtt-firebase/config"
	"github.com/ponytojas/go-mqtt-firebase/internal/models"
)

// Publisher pushes a reading to the remote latest-reading record
type Publisher interface {
	Publish(ctx context.Context, data *models.SensorData) error
}

// Archiver stores a reading in the history table
type Archiver interface {
	InsertSensorData(ctx context.Context, data *models.SensorData) error
}

// Client handles MQTT connection and message processing
type Client struct {
	client    mqtt.Client
	publisher Publisher
	archive   Archiver
	config    *config.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewClient creates a new MQTT client. archive may be nil.
func NewClient(cfg *config.Config, publisher Publisher, archive Archiver, logger *zap.Logger) *Client {
	opts := mqtt.NewClientOptions()
	brokerURL := cfg.GetMQTTBrokerURL()
	opts.AddBroker(brokerURL)
	opts.SetClientID(cfg.MQTT.ClientID)

	// Configure TLS if using SSL or secure websockets
	if strings.HasPrefix(brokerURL, "ssl://") || strings.HasPrefix(brokerURL, "wss://") {
		logger.Info("configuring tls for secure connection", zap.String("broker", brokerURL))
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("connection lost", zap.Error(err))
	})
	opts.SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		logger.Info("attempting to reconnect to mqtt broker")
	})

	return &Client{
		client:    mqtt.NewClient(opts),
		publisher: publisher,
		archive:   archive,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Connect connects to the MQTT broker
func (c *Client) Connect() error {
	token := c.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	c.logger.Info("connected to mqtt broker", zap.String("broker", c.config.GetMQTTBrokerURL()))
	return nil
}

// Subscribe subscribes to the configured topic. Messages are processed with ctx.
func (c *Client) Subscribe(ctx context.Context) error {
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		c.logger.Debug("received message", zap.String("topic", msg.Topic()), zap.ByteString("payload", msg.Payload()))
		c.processMessage(ctx, msg.Payload())
	}

	token := c.client.Subscribe(c.config.MQTT.Topic, 0, handler)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", c.config.MQTT.Topic, token.Error())
	}
	c.logger.Info("subscribed to topic", zap.String("topic", c.config.MQTT.Topic))
	return nil
}

// Disconnect disconnects from the MQTT broker
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
	c.logger.Info("disconnected from mqtt broker")
}

// processMessage forwards a reading to firebase and, when enabled, the archive.
// It reports whether the remote write succeeded.
func (c *Client) processMessage(ctx context.Context, payload []byte) bool {
	data, err := models.ParseSensorData(payload, c.now())
	if err != nil {
		c.logger.Warn("dropping message", zap.Error(err))
		return false
	}

	sent := true
	if err := c.publisher.Publish(ctx, data); err != nil {
		c.logger.Error("error sending sensor data to firebase", zap.Error(err))
		sent = false
	}

	if c.archive != nil {
		if err := c.archive.InsertSensorData(ctx, data); err != nil {
			c.logger.Error("error inserting sensor data", zap.Error(err))
		}
	}

	c.logger.Info("processed sensor data",
		zap.Time("time", data.Timestamp),
		zap.Float64("temperature", data.Temperature),
		zap.Float64("humidity", data.Humidity),
		zap.Float64("noise", data.Noise),
		zap.Float64("light", data.Light),
		zap.Bool("sent", sent))
	return sent
}
