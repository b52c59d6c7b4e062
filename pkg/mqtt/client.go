package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet-campus-admin/internal/logger"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Config describes a publish-only broker connection. Zero durations fall
// back to the package defaults.
type Config struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
	MaxBackoff     time.Duration
}

const (
	defaultKeepAlive      = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	defaultMaxBackoff     = time.Minute
)

func (c Config) withDefaults() Config {
	if c.KeepAlive <= 0 {
		c.KeepAlive = defaultKeepAlive
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultPublishTimeout
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if c.QoS > 2 {
		c.QoS = 1
	}
	return c
}

func (c Config) options() *paho.ClientOptions {
	opts := paho.NewClientOptions().
		AddBroker(c.Broker).
		SetClientID(c.ClientID).
		SetUsername(c.Username).
		SetPassword(c.Password).
		SetCleanSession(true).
		SetKeepAlive(c.KeepAlive).
		SetConnectTimeout(c.ConnectTimeout).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(c.MaxBackoff)

	broker := zap.String("broker", c.Broker)
	opts.SetOnConnectHandler(func(paho.Client) {
		logger.Info("MQTT client connected", broker)
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("MQTT connection lost", broker, zap.Error(err))
	})
	opts.SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
		logger.Info("Reconnecting to MQTT broker", broker)
	})
	return opts
}

// Client publishes JSON payloads to a broker. It never subscribes.
type Client struct {
	conn paho.Client
	cfg  Config
}

func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{conn: paho.NewClient(cfg.options()), cfg: cfg}
}

func (c *Client) Connect() error {
	token := c.conn.Connect()
	if !token.WaitTimeout(c.cfg.ConnectTimeout) {
		return fmt.Errorf("connect to MQTT broker %s: timed out", c.cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to MQTT broker %s: %w", c.cfg.Broker, err)
	}
	return nil
}

// PublishJSON encodes v and publishes it with the configured QoS. It
// returns when the broker acknowledges, the publish timeout passes, or ctx
// is done, whichever comes first.
func (c *Client) PublishJSON(ctx context.Context, topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode payload for %s: %w", topic, err)
	}

	token := c.conn.Publish(topic, c.cfg.QoS, false, payload)
	timer := time.NewTimer(c.cfg.PublishTimeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return fmt.Errorf("%w: %s", ErrPublishTimeout, topic)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Disconnect() {
	c.conn.Disconnect(250)
	logger.Info("Disconnected from MQTT broker", zap.String("broker", c.cfg.Broker))
}
