package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Broker: "tcp://localhost:1883", QoS: 7}.withDefaults()

	assert.Equal(t, defaultKeepAlive, cfg.KeepAlive)
	assert.Equal(t, defaultConnectTimeout, cfg.ConnectTimeout)
	assert.Equal(t, defaultPublishTimeout, cfg.PublishTimeout)
	assert.Equal(t, defaultMaxBackoff, cfg.MaxBackoff)
	assert.Equal(t, byte(1), cfg.QoS)

	kept := Config{PublishTimeout: time.Second, QoS: 2}.withDefaults()
	assert.Equal(t, time.Second, kept.PublishTimeout)
	assert.Equal(t, byte(2), kept.QoS)
}

func TestConfigOptions(t *testing.T) {
	opts := Config{
		Broker:   "tcp://broker.local:1883",
		ClientID: "fleet-admin",
		Username: "ops",
	}.withDefaults().options()

	assert.Equal(t, "fleet-admin", opts.ClientID)
	assert.Equal(t, "ops", opts.Username)
	assert.True(t, opts.AutoReconnect)
	assert.True(t, opts.CleanSession)
	assert.Equal(t, defaultKeepAlive/time.Second, time.Duration(opts.KeepAlive))
	if assert.Len(t, opts.Servers, 1) {
		assert.Equal(t, "broker.local:1883", opts.Servers[0].Host)
	}
}
