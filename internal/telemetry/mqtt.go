package telemetry

import (
	"errors"
	"fmt"
	"time"

	"controllerboard/internal/logger"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	defaultQoS      = 0 // At most once
	defaultRetained = false
	connectTimeout  = 5 * time.Second
	publishTimeout  = 5 * time.Second
	disconnectQuiet = 250 // ms
)

// MQTTConfig addresses the broker events are mirrored to.
type MQTTConfig struct {
	Broker      string // tcp://host:1883
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Publisher sends one message. Implemented by MQTTPublisher.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

var errPublishTimeout = errors.New("mqtt: publish timed out")

// MQTTPublisher is a publish-only paho client.
type MQTTPublisher struct {
	client paho.Client
	log    *logger.Logger
}

// NewMQTTPublisher connects to the broker, waiting at most connectTimeout so a
// missing broker cannot hold up a wake cycle.
func NewMQTTPublisher(cfg MQTTConfig, log *logger.Logger) (*MQTTPublisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	p := &MQTTPublisher{log: log}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetOnConnectHandler(func(paho.Client) {
			log.Infow("mqtt_connected", "broker", cfg.Broker)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warnw("mqtt_connection_lost", "err", err)
		}).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(connectTimeout)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt: connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.Broker, err)
	}
	return p, nil
}

func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, defaultQoS, defaultRetained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errPublishTimeout
	}
	return token.Error()
}

// Close disconnects, giving queued messages a moment to flush.
func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(disconnectQuiet)
	}
}
