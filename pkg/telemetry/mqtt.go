// Package telemetry publishes coaching updates to an MQTT broker so
// that external consumers (trainers' dashboards, data pipelines) can
// subscribe without touching the engine's WebSocket surface.
package telemetry

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/protocol"
)

// Config holds MQTT publisher settings.
type Config struct {
	// Broker is the broker URL, e.g. "tcp://localhost:1883".
	Broker string

	// ClientID identifies this publisher to the broker.
	ClientID string

	// Topic receives one JSON coaching update per frame.
	Topic string
}

// DefaultConfig returns publisher defaults for a local broker.
func DefaultConfig() Config {
	return Config{
		Broker:   "tcp://localhost:1883",
		ClientID: "form-factor-engine",
		Topic:    "formfactor/coaching",
	}
}

// Publisher is a session sink that forwards every coaching update to
// an MQTT topic. Publish failures are logged, not surfaced; telemetry
// must never stall the frame loop.
type Publisher struct {
	config Config
	client mqtt.Client
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(config Config) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(config.Broker).
		SetClientID(config.ClientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	log.Info("telemetry connected", "broker", config.Broker, "topic", config.Topic)
	return &Publisher{config: config, client: client}, nil
}

// PublishCoaching implements session.Sink.
func (p *Publisher) PublishCoaching(update protocol.CoachingUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		log.Error("telemetry marshal error", "error", err)
		return
	}

	// Fire and forget; the frame loop does not wait on the broker.
	p.client.Publish(p.config.Topic, 0, false, payload)
}

// Close disconnects from the broker, allowing in-flight publishes a
// short grace period.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
