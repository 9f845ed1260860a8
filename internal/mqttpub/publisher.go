// Package mqttpub publishes appliance snapshots to an MQTT broker.
//
// Every poll produces one retained JSON state message on
// <prefix>/<appliance>/state. The availability topic <prefix>/<appliance>/availability
// carries "online" after a successful load and "offline" after a failed one
// or when the connection drops (last will).
package mqttpub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/logging"
	"go.uber.org/zap"
)

const (
	DefaultPrefix   = "vzug"
	DefaultInterval = 30 * time.Second

	payloadOnline  = "online"
	payloadOffline = "offline"
)

// Conn is the subset of an MQTT client the publisher needs.
type Conn interface {
	Publish(topic string, payload []byte, retain bool) error
	Close()
}

// Config describes the broker connection.
type Config struct {
	Broker   string // e.g. tcp://localhost:1883
	Username string
	Password string
	ClientID string // generated when empty
	Prefix   string
	Node     string // topic segment for the appliance
}

type pahoConn struct {
	client mqtt.Client
}

// Dial connects to the broker. The availability topic of cfg.Node is
// registered as last will.
func Dial(cfg Config) (Conn, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "vzug-" + uuid.NewString()
	}
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetWill(Topics(cfg.Prefix, cfg.Node).Availability, payloadOffline, 1, true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Broker, token.Error())
	}
	logging.Info("Connected to MQTT broker",
		zap.String("broker", cfg.Broker),
		zap.String("client_id", clientID),
	)
	return &pahoConn{client: client}, nil
}

func (c *pahoConn) Publish(topic string, payload []byte, retain bool) error {
	if token := c.client.Publish(topic, 1, retain, payload); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (c *pahoConn) Close() {
	c.client.Disconnect(250)
}

// TopicSet names the topics of one appliance.
type TopicSet struct {
	State        string
	Availability string
}

// Topics returns the topics for node below prefix.
func Topics(prefix, node string) TopicSet {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	base := strings.TrimSuffix(prefix, "/") + "/" + NodeName(node)
	return TopicSet{
		State:        base + "/state",
		Availability: base + "/availability",
	}
}

// NodeName turns a nickname or host into a single topic level.
func NodeName(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "http://"), "https://")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// Publisher publishes snapshots of one appliance.
type Publisher struct {
	conn   Conn
	topics TopicSet
	now    func() time.Time
}

// NewPublisher creates a publisher for node on conn.
func NewPublisher(conn Conn, prefix, node string) *Publisher {
	return &Publisher{
		conn:   conn,
		topics: Topics(prefix, node),
		now:    time.Now,
	}
}

// Topics returns the topics this publisher writes.
func (p *Publisher) Topics() TopicSet { return p.topics }

// Publish sends the state message and the matching availability.
func (p *Publisher) Publish(s appliance.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := p.conn.Publish(p.topics.State, payload, true); err != nil {
		return fmt.Errorf("failed to publish state: %w", err)
	}

	availability := payloadOnline
	if s.Error != nil {
		availability = payloadOffline
	}
	if err := p.conn.Publish(p.topics.Availability, []byte(availability), true); err != nil {
		return fmt.Errorf("failed to publish availability: %w", err)
	}
	return nil
}

// Poll loads device once and publishes the result.
func (p *Publisher) Poll(ctx context.Context, device appliance.Device) error {
	ok := device.LoadAllInformation(ctx)
	if !ok {
		logging.Warn("Appliance load failed",
			zap.String("host", device.Basic().Host()),
			zap.Error(device.Basic().Err()),
		)
	}
	return p.Publish(appliance.TakeSnapshot(device, p.now()))
}

// Run polls device every interval until ctx is done. Publish errors are
// logged and do not stop the loop.
func (p *Publisher) Run(ctx context.Context, device appliance.Device, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := p.Poll(ctx, device); err != nil {
			logging.Error("Publish failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			_ = p.conn.Publish(p.topics.Availability, []byte(payloadOffline), true)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
