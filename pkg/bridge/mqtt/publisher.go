// Package mqtt publishes decoded broadcast packets to an MQTT broker, one
// subtopic per packet kind.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"um7go/pkg/protocol"
)

const connectTimeout = 5 * time.Second

// Publisher forwards packets from a hub subscription to a broker.
type Publisher struct {
	client paho.Client
	prefix string
	qos    byte
	log    zerolog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithQOS sets the publish quality of service (default 0).
func WithQOS(qos byte) Option {
	return func(p *Publisher) {
		p.qos = qos
	}
}

// WithLogger routes publish diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Publisher) {
		p.log = l
	}
}

// NewPublisher connects to brokerURL (tcp://host:port) and publishes under
// topicPrefix.
func NewPublisher(brokerURL, topicPrefix string, opts ...Option) (*Publisher, error) {
	p := &Publisher{
		prefix: strings.TrimSuffix(topicPrefix, "/"),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	clientOpts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(fmt.Sprintf("um7d-%d", time.Now().UnixNano())).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	p.client = paho.NewClient(clientOpts)

	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", brokerURL, err)
	}
	return p, nil
}

// TopicFor builds the publish topic for a packet kind under a prefix.
func TopicFor(prefix, kind string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return kind
	}
	return prefix + "/" + kind
}

// Topic returns the publish topic for a packet kind.
func (p *Publisher) Topic(kind string) string {
	return TopicFor(p.prefix, kind)
}

// Publish sends one packet.
func (p *Publisher) Publish(pkt protocol.Broadcast) error {
	payload, err := json.Marshal(pkt)
	if err != nil {
		return fmt.Errorf("marshal %s packet: %w", pkt.Kind, err)
	}
	token := p.client.Publish(p.Topic(pkt.Kind), p.qos, false, payload)
	token.Wait()
	return token.Error()
}

// Consume drains a hub subscription until the context ends or the channel
// closes. Publish failures are logged, not fatal; the broker may come back.
func (p *Publisher) Consume(ctx context.Context, in <-chan protocol.Broadcast) {
	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-in:
			if !ok {
				return
			}
			if err := p.Publish(pkt); err != nil {
				p.log.Warn().Str("kind", pkt.Kind).Err(err).Msg("mqtt publish failed")
			}
		}
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
