// Package notify forwards catalog events to NATS subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/vmunix/streamiz/internal/events"
)

const (
	// DefaultSubjectPrefix is prepended to every event type.
	DefaultSubjectPrefix = "streamiz"

	defaultMaxReconnects = 5
	defaultReconnectWait = 2 * time.Second
	subscriptionBuffer   = 256
)

// Publisher sends a message to a subject. *nats.Conn implements it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials NATS once and reconnects a bounded number of times after
// the initial connection succeeds.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("streamiz"),
		nats.MaxReconnects(defaultMaxReconnects),
		nats.ReconnectWait(defaultReconnectWait),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s (max_reconnects=%d, wait=%s): %w",
			url, defaultMaxReconnects, defaultReconnectWait, err)
	}
	return nc, nil
}

// Notifier publishes every bus event as JSON on <prefix>.<event type>.
type Notifier struct {
	bus    *events.Bus
	pub    Publisher
	prefix string
	log    *zap.Logger
}

// New creates a notifier. An empty prefix uses DefaultSubjectPrefix.
func New(bus *events.Bus, pub Publisher, prefix string, log *zap.Logger) *Notifier {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{bus: bus, pub: pub, prefix: prefix, log: log}
}

// Subject returns the subject an event type is published on.
func (n *Notifier) Subject(eventType string) string {
	return n.prefix + "." + eventType
}

// Run forwards events until ctx is canceled or the bus is closed.
func (n *Notifier) Run(ctx context.Context) error {
	ch := n.bus.Subscribe(subscriptionBuffer)
	defer n.bus.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			n.forward(e)
		}
	}
}

func (n *Notifier) forward(e events.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		n.log.Error("encode event", zap.String("type", e.EventType()), zap.Error(err))
		return
	}
	subject := n.Subject(e.EventType())
	if err := n.pub.Publish(subject, data); err != nil {
		n.log.Warn("publish event", zap.String("subject", subject), zap.Error(err))
		return
	}
	n.log.Debug("event published", zap.String("subject", subject), zap.String("entity_id", e.EntityID()))
}
