package bridge

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"graspctl/internal/feed"
)

// Conn is a NATS connection for the bridge.
type Conn struct {
	nc *nats.Conn
}

// Connect dials the NATS server at url. The connection keeps reconnecting
// in the background if the server goes away.
func Connect(url, clientName string) (*Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Conn{nc: nc}, nil
}

// Publish implements [Publisher].
func (c *Conn) Publish(subject string, data []byte) error {
	return c.nc.Publish(subject, data)
}

// SubscribeFeed delivers feed lines published on subject to handler. The
// handler runs on a NATS goroutine.
func (c *Conn) SubscribeFeed(subject string, handler func(feed.Event, error)) (*nats.Subscription, error) {
	sub, err := c.nc.Subscribe(subject, FeedHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return sub, nil
}

// Close flushes pending publishes and closes the connection.
func (c *Conn) Close() error {
	return c.nc.Drain()
}

// FeedHandler adapts handler to a NATS message handler that decodes each
// message as one feed line.
func FeedHandler(handler func(feed.Event, error)) nats.MsgHandler {
	return func(m *nats.Msg) {
		handler(feed.ParseSingle(string(m.Data)))
	}
}
