package database

import (
	"fmt"
	"time"

	"job-tracker/internal/common/config"

	"github.com/nats-io/nats.go"
)

// NATSClient wraps a NATS connection used for record lifecycle events.
type NATSClient struct {
	Conn *nats.Conn
}

// NewNATS connects with reconnects enabled so a broker restart does not
// drop the publisher.
func NewNATS(cfg config.NATSConfig) (*NATSClient, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.Timeout(5*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", cfg.URL, err)
	}
	return &NATSClient{Conn: nc}, nil
}

// Ping flushes the connection to confirm the server is reachable.
func (c *NATSClient) Ping() error {
	if err := c.Conn.FlushTimeout(3 * time.Second); err != nil {
		return fmt.Errorf("nats flush failed: %w", err)
	}
	return nil
}

// Close drains pending publishes, then closes.
func (c *NATSClient) Close() error {
	if c.Conn == nil {
		return nil
	}
	if err := c.Conn.Drain(); err != nil {
		c.Conn.Close()
		return err
	}
	return nil
}
