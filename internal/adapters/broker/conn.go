package broker

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jsamuelsen11/salesflow/internal/platform/config"
)

// ExchangeKind is the type of the declared exchange. Consumers bind queues
// with patterns such as "opportunity.*" or "*.ProjectCreated".
const ExchangeKind = "topic"

// Conn owns the AMQP connection and the channel the relay publishes on.
type Conn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to cfg.URL, opens a channel and declares the durable event
// exchange.
func Dial(cfg *config.BrokerConfig) (*Conn, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		ExchangeKind,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declaring exchange %q: %w", cfg.Exchange, err)
	}

	return &Conn{conn: conn, ch: ch}, nil
}

// Channel returns the publishing channel.
func (c *Conn) Channel() *amqp.Channel {
	return c.ch
}

// IsClosed reports whether the connection has been closed by either side.
func (c *Conn) IsClosed() bool {
	return c.conn.IsClosed()
}

// Close closes the channel and the connection.
func (c *Conn) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}
