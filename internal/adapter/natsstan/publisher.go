package natsstan

import (
	"context"
	"sync"

	stan "github.com/nats-io/stan.go"
	"github.com/pkg/errors"

	"github.com/example/aurora-storefront/internal/domain"
)

// Publisher — отправка оформленных заказов в канал NATS Streaming.
type Publisher struct {
	mu      sync.Mutex
	conn    stan.Conn
	subject string
}

// ErrPublisherClosed — публикация после Close.
var ErrPublisherClosed = errors.New("publisher closed")

func NewPublisher(clusterID, clientID, url, subject string) (*Publisher, error) {
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, errors.Wrap(err, "stan connect")
	}
	return &Publisher{conn: sc, subject: subject}, nil
}

// Publish — опубликовать raw и дождаться подтверждения сервера или отмены ctx.
func (p *Publisher) Publish(ctx context.Context, raw []byte) error {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return ErrPublisherClosed
	}
	done := make(chan error, 1)
	if _, err := conn.PublishAsync(p.subject, raw, func(_ string, err error) { done <- err }); err != nil {
		return errors.Wrap(err, "stan publish")
	}
	select {
	case err := <-done:
		return errors.Wrap(err, "stan publish ack")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

var _ domain.OrderPublisher = (*Publisher)(nil)
