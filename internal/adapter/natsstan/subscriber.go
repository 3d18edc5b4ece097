package natsstan

import (
	"context"
	"fmt"
	"time"

	stan "github.com/nats-io/stan.go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/aurora-storefront/internal/domain"
)

// DefaultAckWait — срок подтверждения, после которого сервер переотправляет сообщение.
const DefaultAckWait = 10 * time.Second

// Subscriber — потребитель заказов с ручным подтверждением; ошибка обработчика оставляет сообщение на переотправку.
type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
	Queue     string
	AckWait   time.Duration
	Log       *zap.Logger
}

// Subscribe — подписаться на Subject; соединение закрывается по отмене ctx.
func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	clientID := s.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("aurora-archiver-%d", time.Now().UnixNano())
	}
	ackWait := s.AckWait
	if ackWait <= 0 {
		ackWait = DefaultAckWait
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return errors.Wrap(err, "stan connect")
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	_, err = sc.QueueSubscribe(s.Subject, s.Queue, func(m *stan.Msg) {
		hCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := handler(hCtx, m.Data); err != nil {
			// не подтверждаем, сообщение придёт повторно после AckWait
			log.Warn("order message rejected", zap.Uint64("seq", m.Sequence), zap.Error(err))
			return
		}
		if err := m.Ack(); err != nil {
			log.Warn("ack failed", zap.Uint64("seq", m.Sequence), zap.Error(err))
		}
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(ackWait), stan.DeliverAllAvailable())
	return errors.Wrap(err, "stan subscribe")
}

var _ domain.MessageSubscriber = (*Subscriber)(nil)
