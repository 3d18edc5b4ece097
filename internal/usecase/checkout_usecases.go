package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/example/aurora-storefront/internal/domain"
)

const defaultSinkTimeout = 3 * time.Second

// Checkout — оформить корзину сессии в заказ и очистить корзину.
// Archive и Publisher необязательны; их ошибки только логируются.
type Checkout struct {
	IDs         domain.OrderIDGenerator
	Archive     domain.OrderArchive
	Publisher   domain.OrderPublisher
	Now         func() time.Time
	SinkTimeout time.Duration
	Log         *zap.Logger
}

func (uc Checkout) Execute(ctx context.Context, sess *domain.Session, buyer domain.Buyer, pay domain.Payment) (domain.Order, error) {
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}

	sess.Lock()
	if sess.Cart.Len() == 0 {
		sess.Unlock()
		return domain.Order{}, domain.ErrEmptyCart
	}
	order := domain.NewOrder(uc.IDs.NextOrderID(), sess.ID, sess.Cart.Lines(), buyer, pay, now())
	stored := order.Clone()
	sess.LastOrder = &stored
	sess.Cart.Clear()
	sess.Unlock()

	uc.forward(ctx, order)
	return order, nil
}

func (uc Checkout) forward(ctx context.Context, order domain.Order) {
	if uc.Archive == nil && uc.Publisher == nil {
		return
	}
	log := uc.Log
	if log == nil {
		log = zap.NewNop()
	}
	raw, err := json.Marshal(order)
	if err != nil {
		log.Error("encode order", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	timeout := uc.SinkTimeout
	if timeout <= 0 {
		timeout = defaultSinkTimeout
	}
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if uc.Archive != nil {
		if err := uc.Archive.Upsert(sinkCtx, order.ID, raw); err != nil {
			log.Warn("order archive failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if uc.Publisher != nil {
		if err := uc.Publisher.Publish(sinkCtx, raw); err != nil {
			log.Warn("order publish failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}

// GetOrder — последний заказ сессии при точном совпадении orderID.
type GetOrder struct{}

func (uc GetOrder) Execute(sess *domain.Session, orderID string) (domain.Order, error) {
	sess.Lock()
	defer sess.Unlock()
	if sess.LastOrder == nil || sess.LastOrder.ID != orderID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return sess.LastOrder.Clone(), nil
}

// ArchiveIncomingOrder — сохранить сообщение заказа, полученное из брокера.
type ArchiveIncomingOrder struct {
	Archive domain.OrderArchive
}

func (uc ArchiveIncomingOrder) Execute(ctx context.Context, raw []byte) (domain.Order, error) {
	var o domain.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return domain.Order{}, err
	}
	if o.ID == "" {
		return domain.Order{}, domain.ErrValidation
	}
	if uc.Archive != nil {
		if err := uc.Archive.Upsert(ctx, o.ID, raw); err != nil {
			return domain.Order{}, err
		}
	}
	return o, nil
}
