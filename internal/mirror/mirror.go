// Package mirror — клиентское зеркало корзины: вызывает HTTP API витрины,
// хранит полученную корзину локально и пишет события аналитики.
//
// Неудачный вызов не меняет ни хранилище, ни data layer.
package mirror

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/aurora-storefront/internal/domain"
)

// RejectedError — вызов, на который витрина ответила success=false.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return "storefront rejected request: " + e.Message }

type Mirror struct {
	Client  *Client
	Layer   *DataLayer
	Storage CartStorage
	Now     func() time.Time
	Log     *zap.Logger
}

func New(client *Client, store Storage, log *zap.Logger) *Mirror {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mirror{
		Client:  client,
		Layer:   NewDataLayer(),
		Storage: CartStorage{Store: store, Log: log},
		Now:     time.Now,
		Log:     log,
	}
}

func (m *Mirror) now() time.Time {
	if m.Now == nil {
		return time.Now().UTC()
	}
	return m.Now().UTC()
}

func (m *Mirror) push(name string, products []ProductRef, cart *CartSnapshot, order *OrderSummary) {
	cust := Guest
	m.Layer.Push(Event{
		Event:     name,
		CustData:  &cust,
		EventInfo: &EventInfo{EventName: name},
		Product:   products,
		Cart:      cart,
		Order:     order,
		Timestamp: m.now(),
	})
}

// Restore — отправить сохранённую корзину в data layer, если в ней есть товары.
func (m *Mirror) Restore() bool {
	snap := m.Storage.LoadState()
	if len(snap.Items) == 0 {
		return false
	}
	m.Log.Debug("restoring cart from storage", zap.Int("items", len(snap.Items)))
	m.Layer.Push(Event{Event: EventCartUpdate, Cart: &snap, Timestamp: m.now()})
	return true
}

// Refresh — предложить серверу сохранённые строки, затем получить и сохранить корзину.
// Возвращает число единиц для значка в шапке.
func (m *Mirror) Refresh(ctx context.Context) (int, error) {
	if _, err := m.Client.Sync(ctx, m.Storage.LoadLines()); err != nil {
		m.Log.Warn("could not sync cart with server", zap.Error(err))
	}
	res, err := m.Client.Cart(ctx)
	if err != nil {
		return 0, err
	}
	lines := res.Lines()
	m.Storage.SaveLines(lines)
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return count, nil
}

func (m *Mirror) ProductClick(p domain.Product, position int) {
	m.push(EventProductClick, []ProductRef{{
		ProductID: p.ProductID,
		Name:      p.ProductName,
		Brand:     p.Brand,
		Category:  p.ProductCategory,
		Price:     p.Price,
		Position:  position,
	}}, nil, nil)
}

func (m *Mirror) OpenCart() {
	m.push(EventCartOpen, nil, nil, nil)
}

func (m *Mirror) applied(res CartResponse, err error) (CartSnapshot, error) {
	if err != nil {
		return CartSnapshot{}, err
	}
	if !res.Success {
		return CartSnapshot{}, &RejectedError{Message: res.Message}
	}
	m.Storage.SaveLines(res.Lines())
	return m.Storage.SaveState(res.Lines()), nil
}

// AddToCart — добавить qty единиц и записать scAdd с товаром и новой корзиной.
func (m *Mirror) AddToCart(ctx context.Context, key domain.LineKey, qty int) (CartResponse, error) {
	res, err := m.Client.Add(ctx, AddRequest{ID: key.ProductID, Color: key.Color, Size: key.Size, Quantity: qty})
	snap, err := m.applied(res, err)
	if err != nil {
		return res, errors.Wrap(err, "add to cart")
	}
	ref := ProductRef{ProductID: key.ProductID, Quantity: qty}
	for _, l := range res.Lines() {
		if l.Key() == key {
			ref.Name = l.DisplayName()
			ref.Price = l.Price
			break
		}
	}
	m.push(EventCartAdd, []ProductRef{ref}, &snap, nil)
	return res, nil
}

// UpdateQuantity — применить delta и записать cartUpdate.
func (m *Mirror) UpdateQuantity(ctx context.Context, key domain.LineKey, delta int) (CartResponse, error) {
	res, err := m.Client.Update(ctx, key, delta)
	snap, err := m.applied(res, err)
	if err != nil {
		return res, errors.Wrap(err, "update quantity")
	}
	m.push(EventCartUpdate, nil, &snap, nil)
	return res, nil
}

// RemoveFromCart — удалить строку и записать scRemove со строкой до удаления.
func (m *Mirror) RemoveFromCart(ctx context.Context, line Line) (CartResponse, error) {
	res, err := m.Client.Remove(ctx, line.Key())
	snap, err := m.applied(res, err)
	if err != nil {
		return res, errors.Wrap(err, "remove from cart")
	}
	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}
	m.push(EventCartRemove, []ProductRef{{
		ProductID: line.ProductID,
		Name:      line.DisplayName(),
		Price:     line.Price,
		Quantity:  qty,
	}}, &snap, nil)
	return res, nil
}

// Checkout — оформить заказ, перечитать его, записать purchase и очистить хранилище.
func (m *Mirror) Checkout(ctx context.Context, req CheckoutRequest) (domain.Order, error) {
	res, err := m.Client.Checkout(ctx, req)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "checkout")
	}
	if !res.Success {
		return domain.Order{}, &RejectedError{Message: res.Message}
	}
	order, err := m.Client.Order(ctx, res.OrderID)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "fetch order")
	}
	summary := OrderSummary{OrderID: order.ID, Revenue: order.Revenue, Currency: Currency, Items: []SnapshotItem{}}
	for _, it := range order.Items {
		summary.Items = append(summary.Items, SnapshotItem{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	m.Storage.Clear()
	empty := EmptySnapshot()
	m.push(EventPurchase, nil, &empty, &summary)
	return order, nil
}
