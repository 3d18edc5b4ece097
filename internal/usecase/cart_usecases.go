package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/example/aurora-storefront/internal/domain"
)

// PlaceholderImage — картинка для товаров, выбывших из каталога.
const PlaceholderImage = "/images/placeholder.jpg"

// CartResult — состояние корзины сразу после операции.
type CartResult struct {
	Lines []domain.CartLine
	Total decimal.Decimal
	Count int
}

func snapshot(c *domain.Cart) CartResult {
	return CartResult{Lines: c.Lines(), Total: c.Total(), Count: c.Count()}
}

// ViewLine — строка корзины, дополненная текущими данными каталога.
type ViewLine struct {
	domain.CartLine
	Image string `json:"image"`
	Name  string `json:"name"`
}

type CartView struct {
	Lines []ViewLine
	Total decimal.Decimal
	Count int
}

// CartInput — нормализованный запрос корзины; Quantity < 1 означает «не задано».
type CartInput struct {
	ProductID string
	Color     string
	Size      string
	Quantity  int
}

func (in CartInput) Key() domain.LineKey {
	return domain.LineKey{ProductID: in.ProductID, Color: in.Color, Size: in.Size}
}

type GetCart struct {
	Catalog domain.Catalog
}

func (uc GetCart) Execute(sess *domain.Session) CartView {
	sess.Lock()
	res := snapshot(&sess.Cart)
	sess.Unlock()

	view := CartView{Lines: make([]ViewLine, 0, len(res.Lines)), Total: res.Total, Count: res.Count}
	for _, l := range res.Lines {
		v := ViewLine{CartLine: l, Image: PlaceholderImage, Name: l.ProductName}
		if p, ok := uc.Catalog.Get(l.ProductID); ok {
			v.Image = p.Image
		}
		view.Lines = append(view.Lines, v)
	}
	return view
}

type AddItem struct {
	Catalog domain.Catalog
}

func (uc AddItem) Execute(sess *domain.Session, in CartInput) (CartResult, error) {
	p, ok := uc.Catalog.Get(in.ProductID)
	if !ok {
		return CartResult{}, domain.ErrProductNotFound
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	sess.Lock()
	defer sess.Unlock()
	if err := sess.Cart.Add(p, in.Color, in.Size, qty); err != nil {
		return CartResult{}, err
	}
	return snapshot(&sess.Cart), nil
}

type UpdateQuantity struct{}

func (uc UpdateQuantity) Execute(sess *domain.Session, key domain.LineKey, delta int) (CartResult, error) {
	sess.Lock()
	defer sess.Unlock()
	found, err := sess.Cart.Adjust(key, delta)
	if !found {
		return CartResult{}, domain.ErrLineNotFound
	}
	if err != nil {
		return CartResult{}, err
	}
	return snapshot(&sess.Cart), nil
}

type RemoveItem struct{}

func (uc RemoveItem) Execute(sess *domain.Session, key domain.LineKey) CartResult {
	sess.Lock()
	defer sess.Unlock()
	sess.Cart.Remove(key)
	return snapshot(&sess.Cart)
}

// SyncCart — восстановить корзину из клиентской копии, если серверная пуста.
// Непустая серверная корзина всегда главнее.
type SyncCart struct {
	Catalog domain.Catalog
}

func (uc SyncCart) Execute(sess *domain.Session, client []CartInput) CartResult {
	sess.Lock()
	defer sess.Unlock()
	if sess.Cart.Len() > 0 {
		return snapshot(&sess.Cart)
	}
	for _, in := range client {
		if in.Quantity < 1 {
			continue
		}
		p, ok := uc.Catalog.Get(in.ProductID)
		if !ok {
			continue
		}
		// строки с недопустимым количеством отбрасываем, остальные восстанавливаем
		_ = sess.Cart.Add(p, in.Color, in.Size, in.Quantity)
	}
	return snapshot(&sess.Cart)
}
