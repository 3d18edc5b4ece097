package cache

import (
	"sync"

	"github.com/example/aurora-storefront/internal/domain"
)

// MemoryCatalog — товары по id с сохранением порядка загрузки.
type MemoryCatalog struct {
	mu    sync.RWMutex
	store map[string]domain.Product
	order []string
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{store: make(map[string]domain.Product)}
}

func (c *MemoryCatalog) Get(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.store[id]
	return p, ok
}

// Set — добавить или заменить товар; заменённый сохраняет позицию в списке.
func (c *MemoryCatalog) Set(p domain.Product) {
	c.mu.Lock()
	if _, ok := c.store[p.ProductID]; !ok {
		c.order = append(c.order, p.ProductID)
	}
	c.store[p.ProductID] = p
	c.mu.Unlock()
}

func (c *MemoryCatalog) All() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.store[id])
	}
	return out
}

func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

var _ domain.Catalog = (*MemoryCatalog)(nil)
