package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/example/aurora-storefront/internal/adapter/cache"
	"github.com/example/aurora-storefront/internal/domain"
)

func testCatalog() *cache.MemoryCatalog {
	c := cache.NewMemoryCatalog()
	c.Set(domain.Product{
		ProductID: "AUR-001", ProductName: "Premium Cotton Crew Neck Tee", ProductCategory: "Essentials",
		Brand: "Aurora Apparel", Price: decimal.RequireFromString("39.99"), Image: "/img/tee.jpg",
	})
	c.Set(domain.Product{
		ProductID: "AUR-002", ProductName: "High-Waisted Slim Fit Jeans", ProductCategory: "Denim",
		Brand: "Aurora Apparel", Price: decimal.RequireFromString("89.99"), Image: "/img/jeans.jpg",
	})
	return c
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NextOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("ORD-%d", s.n)
}

type fakeArchive struct {
	mu   sync.Mutex
	rows map[string][]byte
	err  error
}

func (f *fakeArchive) Upsert(_ context.Context, id string, raw []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.rows == nil {
		f.rows = map[string][]byte{}
	}
	f.rows[id] = raw
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs [][]byte
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, raw []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, raw)
	return nil
}

type sliceSource []struct {
	id  string
	raw string
}

func (s sliceSource) LoadAll(ctx context.Context, fn func(id string, raw []byte) error) error {
	for _, r := range s {
		if err := fn(r.id, []byte(r.raw)); err != nil {
			return err
		}
	}
	return nil
}
