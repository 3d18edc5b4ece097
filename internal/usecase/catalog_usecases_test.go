package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/example/aurora-storefront/internal/adapter/cache"
	"github.com/example/aurora-storefront/internal/adapter/seed"
)

func TestLoadCatalogSkipsBadRecords(t *testing.T) {
	src := sliceSource{
		{id: "AUR-001", raw: `{"productId":"AUR-001","productName":"Tee","price":39.99}`},
		{id: "AUR-002", raw: `{"productId":"AUR-002","price":"oops"}`},
		{id: "", raw: `{"productName":"No id","price":5}`},
		{id: "AUR-003", raw: `{"productId":"AUR-003","price":-1}`},
		{id: "AUR-004", raw: `{"productName":"Id from key","price":12}`},
	}
	c := cache.NewMemoryCatalog()
	n, err := LoadCatalog{Source: src, Cache: c, Log: zaptest.NewLogger(t)}.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok := c.Get("AUR-001")
	assert.True(t, ok)
	p, ok := c.Get("AUR-004")
	require.True(t, ok)
	assert.Equal(t, "Id from key", p.ProductName)
	_, ok = c.Get("AUR-003")
	assert.False(t, ok)
}

type failingSource struct{ err error }

func (f failingSource) LoadAll(context.Context, func(string, []byte) error) error { return f.err }

func TestLoadCatalogSourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := LoadCatalog{Source: failingSource{err: boom}, Cache: cache.NewMemoryCatalog()}.Execute(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestListProductsBuiltinCatalog(t *testing.T) {
	c := cache.NewMemoryCatalog()
	n, err := LoadCatalog{Source: seed.FileCatalog{}, Cache: c}.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 36, n)

	products := ListProducts{Catalog: c}.Execute()
	require.Len(t, products, 36)
	assert.Equal(t, "AUR-001", products[0].ProductID)
	assert.Equal(t, "39.99", products[0].Price.String())
}
