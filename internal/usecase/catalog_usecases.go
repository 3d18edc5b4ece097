package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/example/aurora-storefront/internal/domain"
)

// ListProducts — весь каталог в порядке загрузки.
type ListProducts struct {
	Catalog domain.Catalog
}

func (uc ListProducts) Execute() []domain.Product {
	return uc.Catalog.All()
}

// LoadCatalog — заполнить кэш каталога из источника при старте.
// Записи без id, с отрицательной ценой или нечитаемые пропускаются.
type LoadCatalog struct {
	Source domain.CatalogSource
	Cache  domain.CatalogCache
	Log    *zap.Logger
}

func (uc LoadCatalog) Execute(ctx context.Context) (int, error) {
	log := uc.Log
	if log == nil {
		log = zap.NewNop()
	}
	loaded := 0
	err := uc.Source.LoadAll(ctx, func(id string, raw []byte) error {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			log.Warn("skipping undecodable product", zap.String("id", id), zap.Error(err))
			return nil
		}
		if p.ProductID == "" {
			p.ProductID = id
		}
		if p.ProductID == "" || p.Price.IsNegative() {
			log.Warn("skipping invalid product", zap.String("id", id))
			return nil
		}
		uc.Cache.Set(p)
		loaded++
		return nil
	})
	return loaded, err
}
