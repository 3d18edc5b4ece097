// Package seed — встроенный каталог товаров.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/example/aurora-storefront/internal/domain"
)

//go:embed catalog.json
var builtin []byte

// FileCatalog — JSON-массив товаров из Path или встроенный каталог, если Path пуст.
type FileCatalog struct {
	Path string
}

func (f FileCatalog) LoadAll(ctx context.Context, fn func(id string, raw []byte) error) error {
	data := builtin
	if f.Path != "" {
		b, err := os.ReadFile(f.Path)
		if err != nil {
			return errors.Wrap(err, "read catalog file")
		}
		data = b
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return errors.Wrap(err, "decode catalog")
	}
	for _, raw := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		var head struct {
			ProductID string `json:"productId"`
		}
		// что делать с негодными записями, решает загрузчик
		_ = json.Unmarshal(raw, &head)
		if err := fn(head.ProductID, raw); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.CatalogSource = FileCatalog{}
