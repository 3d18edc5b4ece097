// Command catalogload copies a catalog file (or the built-in catalog) into the Postgres products table.
package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/aurora-storefront/internal/adapter/repo"
	"github.com/example/aurora-storefront/internal/adapter/seed"
	"github.com/example/aurora-storefront/internal/config"
	"github.com/example/aurora-storefront/internal/logging"
)

func main() {
	var cfgPath, file string
	cmd := &cobra.Command{
		Use:          "catalogload",
		Short:        "Load products into Postgres",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.Catalog.File
			}
			return run(cmd.Context(), cfg, file)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog JSON file (default: built-in catalog)")
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, file string) error {
	log, err := logging.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return errors.Wrap(err, "db connect")
	}
	defer pool.Close()
	if err := repo.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	products := repo.NewPostgresCatalogRepo(pool)
	position := 0
	err = seed.FileCatalog{Path: file}.LoadAll(ctx, func(id string, raw []byte) error {
		if id == "" {
			log.Warn("skipping product without id", zap.Int("position", position))
			return nil
		}
		position++
		return products.Insert(ctx, position, id, raw)
	})
	if err != nil {
		return err
	}
	log.Info("catalog loaded into database", zap.Int("products", position))
	return nil
}
