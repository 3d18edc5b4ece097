// Command archiver copies orders published by the storefront into Postgres.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/aurora-storefront/internal/adapter/natsstan"
	"github.com/example/aurora-storefront/internal/adapter/repo"
	"github.com/example/aurora-storefront/internal/config"
	"github.com/example/aurora-storefront/internal/logging"
	"github.com/example/aurora-storefront/internal/usecase"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfgPath string
	cmd := &cobra.Command{
		Use:          "archiver",
		Short:        "Archive published orders into Postgres",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to a YAML config file")
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
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

	uc := usecase.ArchiveIncomingOrder{Archive: repo.NewPostgresOrderRepo(pool)}
	sub := &natsstan.Subscriber{
		ClusterID: cfg.Stan.ClusterID,
		URL:       cfg.Stan.URL,
		Subject:   cfg.Stan.Subject,
		Durable:   cfg.Stan.Durable,
		Queue:     "aurora-archivers",
		Log:       log,
	}
	err = sub.Subscribe(ctx, func(ctx context.Context, raw []byte) error {
		o, err := uc.Execute(ctx, raw)
		if err != nil {
			return err
		}
		log.Info("order archived", zap.String("order_id", o.ID), zap.String("revenue", o.Revenue.StringFixed(2)))
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("archiver subscribed", zap.String("subject", cfg.Stan.Subject))
	<-ctx.Done()
	return nil
}
