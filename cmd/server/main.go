package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/aurora-storefront/internal/adapter/cache"
	"github.com/example/aurora-storefront/internal/adapter/httpapi"
	"github.com/example/aurora-storefront/internal/adapter/idgen"
	"github.com/example/aurora-storefront/internal/adapter/natsstan"
	"github.com/example/aurora-storefront/internal/adapter/repo"
	"github.com/example/aurora-storefront/internal/adapter/seed"
	"github.com/example/aurora-storefront/internal/adapter/session"
	"github.com/example/aurora-storefront/internal/config"
	"github.com/example/aurora-storefront/internal/domain"
	"github.com/example/aurora-storefront/internal/logging"
	"github.com/example/aurora-storefront/internal/usecase"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:          "storefront",
		Short:        "Aurora Apparel storefront: catalog, session cart and checkout API",
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
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.Logger)
	if err != nil {
		return pkgerrors.Wrap(err, "init logger")
	}
	defer func() { _ = log.Sync() }()

	ids, err := idgen.NewSnowflake(cfg.Checkout.NodeID)
	if err != nil {
		return err
	}

	var source domain.CatalogSource = seed.FileCatalog{Path: cfg.Catalog.File}
	checkout := usecase.Checkout{IDs: ids, SinkTimeout: cfg.Checkout.SinkTimeout, Log: log}

	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return pkgerrors.Wrap(err, "db connect")
		}
		defer pool.Close()
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		checkout.Archive = repo.NewPostgresOrderRepo(pool)
		if cfg.Catalog.FromDatabase {
			source = repo.NewPostgresCatalogRepo(pool)
		}
		log.Info("order archive enabled")
	}

	if cfg.Stan.Enabled {
		pub, err := natsstan.NewPublisher(cfg.Stan.ClusterID, cfg.Stan.ClientID, cfg.Stan.URL, cfg.Stan.Subject)
		if err != nil {
			// orders still work without the broker
			log.Warn("order publishing disabled", zap.Error(err))
		} else {
			defer pub.Close()
			checkout.Publisher = pub
			log.Info("order publishing enabled", zap.String("subject", cfg.Stan.Subject))
		}
	}

	catalog := cache.NewMemoryCatalog()
	n, err := usecase.LoadCatalog{Source: source, Cache: catalog, Log: log}.Execute(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "load catalog")
	}
	if n == 0 {
		return pkgerrors.New("catalog is empty")
	}
	log.Info("catalog loaded", zap.Int("products", n))

	api := httpapi.NewServer(httpapi.Options{
		Catalog:      catalog,
		Sessions:     session.NewMemoryStore(),
		Cookies:      httpapi.NewCookieCodec(cfg.Session.CookieName, []byte(cfg.Session.HashKey), cfg.Session.Secure),
		Checkout:     checkout,
		Log:          log,
		WebDir:       cfg.HTTP.WebDir,
		Production:   cfg.IsProduction(),
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return pkgerrors.Wrap(err, "http")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
