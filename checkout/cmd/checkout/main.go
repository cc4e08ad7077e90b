package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convenience_store/checkout/internal/auth"
	"convenience_store/checkout/internal/config"
	"convenience_store/checkout/internal/flow"
	"convenience_store/checkout/internal/handler"
	"convenience_store/checkout/internal/logic"
	"convenience_store/checkout/internal/session"
	"convenience_store/checkout/internal/store"
	"convenience_store/checkout/internal/view"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "W convenience store checkout",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Value: "checkout/.env", Usage: "dotenv file to load"},
			&cli.StringFlag{Name: "products", Usage: "products file (overrides CATALOG_PRODUCTS)"},
			&cli.StringFlag{Name: "promotions", Usage: "promotions file (overrides CATALOG_PROMOTIONS)"},
			&cli.BoolFlag{Name: "debug", Usage: "development logging"},
		},
		Action: shop,
		Commands: []*cli.Command{
			{
				Name:   "shop",
				Usage:  "interactive checkout on the terminal",
				Action: shop,
			},
			{
				Name:  "serve",
				Usage: "serve the checkout HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "listen port (overrides HTTP_PORT)"},
				},
				Action: serve,
			},
			{
				Name:  "member-token",
				Usage: "issue a membership token for the API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "member", Required: true},
					&cli.DurationFlag{Name: "ttl", Value: 30 * 24 * time.Hour},
				},
				Action: memberToken,
			},
			{
				Name:  "catalog",
				Usage: "print the catalog, optionally importing it into postgres",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "import", Usage: "upsert the file catalog into DATABASE_URL"},
				},
				Action: printCatalog,
			},
		},
	}
}

// setup loads configuration and builds the logger every command shares.
func setup(cmd *cli.Command) (config.Config, *zap.Logger, error) {
	cfg, loaded, err := config.Load(cmd.String("env"))
	if err != nil {
		return cfg, nil, err
	}
	if v := cmd.String("products"); v != "" {
		cfg.ProductsPath = v
	}
	if v := cmd.String("promotions"); v != "" {
		cfg.PromotionsPath = v
	}

	var logger *zap.Logger
	if cmd.Bool("debug") {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	if !loaded {
		logger.Debug("no env file, using process environment", zap.String("file", cmd.String("env")))
	}
	return cfg, logger, nil
}

func shop(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalog, err := store.LoadFiles(cfg.ProductsPath, cfg.PromotionsPath)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("products", len(catalog.Entries())), zap.String("file", cfg.ProductsPath))

	pricer := session.NewPricer(catalog, cfg.Membership, nil, logger)
	f := flow.New(pricer, flow.NewConsole(os.Stdin), view.NewPrinter(os.Stdout), logger)
	if err := f.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if v := cmd.String("port"); v != "" {
		cfg.HTTPPort = v
	}

	// 1. Catalog, mirrored in postgres when configured
	var mirror session.StockMirror
	var catalog *logic.Catalog
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		catalogStore := store.NewCatalogStore(db)
		catalog, err = dbCatalog(ctx, catalogStore, cfg, logger)
		if err != nil {
			return err
		}
		mirror = catalogStore
	} else {
		catalog, err = store.LoadFiles(cfg.ProductsPath, cfg.PromotionsPath)
		if err != nil {
			return err
		}
		logger.Warn("DATABASE_URL not set, stock lives in memory only")
	}

	// 2. Receipt cache
	var cache handler.ReceiptCache
	if cfg.RedisAddr != "" {
		mem := store.NewMemoryStore(cfg.RedisAddr, cfg.RedisPW, cfg.RedisDB, cfg.ReceiptTTL)
		defer mem.Close()
		if err := mem.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		cache = mem
	} else {
		logger.Warn("REDIS_ADDR not set, receipts are not kept and idempotency keys are ignored")
	}

	// 3. Membership tokens
	var signer *auth.Signer
	if cfg.JWTSecret != "" {
		signer, err = auth.NewSigner(cfg.JWTSecret, 0)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("JWT_SECRET not set, membership discounts are disabled on the API")
	}

	// 4. HTTP server
	if !cmd.Bool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	pricer := session.NewPricer(catalog, cfg.Membership, mirror, logger)
	h := handler.NewCheckoutHandler(pricer, cache, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.NewRouter(h, signer, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("checkout API listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// dbCatalog loads the catalog table, seeding it from the files when empty.
func dbCatalog(ctx context.Context, s *store.CatalogStore, cfg config.Config, logger *zap.Logger) (*logic.Catalog, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	catalog, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog.Entries()) > 0 {
		logger.Info("catalog loaded from database", zap.Int("products", len(catalog.Entries())))
		return catalog, nil
	}

	seed, err := store.LoadFiles(cfg.ProductsPath, cfg.PromotionsPath)
	if err != nil {
		return nil, err
	}
	n, err := s.ImportCatalog(ctx, seed)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog table seeded from files", zap.Int("products", n))
	return s.Load(ctx)
}

func memberToken(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	signer, err := auth.NewSigner(cfg.JWTSecret, cmd.Duration("ttl"))
	if err != nil {
		return err
	}
	token, err := signer.GenerateMemberToken(cmd.String("member"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func printCatalog(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalog, err := store.LoadFiles(cfg.ProductsPath, cfg.PromotionsPath)
	if err != nil {
		return err
	}
	view.NewPrinter(os.Stdout).Catalog(catalog.Entries())

	if !cmd.Bool("import") {
		return nil
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for --import")
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	s := store.NewCatalogStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	names := make([]string, 0, len(catalog.Entries()))
	for _, e := range catalog.Entries() {
		names = append(names, e.Name())
	}
	existing, err := s.GetItemsByNames(ctx, names)
	if err != nil {
		return err
	}

	n, err := s.ImportCatalog(ctx, catalog)
	if err != nil {
		return err
	}
	logger.Info("catalog imported",
		zap.Int("products", n),
		zap.Int("updated", len(existing)),
		zap.Int("created", n-len(existing)))
	return nil
}
