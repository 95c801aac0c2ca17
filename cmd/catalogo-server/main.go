package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalogo/internal/cart"
	"catalogo/internal/catalog"
	"catalogo/internal/config"
	"catalogo/internal/logging"
	"catalogo/internal/observability"
	"catalogo/internal/server"
	"catalogo/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewMetrics()
	cat, loadErr := catalog.NewLoader(catalog.NewClient(cfg), log).Load(ctx, catalog.DefaultSources(cfg))
	metrics.ObserveLoad(cat, loadErr)

	kv, err := storage.OpenKV(ctx, cfg)
	must(err)
	defer kv.Close()

	srv := server.New(server.Options{
		Catalog:      cat,
		LoadErr:      loadErr,
		Cart:         cart.NewStore(kv, cfg.CartKey),
		PageSize:     cfg.PageSize,
		AllowOrigins: cfg.CORSAllowOrigins,
		Log:          log,
		Metrics:      metrics,
	})
	must(srv.Run(ctx, cfg.HTTPAddr))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
