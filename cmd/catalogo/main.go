package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"catalogo/internal"
	"catalogo/internal/browser"
	"catalogo/internal/cart"
	"catalogo/internal/catalog"
	"catalogo/internal/config"
	"catalogo/internal/logging"
	"catalogo/internal/observability"
	"catalogo/internal/pipeline"
	"catalogo/internal/render"
	"catalogo/internal/server"
	"catalogo/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.Debug {
		log = log.Level(zerolog.DebugLevel)
	}
	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer cancel()

		metrics := observability.NewMetrics()
		cat, loadErr := loadCatalog(ctx, cfg, log)
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
	case "browse":
		ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer cancel()

		cat, loadErr := loadCatalog(ctx, cfg, log)
		kv, err := storage.OpenKV(ctx, cfg)
		must(err)
		defer kv.Close()

		var facets []internal.FacetEntry
		if cat != nil {
			facets = cat.Facets
		}
		repl := browser.NewREPL(browser.NewSession(cat, loadErr, cfg.PageSize), facets, cart.NewStore(kv, cfg.CartKey), os.Stdout, log)
		must(repl.Run(ctx, os.Stdin))
	case "search":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		q := fs.String("q", "", "search text")
		unit := fs.String("unit", internal.FacetAll, "unit facet or todas")
		page := fs.Int("page", 1, "page number")
		asJSON := fs.Bool("json", false, "print the view as json")
		_ = fs.Parse(os.Args[2:])

		cat, err := loadCatalog(ctx, cfg, log)
		must(err)
		view := browser.Compute(cat, internal.FilterState{Search: *q, Facet: *unit, Page: *page}, cfg.PageSize)
		if *asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			must(enc.Encode(view))
			return
		}
		must(render.Table(os.Stdout, view))
	case "facets":
		cat, err := loadCatalog(ctx, cfg, log)
		must(err)
		must(render.Facets(os.Stdout, cat.Facets))
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		q := fs.String("q", "", "search text")
		unit := fs.String("unit", internal.FacetAll, "unit facet or todas")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			*out = filepath.Join(cfg.OutputDir, "catalogo.xlsx")
		}

		cat, err := loadCatalog(ctx, cfg, log)
		must(err)
		records := pipeline.Filter(cat.Records, *q, *unit)
		if len(records) == 0 {
			must(fmt.Errorf("no records match q=%q unit=%q", *q, *unit))
		}
		must(pipeline.ExportRecordsToXLSX(records, *out))
		fmt.Printf("exported %d records to %s\n", len(records), *out)
	case "cart:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "item id")
		sku := fs.String("sku", "", "sku (defaults to id)")
		name := fs.String("name", "", "display name")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*id) == "" {
			must(fmt.Errorf("--id is required"))
		}
		if *sku == "" {
			*sku = *id
		}

		store, closeKV := openCart(ctx, cfg)
		defer closeKV()
		entries, err := store.Add(ctx, *id, *sku, *name)
		must(err)
		fmt.Printf("cart updated items=%d\n", len(entries))
	case "cart:list":
		store, closeKV := openCart(ctx, cfg)
		defer closeKV()
		entries, err := store.List(ctx)
		must(err)
		must(render.Cart(os.Stdout, entries))
	case "cart:clear":
		store, closeKV := openCart(ctx, cfg)
		defer closeKV()
		must(store.Clear(ctx))
		fmt.Println("cart cleared")
	default:
		usage()
		os.Exit(1)
	}
}

func loadCatalog(ctx context.Context, cfg config.Config, log zerolog.Logger) (*internal.Catalog, error) {
	loader := catalog.NewLoader(catalog.NewClient(cfg), log)
	return loader.Load(ctx, catalog.DefaultSources(cfg))
}

func openCart(ctx context.Context, cfg config.Config) (*cart.Store, func()) {
	kv, err := storage.OpenKV(ctx, cfg)
	must(err)
	return cart.NewStore(kv, cfg.CartKey), func() { _ = kv.Close() }
}

func usage() {
	fmt.Println("usage: catalogo <command>")
	fmt.Println("commands:")
	fmt.Println("  serve")
	fmt.Println("  browse")
	fmt.Println("  search [--q=...] [--unit=todas] [--page=1] [--json]")
	fmt.Println("  facets")
	fmt.Println("  export:xlsx [--q=...] [--unit=todas] [--out=./out/catalogo.xlsx]")
	fmt.Println("  cart:add --id=... [--sku=...] [--name=...]")
	fmt.Println("  cart:list")
	fmt.Println("  cart:clear")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
