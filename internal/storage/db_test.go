package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"catalogo/internal/config"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	got, err := kv.Get(ctx, "carrinho")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected missing key, got %q", *got)
	}

	if err := kv.Set(ctx, "carrinho", `[{"id":"A1"}]`); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, "carrinho", `[{"id":"B2"}]`); err != nil {
		t.Fatal(err)
	}
	got, err = kv.Get(ctx, "carrinho")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != `[{"id":"B2"}]` {
		t.Fatalf("got %v", got)
	}

	if err := kv.Delete(ctx, "carrinho"); err != nil {
		t.Fatal(err)
	}
	got, err = kv.Get(ctx, "carrinho")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("key still present after delete")
	}
}

func TestSQLiteKV(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	exerciseKV(t, db)
}

func TestSQLiteKVPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	ctx := context.Background()

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Set(ctx, "carrinho", "[]"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, err := db.Get(ctx, "carrinho")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != "[]" {
		t.Fatalf("got %v", got)
	}
}

func TestRedisKV(t *testing.T) {
	srv := miniredis.RunT(t)
	r, err := OpenRedis(context.Background(), "redis://"+srv.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	exerciseKV(t, r)
}

func TestOpenKV(t *testing.T) {
	cfg := config.Config{CartBackend: "sqlite", DBPath: filepath.Join(t.TempDir(), "app.db")}
	kv, err := OpenKV(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	_ = kv.Close()

	if _, err := OpenKV(context.Background(), config.Config{CartBackend: "redis"}); err == nil {
		t.Fatal("expected missing REDIS_URL error")
	}
	if _, err := OpenKV(context.Background(), config.Config{CartBackend: "etcd"}); err == nil {
		t.Fatal("expected unsupported backend error")
	}
}
