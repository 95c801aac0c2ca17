package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"catalogo/internal"
)

const DefaultKey = "carrinho"

var ErrInvalidItem = errors.New("cart: item id is required")

type KV interface {
	Get(ctx context.Context, key string) (*string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	kv  KV
	key string
	mu  sync.Mutex
}

func NewStore(kv KV, key string) *Store {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// Add increments the quantity of an existing id or appends a new entry with
// quantity 1. The whole list is rewritten under the store key.
func (s *Store) Add(ctx context.Context, id, sku, name string) ([]internal.CartEntry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range entries {
		if entries[i].ID == id {
			entries[i].Qty++
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, internal.CartEntry{ID: id, SKU: sku, Name: name, Qty: 1})
	}

	b, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return entries, nil
}

func (s *Store) List(ctx context.Context) ([]internal.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// read treats a missing or undecodable value as an empty cart.
func (s *Store) read(ctx context.Context) ([]internal.CartEntry, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	entries := []internal.CartEntry{}
	if raw == nil {
		return entries, nil
	}
	if err := json.Unmarshal([]byte(*raw), &entries); err != nil {
		return []internal.CartEntry{}, nil
	}
	if entries == nil {
		entries = []internal.CartEntry{}
	}
	return entries, nil
}
