package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "lockdown"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := store.Set(ctx, "lockdown", []byte("true")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := store.Get(ctx, "lockdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != "true" {
		t.Errorf("got %q, want %q", raw, "true")
	}

	// Set replaces the previous value.
	if err := store.Set(ctx, "lockdown", []byte("false")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, _ = store.Get(ctx, "lockdown")
	if string(raw) != "false" {
		t.Errorf("got %q, want %q", raw, "false")
	}

	if err := store.Remove(ctx, "lockdown"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, "lockdown"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after remove, got %v", err)
	}

	// Removing a missing key is not an error.
	if err := store.Remove(ctx, "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMemoryStore_GetCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, "announcement", []byte("скидки"))

	raw, _ := store.Get(ctx, "announcement")
	raw[0] = 'X'

	again, _ := store.Get(ctx, "announcement")
	if string(again) != "скидки" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestJSONHelpers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type announcement struct {
		Text string `json:"text"`
	}

	if err := SetJSON(ctx, store, "announcement", announcement{Text: "новинки Husky"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got announcement
	if err := GetJSON(ctx, store, "announcement", &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "новинки Husky" {
		t.Errorf("got %q, want %q", got.Text, "новинки Husky")
	}

	if err := GetJSON(ctx, store, "missing", &got); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}
