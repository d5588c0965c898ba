package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/screenhall/roomctl/internal/chat"
	"github.com/screenhall/roomctl/internal/config"
)

func TestNewChatStoreDefaultsToJSON(t *testing.T) {
	cfg := &config.Config{
		StorageKind: "json",
		StoragePath: filepath.Join(t.TempDir(), "chat.json"),
	}

	store, err := newChatStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*chat.JSONStore); !ok {
		t.Fatalf("expected *chat.JSONStore, got %T", store)
	}
}

func TestNewChatStoreUnknownKindFallsBackToJSON(t *testing.T) {
	cfg := &config.Config{
		StorageKind: "something-else",
		StoragePath: filepath.Join(t.TempDir(), "chat.json"),
	}

	store, err := newChatStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*chat.JSONStore); !ok {
		t.Fatalf("expected *chat.JSONStore, got %T", store)
	}
}
