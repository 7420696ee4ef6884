package cache

import (
	"testing"
	"time"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

type payloadFixture struct {
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

func TestStore_CaptionLists(t *testing.T) {
	store := NewStore[[]models.CaptionDescriptor](mustNew(t, BackendMemory, Options{Size: 10}))
	key := episode(1, 2)

	if _, ok := store.Load(ctx, key); ok {
		t.Fatal("Expected miss before Save")
	}
	if err := store.Save(ctx, key, captionList(3)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := store.Load(ctx, key)
	if !ok || len(got) != 3 {
		t.Fatalf("Expected 3 cached captions, got %+v (ok=%v)", got, ok)
	}
	if got[2] != captionList(3)[2] || got[2].Format != models.FormatSRT {
		t.Errorf("Expected descriptors to survive the round trip, got %+v", got[2])
	}
}

func TestStore_Payloads(t *testing.T) {
	store := NewStore[payloadFixture](mustNew(t, BackendMemory, Options{Size: 10, TTL: time.Minute}))
	url := "https://www.podnapisi.net/subtitles/abc/download"

	want := payloadFixture{ContentType: "application/zip", Content: []byte{'P', 'K', 3, 4, 0xff}}
	if err := store.Save(ctx, url, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := store.Load(ctx, url)
	if !ok || got.ContentType != want.ContentType || string(got.Content) != string(want.Content) {
		t.Fatalf("Expected binary payload to survive, got %+v", got)
	}
}

func TestStore_CorruptEntryIsDropped(t *testing.T) {
	c := mustNew(t, BackendMemory, Options{Size: 10})
	store := NewStore[[]models.CaptionDescriptor](c)
	key := episode(3, 9)

	c.Set(ctx, key, []byte(`{"not":"a list"`))
	if _, ok := store.Load(ctx, key); ok {
		t.Fatal("Expected corrupt entry to read as a miss")
	}
	if _, ok := c.Get(ctx, key); ok {
		t.Error("Expected corrupt entry to be deleted")
	}
}

func TestStore_Disabled(t *testing.T) {
	store := NewStore[[]models.CaptionDescriptor](nil)

	if store.Enabled() {
		t.Fatal("Expected a store without cache to be disabled")
	}
	if err := store.Save(ctx, episode(1, 1), captionList(1)); err != nil {
		t.Fatalf("Save on disabled store: %v", err)
	}
	if _, ok := store.Load(ctx, episode(1, 1)); ok {
		t.Error("Expected disabled store to never hit")
	}

	var missing *Store[string]
	if missing.Enabled() {
		t.Error("Expected nil store to be disabled")
	}
}
