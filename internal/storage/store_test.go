package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/veritas-news/veritas/internal/models"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	sqliteStore, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	memStore, err := Open(ctx, "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	t.Cleanup(func() {
		sqliteStore.Close()
		memStore.Close()
	})

	return map[string]Store{
		"memory": memStore,
		"sqlite": sqliteStore,
	}
}

func prediction(id string, createdAt time.Time, verdict string) *models.Prediction {
	return &models.Prediction{
		ID:                  id,
		CreatedAt:           createdAt,
		Source:              models.SourceImage,
		Filename:            "shot.png",
		ImageMD5:            "5d41402abc4b2a76b9719d911017c592",
		ExtractedText:       "raw ocr",
		Text:                "Scientists confirm the moon is made of cheese",
		Verdict:             verdict,
		OCREngine:           "tesseract",
		Translator:          "web",
		TranslationFallback: true,
		Provider:            "openai",
		Model:               "google/gemma-3n-e2b-it:free",
		DurationMS:          42,
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "memory")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected MemoryStore, got %T", s)
	}

	s, err = Open(ctx, filepath.Join(t.TempDir(), "h.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("expected SQLiteStore, got %T", s)
	}
}

func TestStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 10, 19, 12, 30, 0, 123456789, time.UTC)

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			want := prediction("01JABC", created, "FAKE")
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := s.Get(ctx, "01JABC")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !got.CreatedAt.Equal(created) {
				t.Errorf("CreatedAt = %v, expected %v", got.CreatedAt, created)
			}
			got.CreatedAt = want.CreatedAt
			if *got != *want {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}

			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			// A whole second and a fractional second exercise timestamp ordering.
			for i, offset := range []time.Duration{0, 500 * time.Millisecond, time.Second} {
				p := prediction(string(rune('a'+i)), base.Add(offset), "REAL")
				if err := s.Save(ctx, p); err != nil {
					t.Fatalf("Save: %v", err)
				}
			}

			all, err := s.List(ctx, 0)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("expected 3 predictions, got %d", len(all))
			}
			for i, id := range []string{"c", "b", "a"} {
				if all[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, all[i].ID)
				}
			}

			limited, err := s.List(ctx, 2)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(limited) != 2 || limited[0].ID != "c" {
				t.Errorf("unexpected limited list: %+v", limited)
			}
		})
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, prediction("same", now, "REAL")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := s.Save(ctx, prediction("same", now, "FAKE")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Get(ctx, "same")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Verdict != "FAKE" {
				t.Errorf("expected overwrite, got %s", got.Verdict)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := prediction("x", time.Now(), "REAL")
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p.Verdict = "MUTATED"

	got, _ := s.Get(ctx, "x")
	if got.Verdict != "REAL" {
		t.Fatalf("store shares caller memory: %s", got.Verdict)
	}

	s.Delete("x")
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
