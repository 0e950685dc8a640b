package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if got, err := s.Load(ctx, "guesses:abc"); err != nil || got != nil {
		t.Fatalf("Load on empty store = (%v, %v), want (nil, nil)", got, err)
	}

	doc := []byte(`{"day":"2024-08-01","men":[],"women":[]}`)
	if err := s.Save(ctx, "guesses:abc", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "guesses:abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Load = %s, want %s", got, doc)
	}

	// Mutating the returned slice must not corrupt the stored copy.
	got[0] = 'X'
	again, _ := s.Load(ctx, "guesses:abc")
	if string(again) != string(doc) {
		t.Errorf("stored document mutated through Load result")
	}

	if err := s.Delete(ctx, "guesses:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Load(ctx, "guesses:abc"); got != nil {
		t.Errorf("Load after Delete = %s, want nil", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if got, err := s.Load(ctx, "stats:abc"); err != nil || got != nil {
		t.Fatalf("Load missing key = (%v, %v), want (nil, nil)", got, err)
	}

	doc := []byte(`{"men":{"gamesPlayed":3}}`)
	if err := s.Save(ctx, "stats:abc", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "stats:abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Load = %s, want %s", got, doc)
	}

	// Overwrite replaces the previous document.
	doc2 := []byte(`{"men":{"gamesPlayed":4}}`)
	if err := s.Save(ctx, "stats:abc", doc2); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	got, _ = s.Load(ctx, "stats:abc")
	if string(got) != string(doc2) {
		t.Errorf("Load after overwrite = %s, want %s", got, doc2)
	}

	if err := s.Delete(ctx, "stats:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "stats:abc"); err != nil {
		t.Errorf("Delete of missing key should be a no-op, got %v", err)
	}
}

func TestFileKeyFlattening(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := s.Save(context.Background(), "guesses:a/b", []byte("{}")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "guesses_a_b.json")); err != nil {
		t.Errorf("expected flattened filename: %v", err)
	}
}

func TestNewFileCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFile(dir); err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("base dir not created: %v", err)
	}
}
