package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/prodfind/internal/domain/product"
)

const snapshotJSON = `[
  {
    "title": "Samsung Galaxy Watch 6",
    "price": 299.99,
    "category": "Smart Watches",
    "link": "/wearables/watch-6",
    "image": "/img/watch-6.jpg",
    "description": "44mm smartwatch",
    "specs": {"Display": "AMOLED", "Battery": "425mAh", "Water resistance": "5ATM"}
  },
  {
    "title": "Pixel 8",
    "price": 699,
    "category": "Smartphones",
    "link": "/phones/pixel-8",
    "image": "",
    "description": "",
    "specs": null
  }
]`

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products_metadata.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestLoad_RowsFollowArrayOrder(t *testing.T) {
	store, err := Load(writeSnapshot(t, snapshotJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Count() != 2 {
		t.Fatalf("Count = %d, want 2", store.Count())
	}

	first, ok := store.Get(0)
	if !ok || first.Title != "Samsung Galaxy Watch 6" {
		t.Errorf("row 0 = %+v", first)
	}
	second, ok := store.Get(1)
	if !ok || second.Link != "/phones/pixel-8" {
		t.Errorf("row 1 = %+v", second)
	}
}

func TestLoad_SpecsKeepSnapshotOrder(t *testing.T) {
	store, err := Load(writeSnapshot(t, snapshotJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	rec, _ := store.Get(0)
	wantKeys := []string{"Display", "Battery", "Water resistance"}
	if len(rec.Specs) != len(wantKeys) {
		t.Fatalf("got %d specs, want %d", len(rec.Specs), len(wantKeys))
	}
	for i, k := range wantKeys {
		if rec.Specs[i].Key != k {
			t.Errorf("spec %d key = %q, want %q", i, rec.Specs[i].Key, k)
		}
	}
}

func TestGet_OutOfBounds(t *testing.T) {
	store := NewFromRecords([]product.Record{{Title: "only"}})

	for _, row := range []int{-1, 1, 100} {
		if _, ok := store.Get(row); ok {
			t.Errorf("row %d: expected out-of-bounds miss", row)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	if _, err := Load(writeSnapshot(t, `{"not": "an array"}`)); err == nil {
		t.Fatal("expected error for non-array snapshot")
	}
}
