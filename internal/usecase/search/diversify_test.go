package search

import (
	"reflect"
	"testing"

	domsearch "github.com/kailas-cloud/prodfind/internal/domain/search"
)

func TestDiversify_ShortListsUntouched(t *testing.T) {
	in := []domsearch.Candidate{
		candidate("a", "Phones", 0.9, 1),
		candidate("b", "Phones", 0.8, 2),
		candidate("c", "Phones", 0.7, 3),
	}

	got := Diversify(in)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("lists of 3 or fewer must pass through unchanged: %v", titles(got))
	}
}

func TestDiversify_SingleCategoryKeepsOrder(t *testing.T) {
	in := []domsearch.Candidate{
		candidate("a", "Phones", 0.9, 1),
		candidate("b", "Phones", 0.8, 2),
		candidate("c", "Phones", 0.7, 3),
		candidate("d", "Phones", 0.6, 4),
	}

	got := Diversify(in)
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("single-category order changed: got %v, want %v", titles(got), want)
	}
}

func TestDiversify_FirstOfEachCategorySurfaces(t *testing.T) {
	in := []domsearch.Candidate{
		candidate("a", "Phones", 0.9, 1),
		candidate("b", "Phones", 0.8, 2),
		candidate("c", "Laptops", 0.7, 3),
		candidate("d", "Phones", 0.6, 4),
		candidate("e", "Audio", 0.5, 5),
	}

	got := Diversify(in)
	want := []string{"a", "c", "e", "b", "d"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("got %v, want %v", titles(got), want)
	}
}

func TestDiversify_PreservesCardinality(t *testing.T) {
	in := []domsearch.Candidate{
		candidate("a", "Phones", 0.9, 1),
		candidate("b", "Laptops", 0.8, 2),
		candidate("c", "Phones", 0.7, 3),
		candidate("d", "Audio", 0.6, 4),
		candidate("e", "Laptops", 0.5, 5),
		candidate("f", "Phones", 0.4, 6),
	}

	got := Diversify(in)
	if len(got) != len(in) {
		t.Fatalf("cardinality changed: %d -> %d", len(in), len(got))
	}

	seen := make(map[string]int)
	for _, c := range got {
		seen[c.Product.Title]++
	}
	for _, c := range in {
		if seen[c.Product.Title] != 1 {
			t.Errorf("candidate %q appears %d times", c.Product.Title, seen[c.Product.Title])
		}
	}
}
