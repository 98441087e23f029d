// Package product holds the persisted product record as stored in the index
// snapshot metadata.
package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Spec is a single specification key/value pair.
type Spec struct {
	Key   string
	Value string
}

// Specs is an ordered specification mapping. JSON objects lose key order
// under map decoding, so Specs keeps the snapshot's original order.
type Specs []Spec

// Record is one product as persisted by the indexing job. Its embedding
// vector lives in the vector index at a known row position; the row↔record
// mapping is stable only within one index snapshot.
type Record struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Link        string  `json:"link"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Specs       Specs   `json:"specs"`
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (s *Specs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("specs: %w", err)
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("specs: expected object, got %v", tok)
	}

	out := Specs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("specs key: %w", err)
		}
		key, _ := keyTok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("specs value for %q: %w", key, err)
		}
		out = append(out, Spec{Key: key, Value: value})
	}

	*s = out
	return nil
}

// MarshalJSON encodes the specs back into a JSON object in stored order.
func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sp := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(sp.Key)
		if err != nil {
			return nil, fmt.Errorf("specs key %q: %w", sp.Key, err)
		}
		v, err := json.Marshal(sp.Value)
		if err != nil {
			return nil, fmt.Errorf("specs value for %q: %w", sp.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BuildEmbeddingText assembles the passage text the indexing job embeds for
// a product. Price is excluded: it is not a semantic feature. Empty and "-"
// spec values are dropped as noise. Kept here so serving and indexing agree
// on the snapshot format.
func BuildEmbeddingText(r Record) string {
	parts := make([]string, 0, 4)

	if title := strings.TrimSpace(r.Title); title != "" {
		parts = append(parts, "title: "+title)
	}
	if category := strings.TrimSpace(r.Category); category != "" {
		parts = append(parts, "category: "+category)
	}

	specParts := make([]string, 0, len(r.Specs))
	for _, sp := range r.Specs {
		value := strings.TrimSpace(sp.Value)
		if value == "" || value == "-" {
			continue
		}
		key := strings.ReplaceAll(strings.TrimSpace(sp.Key), ":", "")
		specParts = append(specParts, key+": "+value)
	}
	if len(specParts) > 0 {
		parts = append(parts, "specs: "+strings.Join(specParts, ", "))
	}

	if desc := strings.TrimSpace(r.Description); desc != "" {
		parts = append(parts, "description: "+desc)
	}

	return strings.Join(parts, ". ")
}
