package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Expansion maps a query term to a full replacement query. When a term
// appears as a substring of the preprocessed query, the whole query is
// replaced with the expansion; the first match wins.
type Expansion struct {
	Term        string
	Replacement string
}

// LoadExpansions reads the term→expansion mapping from a JSON object file,
// preserving file order so that "first match wins" stays deterministic.
func LoadExpansions(path string) ([]Expansion, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read expansions %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse expansions %s: %w", path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parse expansions %s: expected object", path)
	}

	var expansions []Expansion
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse expansions %s: %w", path, err)
		}
		term, _ := keyTok.(string)

		var replacement string
		if err := dec.Decode(&replacement); err != nil {
			return nil, fmt.Errorf("parse expansion for %q: %w", term, err)
		}
		expansions = append(expansions, Expansion{Term: term, Replacement: replacement})
	}

	return expansions, nil
}
