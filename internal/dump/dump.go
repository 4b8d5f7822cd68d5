// Package dump writes collected article records to a JSON file and reads them back.
package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"wikidump/pkg/wikipedia"
)

// DefaultPath is where records are written when no path is given.
const DefaultPath = "./wikipedia_dumps/wikipedia_articles.json"

const indent = "    "

// Save writes records as an indented JSON array to path, creating missing
// parent directories. An existing file is overwritten.
func Save(records []wikipedia.Record, path string) error {
	if records == nil {
		records = []wikipedia.Record{}
	}

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load reads records previously written by Save.
func Load(path string) ([]wikipedia.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var records []wikipedia.Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}
