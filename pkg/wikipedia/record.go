package wikipedia

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Placeholders used for secondary languages when the API omits a field.
const (
	ContentNotAvailable  = "Content not available"
	MetadataNotAvailable = "Metadata not available"
)

// Entry is the extract and Wikibase item of an article in one language.
// Nil fields are written as JSON null.
type Entry struct {
	Content *string `json:"content"`
	Type    *string `json:"type"`
}

// Record maps language codes to entries of the same article.
// Languages keep the order they were added in, also when encoded to JSON.
type Record struct {
	langs   []string
	entries map[string]Entry
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{langs: []string{}, entries: map[string]Entry{}}
}

// Set stores the entry for lang. Re-setting a language keeps its position.
func (r *Record) Set(lang string, e Entry) {
	if r.entries == nil {
		r.entries = map[string]Entry{}
		r.langs = []string{}
	}
	if _, ok := r.entries[lang]; !ok {
		r.langs = append(r.langs, lang)
	}
	r.entries[lang] = e
}

// Get returns the entry for lang.
func (r Record) Get(lang string) (Entry, bool) {
	e, ok := r.entries[lang]
	return e, ok
}

// Languages returns the language codes in insertion order.
func (r Record) Languages() []string {
	return append([]string{}, r.langs...)
}

// Len is the number of languages in the record.
func (r Record) Len() int { return len(r.langs) }

// MarshalJSON writes the record as an object keyed by language code.
// HTML characters are left unescaped.
func (r Record) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, lang := range r.langs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(lang); err != nil {
			return nil, fmt.Errorf("encode language %q: %w", lang, err)
		}
		buf.WriteByte(':')
		if err := enc.Encode(r.entries[lang]); err != nil {
			return nil, fmt.Errorf("encode entry %q: %w", lang, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by language code, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read record start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record must be an object, got %v", tok)
	}

	rec := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read language key: %w", err)
		}
		lang, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}

		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("decode entry %q: %w", lang, err)
		}
		rec.Set(lang, e)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read record end: %w", err)
	}

	*r = *rec
	return nil
}
