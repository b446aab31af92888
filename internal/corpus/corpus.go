// Package corpus holds the fixed, indexable verse collection the game guesses
// against. The game core only consumes its size; the REST layer serves verse
// content so clients can render revealed answers.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Verse is one entry of the corpus.
type Verse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// Corpus is an immutable, position-indexed verse collection.
type Corpus struct {
	verses []Verse
}

// Load reads a corpus CSV with reference and verse text in the first two
// columns. A header row is skipped if present. Extra columns are ignored.
func Load(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads corpus CSV data from r.
func Parse(r io.Reader) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var verses []Verse
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse corpus csv: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		if len(verses) == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "reference") {
			continue
		}
		verses = append(verses, Verse{
			Reference: strings.TrimSpace(record[0]),
			Text:      strings.TrimSpace(record[1]),
		})
	}
	if len(verses) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	return &Corpus{verses: verses}, nil
}

// Size returns the number of verses.
func (c *Corpus) Size() int {
	return len(c.verses)
}

// Verse returns the verse at index i.
func (c *Corpus) Verse(i int) (Verse, error) {
	if i < 0 || i >= len(c.verses) {
		return Verse{}, fmt.Errorf("verse index %d out of range", i)
	}
	return c.verses[i], nil
}
