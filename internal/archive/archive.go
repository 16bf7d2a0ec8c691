// Package archive handles importing and exporting the chapter catalog as
// a versioned JSON document.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/adityamenon/formulaace/internal/model"
)

// Version is the current archive format version.
const Version = 1

// Document is the root of a catalog archive.
type Document struct {
	Version    int             `json:"version"`
	Title      string          `json:"title,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Chapters   []model.Chapter `json:"chapters"`
}

// Parse reads an archive document and returns its chapters. Every chapter
// is validated and ids must be unique within the document; a single bad
// record rejects the whole archive so an import can never half-apply.
func Parse(r io.Reader) ([]model.Chapter, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("unsupported archive version %d", doc.Version)
	}
	seen := make(map[string]bool, len(doc.Chapters))
	for _, ch := range doc.Chapters {
		if err := model.ValidateChapter(ch); err != nil {
			return nil, fmt.Errorf("chapter %s: %w", ch.ID, err)
		}
		if seen[ch.ID] {
			return nil, fmt.Errorf("chapter %s: %w", ch.ID,
				&model.ValidationError{Field: "id", Reason: "duplicated within archive"})
		}
		seen[ch.ID] = true
	}
	return doc.Chapters, nil
}

// Export serializes the chapters into an archive document.
func Export(title string, chapters []model.Chapter) ([]byte, error) {
	doc := Document{
		Version:    Version,
		Title:      title,
		ExportedAt: time.Now().UTC(),
		Chapters:   chapters,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode archive: %w", err)
	}
	return data, nil
}
