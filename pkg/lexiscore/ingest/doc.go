package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
)

// Doc is one input record: an identifier, raw text and opaque metadata
// (section, country, year, ...) attached by the corpus loader.
type Doc struct {
	ID   string            `json:"id"`
	Text string            `json:"text"`
	Meta map[string]string `json:"meta,omitempty"`
}

// Validate checks that the document can be processed.
func (d *Doc) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: doc id is required", internalerr.ErrInvalidDocument)
	}

	if !utf8.ValidString(d.Text) {
		return fmt.Errorf("%w: doc %s: text is not valid UTF-8", internalerr.ErrInvalidDocument, d.ID)
	}

	return nil
}

// MetaValue returns the metadata value stored under key.
func (d *Doc) MetaValue(key string) (string, bool) {
	if d.Meta == nil {
		return "", false
	}
	v, ok := d.Meta[key]
	return v, ok
}
