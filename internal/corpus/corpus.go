// Package corpus reads documents from JSONL files.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/lexiscore/pkg/lexiscore/ingest"
)

// maxLine bounds a single JSONL record.
const maxLine = 16 << 20

// Record is one line of a corpus file. Text and HTML may both be set; the
// HTML body is reduced to its text and appended.
type Record struct {
	ID   string                     `json:"id"`
	Text string                     `json:"text"`
	HTML string                     `json:"html"`
	Meta map[string]json.RawMessage `json:"meta"`
}

// Doc converts the record into a document. Non-string metadata values
// (numbers, booleans) keep their JSON spelling, so {"year": 2020}
// groups under "2020". Null values are dropped.
func (r Record) Doc() ingest.Doc {
	text := r.Text
	if r.HTML != "" {
		stripped := StripHTML(r.HTML)
		if text == "" {
			text = stripped
		} else if stripped != "" {
			text = text + "\n" + stripped
		}
	}

	var meta map[string]string
	if len(r.Meta) > 0 {
		meta = make(map[string]string, len(r.Meta))
		for k, raw := range r.Meta {
			raw = bytes.TrimSpace(raw)
			if bytes.Equal(raw, []byte("null")) {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				meta[k] = s
				continue
			}
			meta[k] = string(raw)
		}
	}

	return ingest.Doc{ID: r.ID, Text: text, Meta: meta}
}

// LoadJSONL loads documents from a JSONL file. Malformed lines are logged
// and skipped; a file with no valid record is an error.
func LoadJSONL(path string, logger *slog.Logger) ([]ingest.Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ReadJSONL(f, path, logger)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid documents found in %s", path)
	}
	return docs, nil
}

// ReadJSONL decodes one record per line from r. name identifies the
// source in log messages. Records without an id are named "<name>:<line>".
func ReadJSONL(r io.Reader, name string, logger *slog.Logger) ([]ingest.Doc, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var docs []ingest.Doc
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("skipping malformed record", "source", name, "line", lineNo, "error", err)
			continue
		}
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("%s:%d", name, lineNo)
		}
		docs = append(docs, rec.Doc())
	}
	if err := sc.Err(); err != nil {
		return docs, fmt.Errorf("read %s: %w", name, err)
	}

	return docs, nil
}

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed. Script and style contents are dropped.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var parts []string
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
