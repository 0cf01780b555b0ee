package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lexiscore/pkg/lexiscore/dictionary"
	"github.com/cognicore/lexiscore/pkg/lexiscore/ingest"
	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
)

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// LoadCompounds loads compound phrases from a text file.
// Format: one phrase per line, tokens separated by spaces, '#' comments.
func LoadCompounds(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var phrases []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, line)
	}

	return phrases, nil
}

// LoadDictionary loads categories from a YAML mapping of category name to
// pattern list:
//
//	positive: [great, love*]
//	negative:
//	  - terrible
//	  - did not like
//
// Category order follows the file. A repeated category is a
// ConfigurationError.
func LoadDictionary(path string) ([]dictionary.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDictionary(data)
}

// ParseDictionary parses the YAML dictionary format of LoadDictionary.
func ParseDictionary(data []byte) ([]dictionary.Category, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &internalerr.ConfigurationError{Field: "dictionary", Msg: err.Error()}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return []dictionary.Category{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return []dictionary.Category{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &internalerr.ConfigurationError{
			Field: "dictionary",
			Msg:   fmt.Sprintf("line %d: expected a mapping of category to patterns", root.Line),
		}
	}

	seen := make(map[string]int)
	cats := make([]dictionary.Category, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, &internalerr.ConfigurationError{
				Field: "dictionary",
				Msg:   fmt.Sprintf("line %d: category name must be a string", key.Line),
			}
		}
		name := key.Value
		if line, dup := seen[name]; dup {
			return nil, &internalerr.ConfigurationError{
				Field: "dictionary",
				Msg:   fmt.Sprintf("line %d: duplicate category %q (first defined on line %d)", key.Line, name, line),
			}
		}
		seen[name] = key.Line

		patterns, err := patternList(val)
		if err != nil {
			return nil, &internalerr.ConfigurationError{
				Field: "dictionary." + name,
				Msg:   err.Error(),
			}
		}
		cats = append(cats, dictionary.Category{Name: name, Patterns: patterns})
	}

	return cats, nil
}

func patternList(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: pattern must be a string", item.Line)
			}
			out = append(out, item.Value)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: expected a list of patterns", n.Line)
}

// Settings holds run-wide options.
type Settings struct {
	Tokenizer   ingest.TokenizerOptions `yaml:"tokenizer"`
	Workers     int                     `yaml:"workers"`
	Denominator score.Denominator       `yaml:"denominator"`
	GroupBy     string                  `yaml:"group_by"`
	Composites  []score.Composite       `yaml:"composites"`
}

// DefaultSettings returns the settings used when no file is given.
// Workers == 0 lets the analyzer pick a default.
func DefaultSettings() Settings {
	return Settings{
		Tokenizer:   ingest.DefaultTokenizerOptions(),
		Denominator: score.Matched,
	}
}

// LoadSettings loads settings from a YAML file. Keys absent from the file
// keep their DefaultSettings value.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Workers < 0 {
		return nil, &internalerr.ConfigurationError{Field: "workers", Msg: "must not be negative"}
	}

	return &s, nil
}
