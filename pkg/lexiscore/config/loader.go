package config

import (
	"fmt"

	"github.com/cognicore/lexiscore/pkg/lexiscore/dictionary"
	"github.com/cognicore/lexiscore/pkg/lexiscore/ingest"
	"github.com/cognicore/lexiscore/pkg/lexiscore/score"
	"github.com/cognicore/lexiscore/pkg/lexiscore/stoplist"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	StoplistPath   string
	CompoundsPath  string
	DictionaryPath string
	SettingsPath   string
}

// Components holds all loaded configuration components
type Components struct {
	Settings   Settings
	Tokenizer  *ingest.Tokenizer
	Compounder *ingest.Compounder
	Stoplist   *stoplist.Manager
	Pipeline   *ingest.Pipeline
	Dictionary *dictionary.Dictionary
}

// Load reads all configuration files and returns initialized components.
// An empty path yields an empty component; a path that cannot be read is
// an error.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Settings: DefaultSettings()}

	// Load settings first: the tokenizer depends on them
	if l.SettingsPath != "" {
		s, err := LoadSettings(l.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		comp.Settings = *s
	}
	comp.Tokenizer = ingest.NewTokenizer(comp.Settings.Tokenizer)

	// Load stoplist
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stoplist.NewManager(sl.Terms)
	} else {
		comp.Stoplist = stoplist.NewManager(nil)
	}

	// Load compounds
	var phrases []string
	if l.CompoundsPath != "" {
		var err error
		phrases, err = LoadCompounds(l.CompoundsPath)
		if err != nil {
			return nil, fmt.Errorf("load compounds: %w", err)
		}
	}
	compounder, err := ingest.NewCompounder(phrases)
	if err != nil {
		return nil, fmt.Errorf("compile compounds: %w", err)
	}
	comp.Compounder = compounder

	// Load dictionary
	var cats []dictionary.Category
	if l.DictionaryPath != "" {
		cats, err = LoadDictionary(l.DictionaryPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
	}
	dict, err := dictionary.New(cats)
	if err != nil {
		return nil, fmt.Errorf("compile dictionary: %w", err)
	}
	comp.Dictionary = dict

	// Without a dictionary file the categories are not known yet (e.g. a
	// stored run is being re-reported); callers validate composites later.
	if l.DictionaryPath != "" {
		if err := ValidateComposites(comp.Settings.Composites, dict.Categories()); err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
	}

	comp.Pipeline = ingest.NewPipeline(comp.Tokenizer, comp.Compounder, comp.Stoplist)
	return comp, nil
}

// ValidateComposites checks every composite against categories.
func ValidateComposites(composites []score.Composite, categories []string) error {
	for _, c := range composites {
		if err := c.Validate(categories); err != nil {
			return err
		}
	}
	return nil
}
