package stoplist

import (
	"sort"

	"github.com/cognicore/lexiscore/pkg/lexiscore/pattern"
)

// Manager holds the stopword set. Lookups are case-insensitive.
// Add and Remove must not be called while a pipeline is filtering.
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		if s == "" {
			continue
		}
		stops[pattern.Fold(s)] = struct{}{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a term is a stopword. A compound term is a stopword
// only when the whole compound is listed.
func (m *Manager) IsStop(term string) bool {
	_, ok := m.stops[pattern.Fold(term)]
	return ok
}

// Filter returns terms with stopwords removed, preserving order.
func (m *Manager) Filter(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if m.IsStop(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Add adds a term to the stoplist
func (m *Manager) Add(term string) {
	if term == "" {
		return
	}
	m.stops[pattern.Fold(term)] = struct{}{}
}

// Remove removes a term from the stoplist
func (m *Manager) Remove(term string) {
	delete(m.stops, pattern.Fold(term))
}

// Len returns the number of stopwords.
func (m *Manager) Len() int {
	return len(m.stops)
}

// All returns all stopwords, sorted.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}
