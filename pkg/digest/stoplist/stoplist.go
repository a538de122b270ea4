package stoplist

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed english.yaml
var englishYAML []byte

// Manager holds a set of stopwords
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a new stoplist manager. Words are lower-cased.
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		stops[strings.ToLower(s)] = struct{}{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	if m == nil {
		return false
	}
	_, ok := m.stops[token]
	return ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string) {
	m.stops[strings.ToLower(token)] = struct{}{}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, strings.ToLower(token))
}

// Len returns the number of stopwords
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.stops)
}

// All returns all stopwords, sorted
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// English returns the built-in English stopword list.
func English() []string {
	terms, err := Parse(englishYAML)
	if err != nil {
		// embedded file is part of the build
		panic(err)
	}
	return terms
}

// Parse decodes a stoplist document of the form `terms: [...]`.
func Parse(data []byte) ([]string, error) {
	var sl struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}
	return sl.Terms, nil
}
