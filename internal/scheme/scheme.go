// Package scheme resolves the effective color scheme from the stored
// preference and the environment's ambient dark/light signal.
package scheme

import (
	"sort"
	"strings"
	"sync"

	"github.com/pders01/prlink/internal/models"
	"github.com/pders01/prlink/internal/prefs"
)

// StorageKey is where the color scheme preference is persisted
const StorageKey = "prlink-color-scheme"

// DefaultPreference is used when nothing valid is stored
const DefaultPreference = models.PreferenceSystem

// NewStore returns the validated preference store for the color scheme
func NewStore(kv prefs.KV) *prefs.Store[models.Preference] {
	return prefs.New(
		kv,
		prefs.TagSchema[models.Preference]("oneof=dark light system"),
		StorageKey,
		prefs.Value(DefaultPreference),
	)
}

// Resolve returns the effective scheme: an explicit dark or light
// preference wins, system follows the ambient signal.
func Resolve(pref models.Preference, ambientDark bool) models.Scheme {
	switch pref {
	case models.PreferenceDark:
		return models.SchemeDark
	case models.PreferenceLight:
		return models.SchemeLight
	}
	if ambientDark {
		return models.SchemeDark
	}
	return models.SchemeLight
}

// Markers is the set of presentation classes on the root context.
// The zero value is an empty set ready to use.
type Markers struct {
	mu      sync.Mutex
	classes map[string]struct{}
}

// NewMarkers returns a marker set holding classes
func NewMarkers(classes ...string) *Markers {
	m := &Markers{classes: make(map[string]struct{}, len(classes))}
	for _, c := range classes {
		m.classes[c] = struct{}{}
	}
	return m
}

// Has reports whether class is present
func (m *Markers) Has(class string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.classes[class]
	return ok
}

// Len returns the number of classes present
func (m *Markers) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.classes)
}

// String renders the classes space-separated in sorted order
func (m *Markers) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	classes := make([]string, 0, len(m.classes))
	for c := range m.classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return strings.Join(classes, " ")
}

// Apply makes s the only scheme marker present, leaving other classes alone
func Apply(m *Markers, s models.Scheme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.classes == nil {
		m.classes = map[string]struct{}{}
	}
	for _, other := range models.Schemes() {
		delete(m.classes, string(other))
	}
	m.classes[string(s)] = struct{}{}
}
