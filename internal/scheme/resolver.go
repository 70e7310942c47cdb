package scheme

import (
	"sync"

	"github.com/pders01/prlink/internal/models"
)

// Resolver keeps the effective scheme in sync with its two inputs.
// OnChange runs, and the markers are updated, only when the effective
// scheme actually changes.
type Resolver struct {
	mu        sync.Mutex
	pref      models.Preference
	ambient   bool
	effective models.Scheme
	markers   *Markers
	onChange  func(models.Scheme)
}

// NewResolver resolves the initial scheme and applies it to markers.
// onChange may be nil.
func NewResolver(pref models.Preference, ambientDark bool, markers *Markers, onChange func(models.Scheme)) *Resolver {
	r := &Resolver{
		pref:     pref,
		ambient:  ambientDark,
		markers:  markers,
		onChange: onChange,
	}
	r.effective = Resolve(pref, ambientDark)
	Apply(markers, r.effective)
	return r
}

// Scheme returns the current effective scheme
func (r *Resolver) Scheme() models.Scheme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.effective
}

// Preference returns the current stored preference
func (r *Resolver) Preference() models.Preference {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pref
}

// SetPreference records a new stored preference
func (r *Resolver) SetPreference(pref models.Preference) {
	r.mu.Lock()
	r.pref = pref
	changed := r.recompute()
	r.mu.Unlock()
	r.notify(changed)
}

// SetAmbient records a new ambient signal
func (r *Resolver) SetAmbient(dark bool) {
	r.mu.Lock()
	r.ambient = dark
	changed := r.recompute()
	r.mu.Unlock()
	r.notify(changed)
}

// recompute must be called with mu held
func (r *Resolver) recompute() *models.Scheme {
	next := Resolve(r.pref, r.ambient)
	if next == r.effective {
		return nil
	}
	r.effective = next
	Apply(r.markers, next)
	return &next
}

func (r *Resolver) notify(changed *models.Scheme) {
	if changed != nil && r.onChange != nil {
		r.onChange(*changed)
	}
}
