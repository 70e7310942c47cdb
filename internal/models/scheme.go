package models

// Scheme is the effective presentation mode
type Scheme string

const (
	SchemeDark  Scheme = "dark"
	SchemeLight Scheme = "light"
)

// Preference is the user's stored color scheme choice
type Preference string

const (
	PreferenceDark   Preference = "dark"
	PreferenceLight  Preference = "light"
	PreferenceSystem Preference = "system"
)

// Preferences lists every valid preference
func Preferences() []Preference {
	return []Preference{PreferenceDark, PreferenceLight, PreferenceSystem}
}

// Schemes lists both effective schemes
func Schemes() []Scheme {
	return []Scheme{SchemeDark, SchemeLight}
}
