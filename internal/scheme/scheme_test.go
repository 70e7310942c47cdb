package scheme

import (
	"context"
	"testing"

	"github.com/pders01/prlink/internal/models"
	"github.com/pders01/prlink/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		pref    models.Preference
		ambient bool
		want    models.Scheme
	}{
		{models.PreferenceSystem, true, models.SchemeDark},
		{models.PreferenceSystem, false, models.SchemeLight},
		{models.PreferenceLight, true, models.SchemeLight},
		{models.PreferenceLight, false, models.SchemeLight},
		{models.PreferenceDark, true, models.SchemeDark},
		{models.PreferenceDark, false, models.SchemeDark},
	}

	for _, tt := range tests {
		t.Run(string(tt.pref), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.pref, tt.ambient))
		})
	}
}

func TestApplyKeepsSingleMarker(t *testing.T) {
	m := NewMarkers("app", "light", "dark")

	Apply(m, models.SchemeDark)
	assert.True(t, m.Has("dark"))
	assert.False(t, m.Has("light"))
	assert.True(t, m.Has("app"))
	assert.Equal(t, 2, m.Len())

	for i := 0; i < 5; i++ {
		Apply(m, models.SchemeLight)
		Apply(m, models.SchemeDark)
	}
	Apply(m, models.SchemeLight)
	assert.True(t, m.Has("light"))
	assert.False(t, m.Has("dark"))
	assert.Equal(t, 2, m.Len())
}

func TestResolverNotifiesOnlyOnChange(t *testing.T) {
	m := NewMarkers()
	var changes []models.Scheme
	r := NewResolver(models.PreferenceSystem, false, m, func(s models.Scheme) {
		changes = append(changes, s)
	})

	assert.Equal(t, models.SchemeLight, r.Scheme())
	assert.True(t, m.Has("light"))

	r.SetAmbient(true)
	assert.Equal(t, models.SchemeDark, r.Scheme())
	assert.True(t, m.Has("dark"))
	assert.False(t, m.Has("light"))

	// Explicit dark while ambient is already dark: no visible change.
	r.SetPreference(models.PreferenceDark)
	// Ambient flips but the explicit preference pins the scheme.
	r.SetAmbient(false)

	r.SetPreference(models.PreferenceLight)

	assert.Equal(t, []models.Scheme{models.SchemeDark, models.SchemeLight}, changes)
	assert.Equal(t, models.PreferenceLight, r.Preference())
	assert.Equal(t, 1, m.Len())
}

func TestResolverNilCallback(t *testing.T) {
	r := NewResolver(models.PreferenceDark, false, NewMarkers(), nil)
	assert.NotPanics(t, func() { r.SetPreference(models.PreferenceLight) })
	assert.Equal(t, models.SchemeLight, r.Scheme())
}

func TestParseAmbient(t *testing.T) {
	detect := StaticAmbient(true)

	a, err := ParseAmbient("", detect)
	require.NoError(t, err)
	assert.True(t, a.PrefersDark())

	a, err = ParseAmbient("light", detect)
	require.NoError(t, err)
	assert.False(t, a.PrefersDark())

	a, err = ParseAmbient("DARK", StaticAmbient(false))
	require.NoError(t, err)
	assert.True(t, a.PrefersDark())

	_, err = ParseAmbient("sepia", detect)
	assert.Error(t, err)
}

func TestStoreDefaultsAndValidation(t *testing.T) {
	kv, err := storage.OpenInMemory()
	require.NoError(t, err)
	defer kv.Close()

	store := NewStore(kv)
	ctx := context.Background()

	assert.Equal(t, models.PreferenceSystem, store.Get(ctx))

	require.NoError(t, kv.Set(StorageKey, "{oops"))
	assert.Equal(t, models.PreferenceSystem, store.Get(ctx))

	require.NoError(t, kv.Set(StorageKey, `"neon"`))
	assert.Equal(t, models.PreferenceSystem, store.Get(ctx))

	require.NoError(t, store.Set(ctx, models.PreferenceDark))
	assert.Equal(t, models.PreferenceDark, store.Get(ctx))

	raw, _, err := kv.Get(StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, raw)

	assert.Error(t, store.Set(ctx, models.Preference("neon")))
}

func TestMarkersString(t *testing.T) {
	m := NewMarkers("app")
	Apply(m, models.SchemeDark)
	assert.Equal(t, "app dark", m.String())
	Apply(m, models.SchemeLight)
	assert.Equal(t, "app light", m.String())
}

func TestZeroValueMarkers(t *testing.T) {
	var m Markers
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("dark"))
	assert.Equal(t, "", m.String())

	Apply(&m, models.SchemeDark)
	assert.True(t, m.Has("dark"))
	assert.Equal(t, 1, m.Len())

	var fresh Markers
	r := NewResolver(models.PreferenceLight, true, &fresh, nil)
	assert.Equal(t, models.SchemeLight, r.Scheme())
	assert.Equal(t, "light", fresh.String())
}
