package cfghandler

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/cfgtree"
)

func TestGetHandlerIdentity(t *testing.T) {
	r := NewRegistry(WithFs(afero.NewMemMapFs()))

	a := r.GetHandler("juke")
	b := r.GetHandler("juke")
	assert.Same(t, a, b)
	assert.False(t, a.Loaded())
	assert.Equal(t, "juke", a.Name())
}

func TestGetHandlerSharedState(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jukebox.yaml", []byte("pulse: {}\n"), 0644))
	r := NewRegistry(WithFs(fs))

	require.NoError(t, r.GetHandler("juke").Load("/jukebox.yaml"))
	require.NoError(t, r.GetHandler("juke").SetN(cfgtree.String("Speakers"), "pulse", "alias"))

	other := r.GetHandler("juke")
	assert.True(t, other.Dirty())
	got, err := other.GetN("pulse", "alias")
	require.NoError(t, err)
	s, _ := got.AsString()
	assert.Equal(t, "Speakers", s)
}

func TestGetHandlerDistinctNames(t *testing.T) {
	r := NewRegistry()

	juke := r.GetHandler("juke")
	rfid := r.GetHandler("rfid")
	assert.NotSame(t, juke, rfid)
	assert.Equal(t, []string{"juke", "rfid"}, r.Names())
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	assert.NotSame(t, a.GetHandler("juke"), b.GetHandler("juke"))
}

func TestRegistryOptionsApplyToStores(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jukebox.yaml", []byte("a:\n  b: 1\n"), 0644))
	r := NewRegistry(WithFs(fs), WithWriteMode(MergeOnWrite))

	s := r.GetHandler("juke")
	require.NoError(t, s.Load("/jukebox.yaml"))
	require.NoError(t, s.SetN(cfgtree.MapOf("c", 2), "a"))

	ok, err := s.Has(cfgtree.Path{"a", "b"})
	require.NoError(t, err)
	assert.True(t, ok)
}
