package cfghandler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/cfgtree"
)

const settingsPath = "/home/pi/RPi-Jukebox-RFID/shared/settings/jukebox.yaml"

func newMemStore(t *testing.T, content string) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(content), 0644))
	s := NewStore("juke", WithFs(fs))
	require.NoError(t, s.Load(settingsPath))
	return s, fs
}

func TestStoreEndToEnd(t *testing.T) {
	s, fs := newMemStore(t, "pulse:\n  outputs: {}\n")

	require.NoError(t, s.Set(cfgtree.Path{"pulse", "outputs", "primary", "alias"}, cfgtree.String("Speakers")))
	require.NoError(t, s.Set(cfgtree.Path{"pulse", "outputs", "primary", "volume_limit"}, cfgtree.Int(100)))
	require.NoError(t, s.Set(cfgtree.Path{"pulse", "outputs", "primary", "pulse_sink_name"}, cfgtree.String("alsa_output.0")))
	require.NoError(t, s.Save())

	fresh := NewStore("juke", WithFs(fs))
	require.NoError(t, fresh.Load(settingsPath))

	got, err := fresh.Get(cfgtree.Path{"pulse", "outputs", "primary", "pulse_sink_name"})
	require.NoError(t, err)
	name, ok := got.AsString()
	require.True(t, ok)
	assert.Equal(t, "alsa_output.0", name)

	data, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, `pulse:
  outputs:
    primary:
      alias: Speakers
      volume_limit: 100
      pulse_sink_name: alsa_output.0
`, string(data))
}

func TestStoreNotLoaded(t *testing.T) {
	s := NewStore("juke", WithFs(afero.NewMemMapFs()))
	assert.False(t, s.Loaded())

	_, err := s.Get(cfgtree.Path{"pulse"})
	assert.ErrorIs(t, err, ErrStoreNotLoaded)

	_, err = s.GetN("pulse")
	assert.ErrorIs(t, err, ErrStoreNotLoaded)

	_, err = s.GetOr(cfgtree.Path{"pulse"}, cfgtree.Null())
	assert.ErrorIs(t, err, ErrStoreNotLoaded)

	_, err = s.Has(cfgtree.Path{"pulse"})
	assert.ErrorIs(t, err, ErrStoreNotLoaded)

	assert.ErrorIs(t, s.Set(cfgtree.Path{"pulse"}, cfgtree.Int(1)), ErrStoreNotLoaded)
	assert.ErrorIs(t, s.SetN(cfgtree.Int(1), "pulse"), ErrStoreNotLoaded)
	assert.ErrorIs(t, s.Save(), ErrStoreNotLoaded)
	assert.False(t, s.Dirty())
}

func TestSetAndSetNAreEquivalent(t *testing.T) {
	a, _ := newMemStore(t, "")
	b, _ := newMemStore(t, "")

	require.NoError(t, a.Set(cfgtree.Path{"pulse", "outputs", "primary", "alias"}, cfgtree.String("Speakers")))
	require.NoError(t, b.SetN(cfgtree.String("Speakers"), "pulse", "outputs", "primary", "alias"))

	ga, err := a.GetN("pulse")
	require.NoError(t, err)
	gb, err := b.Get(cfgtree.Path{"pulse"})
	require.NoError(t, err)
	assert.True(t, ga.Equal(gb))
}

func TestStoreGetDefaults(t *testing.T) {
	s, _ := newMemStore(t, "pulse:\n  toggle_on_connect: false\n")

	def := cfgtree.Int(42)
	got, err := s.GetOr(cfgtree.Path{"pulse", "missing"}, def)
	require.NoError(t, err)
	v, ok := got.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	_, err = s.Get(cfgtree.Path{"pulse", "missing"})
	assert.ErrorIs(t, err, cfgtree.ErrKeyNotFound)

	ok, err = s.Has(cfgtree.Path{"pulse", "toggle_on_connect"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreEmptyPath(t *testing.T) {
	s, _ := newMemStore(t, "")

	assert.ErrorIs(t, s.Set(cfgtree.Path{}, cfgtree.Int(1)), cfgtree.ErrInvalidPath)
	assert.ErrorIs(t, s.SetN(cfgtree.Int(1)), cfgtree.ErrInvalidPath)
	_, err := s.Get(cfgtree.Path{})
	assert.ErrorIs(t, err, cfgtree.ErrInvalidPath)
	assert.False(t, s.Dirty(), "failed writes must not mark the store dirty")
}

func TestStoreLeafDescent(t *testing.T) {
	s, _ := newMemStore(t, "")
	require.NoError(t, s.SetN(cfgtree.Int(5), "a"))

	_, err := s.GetN("a", "x")
	assert.ErrorIs(t, err, cfgtree.ErrPathType)

	require.NoError(t, s.SetN(cfgtree.Int(9), "a", "x"))
	a, err := s.GetN("a")
	require.NoError(t, err)
	assert.True(t, a.Equal(cfgtree.MapOf("x", 9)))
}

func TestDirtyLifecycle(t *testing.T) {
	s, _ := newMemStore(t, "pulse: {}\n")
	assert.False(t, s.Dirty())

	require.NoError(t, s.SetN(cfgtree.Bool(true), "pulse", "toggle_on_connect"))
	assert.True(t, s.Dirty())

	require.NoError(t, s.Save())
	assert.False(t, s.Dirty())

	require.NoError(t, s.SetN(cfgtree.Bool(false), "pulse", "toggle_on_connect"))
	assert.True(t, s.Dirty())

	require.NoError(t, s.Load(s.Path()))
	assert.False(t, s.Dirty())

	got, err := s.GetN("pulse", "toggle_on_connect")
	require.NoError(t, err)
	b, _ := got.AsBool()
	assert.True(t, b, "reload must discard unsaved changes")
}

func TestLoadReplacesTree(t *testing.T) {
	s, fs := newMemStore(t, "old: 1\n")
	require.NoError(t, afero.WriteFile(fs, "/other.yaml", []byte("new: 2\n"), 0644))

	require.NoError(t, s.Load("/other.yaml"))
	assert.Equal(t, "/other.yaml", s.Path())

	ok, err := s.Has(cfgtree.Path{"old"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadParseErrorKeepsTree(t *testing.T) {
	s, fs := newMemStore(t, "pulse:\n  toggle_on_connect: true\n")
	require.NoError(t, afero.WriteFile(fs, "/broken.yaml", []byte("pulse:\n  a: 1\n  a: 2\n"), 0644))

	err := s.Load("/broken.yaml")
	require.ErrorIs(t, err, cfgtree.ErrParse)

	var pe *cfgtree.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "/broken.yaml", pe.Source)
	assert.Equal(t, 3, pe.Line)

	assert.Equal(t, settingsPath, s.Path())
	ok, err := s.Has(cfgtree.Path{"pulse", "toggle_on_connect"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore("juke", WithFs(afero.NewMemMapFs()))
	err := s.Load("/does/not/exist.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, s.Loaded())
}

func TestLoadFromReader(t *testing.T) {
	s := NewStore("juke", WithFs(afero.NewMemMapFs()))
	require.NoError(t, s.LoadFrom(strings.NewReader("pulse:\n  outputs: {}\n")))
	assert.True(t, s.Loaded())
	assert.Empty(t, s.Path())

	assert.ErrorIs(t, s.Save(), ErrNoDestination)

	require.NoError(t, s.SaveTo("/explicit.yaml"))
	assert.Empty(t, s.Path(), "SaveTo does not rebind the store")
}

func TestLoadFromStreamDropsPreviousPath(t *testing.T) {
	s, fs := newMemStore(t, "keep: me\n")
	require.Equal(t, settingsPath, s.Path())

	require.NoError(t, s.LoadFrom(strings.NewReader("other: doc\n")))
	assert.Empty(t, s.Path())
	assert.ErrorIs(t, s.Save(), ErrNoDestination)

	data, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "keep: me\n", string(data))
}

func TestLoadFromNamedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jukebox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pulse: {}\n"), 0644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	s := NewStore("juke")
	require.NoError(t, s.LoadFrom(f))
	assert.Equal(t, path, s.Path())

	require.NoError(t, s.SetN(cfgtree.Int(100), "pulse", "volume_limit"))
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pulse:\n  volume_limit: 100\n", string(data))
}

func TestSaveTo(t *testing.T) {
	s, fs := newMemStore(t, "pulse: {}\n")
	require.NoError(t, s.SetN(cfgtree.String("Speakers"), "pulse", "alias"))

	require.NoError(t, s.SaveTo("/backup.yaml"))
	assert.False(t, s.Dirty())

	data, err := afero.ReadFile(fs, "/backup.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "alias: Speakers")

	orig, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "pulse: {}\n", string(orig))
}

type failingRenameFs struct {
	afero.Fs
}

func (failingRenameFs) Rename(string, string) error {
	return errors.New("disk full")
}

func TestSaveFailureLeavesFileUntouched(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, settingsPath, []byte("pulse: {}\n"), 0644))

	s := NewStore("juke", WithFs(failingRenameFs{base}))
	require.NoError(t, s.Load(settingsPath))
	require.NoError(t, s.SetN(cfgtree.String("Speakers"), "pulse", "alias"))

	err := s.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, s.Dirty())

	data, err := afero.ReadFile(base, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "pulse: {}\n", string(data))

	entries, err := afero.ReadDir(base, filepath.Dir(settingsPath))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must be removed")
	assert.Equal(t, "jukebox.yaml", entries[0].Name())
}

func TestSaveReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, settingsPath, []byte("pulse: {}\n"), 0644))

	s := NewStore("juke", WithFs(afero.NewReadOnlyFs(base)))
	require.NoError(t, s.Load(settingsPath))
	require.NoError(t, s.SetN(cfgtree.Int(1), "pulse", "x"))

	assert.Error(t, s.Save())

	data, err := afero.ReadFile(base, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "pulse: {}\n", string(data))
}

func TestSavePreservesPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jukebox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pulse: {}\n"), 0600))
	require.NoError(t, os.Chmod(path, 0600))

	s := NewStore("juke")
	require.NoError(t, s.Load(path))
	require.NoError(t, s.SetN(cfgtree.Bool(true), "pulse", "toggle_on_connect"))
	require.NoError(t, s.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveNewFileUsesFileMode(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want os.FileMode
	}{
		{"default", nil, 0o644},
		{"custom", []Option{WithFileMode(0o600)}, 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, fs.MkdirAll("/settings", 0o755))

			s := NewStore("juke", append([]Option{WithFs(fs)}, tt.opts...)...)
			require.NoError(t, s.LoadFrom(strings.NewReader("pulse: {}\n")))
			require.NoError(t, s.SaveTo("/settings/fresh.yaml"))

			info, err := fs.Stat("/settings/fresh.yaml")
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Mode().Perm())
		})
	}
}

func TestSaveThroughSymlinkKeepsLink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "jukebox.yaml")
	link := filepath.Join(dir, "current.yaml")
	require.NoError(t, os.WriteFile(target, []byte("pulse: {}\n"), 0644))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := NewStore("juke")
	require.NoError(t, s.Load(link))
	require.NoError(t, s.SetN(cfgtree.Int(100), "pulse", "volume_limit"))
	require.NoError(t, s.Save())

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link must survive the save")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "pulse:\n  volume_limit: 100\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMergeOnWriteStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath,
		[]byte("pulse:\n  outputs:\n    primary:\n      alias: Speakers\n"), 0644))

	s := NewStore("juke", WithFs(fs), WithWriteMode(MergeOnWrite))
	require.NoError(t, s.Load(settingsPath))
	require.NoError(t, s.SetN(cfgtree.MapOf("primary", cfgtree.MapOf("volume_limit", 100)), "pulse", "outputs"))

	alias, err := s.GetN("pulse", "outputs", "primary", "alias")
	require.NoError(t, err)
	name, _ := alias.AsString()
	assert.Equal(t, "Speakers", name)
	assert.True(t, s.Dirty())
}

func TestRoundTripThroughFile(t *testing.T) {
	s, fs := newMemStore(t, "")
	writes := []struct {
		path  cfgtree.Path
		value *cfgtree.Node
	}{
		{cfgtree.Path{"pulse", "toggle_on_connect"}, cfgtree.Bool(true)},
		{cfgtree.Path{"pulse", "outputs"}, cfgtree.EmptyMap()},
		{cfgtree.Path{"pulse", "outputs", "secondary", "alias"}, cfgtree.String("Bluetooth Headset")},
		{cfgtree.Path{"pulse", "outputs", "secondary", "volume_limit"}, cfgtree.Int(100)},
		{cfgtree.Path{"playermpd", "host"}, cfgtree.String("localhost")},
		{cfgtree.Path{"playermpd", "ratio"}, cfgtree.Float(0.75)},
		{cfgtree.Path{"modules", "named"}, cfgtree.List(cfgtree.String("volume"), cfgtree.String("jingle"))},
		{cfgtree.Path{"unset"}, cfgtree.Null()},
	}
	for _, w := range writes {
		require.NoError(t, s.Set(w.path, w.value))
	}
	require.NoError(t, s.Save())

	fresh := NewStore("juke", WithFs(fs))
	require.NoError(t, fresh.Load(settingsPath))
	for _, w := range writes {
		got, err := fresh.Get(w.path)
		require.NoError(t, err, w.path.String())
		want, err := s.Get(w.path)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "%s: got %v want %v", w.path, got, want)
	}
}
