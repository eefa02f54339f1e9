package cfghandler

import (
	"os"

	"github.com/spf13/afero"
)

// WriteMode controls how Set treats an existing subtree at the target path.
type WriteMode int

const (
	// Replace discards whatever is stored at the path (last write wins).
	Replace WriteMode = iota
	// MergeOnWrite merges mapping values into an existing mapping.
	MergeOnWrite
)

const defaultFileMode os.FileMode = 0o644

type options struct {
	fs       afero.Fs
	mode     WriteMode
	fileMode os.FileMode
}

func defaultOptions() options {
	return options{
		fs:       afero.NewOsFs(),
		mode:     Replace,
		fileMode: defaultFileMode,
	}
}

// Option configures stores created by NewStore or a Registry.
type Option func(*options)

// WithFs sets the filesystem stores read from and write to.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithWriteMode selects replace or merge semantics for Set.
func WithWriteMode(mode WriteMode) Option {
	return func(o *options) { o.mode = mode }
}

// WithFileMode sets the permissions of config files created by Save.
// Existing files keep their permissions.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) { o.fileMode = mode.Perm() }
}
