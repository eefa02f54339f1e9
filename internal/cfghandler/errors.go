package cfghandler

import "errors"

var (
	// ErrStoreNotLoaded indicates a path operation or save on a store that
	// has not successfully loaded a file yet.
	ErrStoreNotLoaded = errors.New("config store not loaded")

	// ErrNoDestination indicates a save without a destination path.
	ErrNoDestination = errors.New("no destination for config save")
)
