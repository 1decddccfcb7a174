/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"sync"

	"github.com/suparena/appdata/errors"
)

var (
	handleMu sync.RWMutex
	handle   Store
)

// Init installs the process-wide store handle. It fails with
// AlreadyInitialized when called more than once.
func Init(s Store) error {
	handleMu.Lock()
	defer handleMu.Unlock()

	if handle != nil {
		return errors.NewAlreadyInitializedError("datastore")
	}
	handle = s
	return nil
}

// Default returns the process-wide store handle installed by Init.
func Default() (Store, error) {
	handleMu.RLock()
	defer handleMu.RUnlock()

	if handle == nil {
		return nil, errors.ErrNotInitialized
	}
	return handle, nil
}

// Shutdown closes and clears the process-wide handle so that Init may be called again.
func Shutdown() error {
	handleMu.Lock()
	defer handleMu.Unlock()

	if handle == nil {
		return nil
	}
	err := handle.Close()
	handle = nil
	return err
}
