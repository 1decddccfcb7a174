/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appconfig

import (
	"fmt"
	"sync"

	"github.com/suparena/appdata/errors"
)

var (
	defaultMu   sync.RWMutex
	defaultCell *Cell
)

// SetDefault installs the process-wide cell. It fails with AlreadyInitialized
// when a cell is already installed.
func SetDefault(c *Cell) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCell != nil {
		return errors.NewAlreadyInitializedError("configuration cell")
	}
	defaultCell = c
	return nil
}

// Default returns the process-wide cell installed by SetDefault.
func Default() (*Cell, error) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	if defaultCell == nil {
		return nil, fmt.Errorf("configuration cell: %w", errors.ErrNotInitialized)
	}
	return defaultCell, nil
}

// ResetDefault clears the process-wide cell so SetDefault may be called again.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCell = nil
}
