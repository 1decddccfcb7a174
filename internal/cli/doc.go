/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package cli implements the appdata command line. Every command opens the
// configured store, runs one boundary operation and closes the store again.
package cli
