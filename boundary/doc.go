/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package boundary exposes registered data sets and the live configuration
// to callers outside the process.
//
// Each Service method resolves a data set identifier, runs the operation and
// translates failures into *Error values with a stable Kind. Operations run
// on their own goroutine: when the caller's context ends first the method
// returns the context error at once, while the storage work it started
// still runs to completion and its result is dropped.
//
// Invoke offers the same operations by command name with JSON arguments and
// results, for transports that carry byte payloads.
package boundary
