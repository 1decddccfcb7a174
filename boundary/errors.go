/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package boundary

import (
	"context"
	stderrors "errors"

	"github.com/suparena/appdata/errors"
)

// Kind classifies an Error for callers.
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindDuplicateRegistration Kind = "duplicate_registration"
	KindDecoding              Kind = "decoding"
	KindEncoding              Kind = "encoding"
	KindStore                 Kind = "store"
	KindKeyOverflow           Kind = "key_overflow"
	KindValidation            Kind = "validation"
	KindAlreadyInitialized    Kind = "already_initialized"
	KindNotInitialized        Kind = "not_initialized"
	KindUnknownCommand        Kind = "unknown_command"
	KindInternal              Kind = "internal"
)

// Error is the caller-visible form of a failed operation. It serializes as
// JSON for transports; the underlying error stays reachable through Unwrap.
type Error struct {
	Kind    Kind   `json:"kind"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`

	cause error
}

func (e *Error) Error() string {
	if e.ID == "" {
		return string(e.Kind) + ": " + e.Message
	}
	return string(e.Kind) + " [" + e.ID + "]: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Internal reports whether the error is a fault of the process rather than
// of the request.
func (e *Error) Internal() bool {
	return e.Kind == KindStore || e.Kind == KindEncoding || e.Kind == KindInternal
}

// translate maps err onto an *Error. Context errors pass through unchanged.
func translate(id string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var be *Error
	if stderrors.As(err, &be) {
		return be
	}

	kind := KindInternal
	switch {
	case errors.IsNotFound(err):
		kind = KindNotFound
	case errors.IsDuplicateRegistration(err):
		kind = KindDuplicateRegistration
	case errors.IsDecoding(err):
		kind = KindDecoding
	case errors.IsEncoding(err):
		kind = KindEncoding
	case errors.IsStore(err):
		kind = KindStore
	case errors.IsKeyOverflow(err):
		kind = KindKeyOverflow
	case errors.IsValidationError(err):
		kind = KindValidation
	case errors.IsAlreadyInitialized(err):
		kind = KindAlreadyInitialized
	case errors.IsNotInitialized(err):
		kind = KindNotInitialized
	}
	return &Error{Kind: kind, ID: id, Message: err.Error(), cause: err}
}

func isInternal(err error) bool {
	var be *Error
	if stderrors.As(err, &be) {
		return be.Internal()
	}
	return false
}
