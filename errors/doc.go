/*
Package errors provides semantic error types for the appdata library.

Every error kind has a sentinel value and a typed error whose Is method
matches it, so callers can use the standard errors.Is() function or the
provided helper functions regardless of wrapping.

Common Errors:

	var (
	    ErrNotFound              = errors.New("not found")
	    ErrDuplicateRegistration = errors.New("duplicate registration")
	    ErrDecoding              = errors.New("decoding failed")
	    ErrEncoding              = errors.New("encoding failed")
	    ErrStore                 = errors.New("store operation failed")
	    ErrKeyOverflow           = errors.New("key overflow")
	    ErrAlreadyInitialized    = errors.New("already initialized")
	    ErrNotInitialized        = errors.New("not initialized")
	    ErrInvalidInput          = errors.New("invalid input")
	)

Usage:

	err := ds.Save(ctx, payload)
	if err != nil {
	    if errors.IsDecoding(err) {
	        // reject the payload, the store was not touched
	    }
	    return err
	}

	err := errors.NewNotFoundError("data set", "UserProfile")
	err := errors.NewKeyOverflowError("UserProfile", 4294967295)

DuplicateRegistration is a startup error: the process should abort instead of
running with an ambiguous registry. DecodingError, EncodingError and
KeyOverflowError are recoverable and never mutate the store. StoreError is
propagated as-is and never retried here.
*/
package errors
