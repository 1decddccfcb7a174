/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package registry maps data set identifiers to type-erased data sets.

A data set is the byte-level view of one registered entity type: it knows
its store name, its structural schema, and how to read and write records as
boundary JSON. Registration normally happens once at startup:

	reg := registry.New(logger)
	if err := reg.Register(ds); err != nil {
	    // errors.IsDuplicateRegistration(err)
	}

Identifiers are unique. A second registration under an existing identifier
fails and leaves the first one in place. Lookups are safe from any number of
goroutines while registrations are in progress.
*/
package registry
