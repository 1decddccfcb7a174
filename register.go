/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appdata

import (
	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/registry"
)

// Register builds the data set of T over store and adds it to reg.
// A nil reg means registry.Default().
func Register[T any, P EntityPtr[T]](reg *registry.Registry, store datastore.Store, opts ...DataSetOption) (*DataSet[T, P], error) {
	if reg == nil {
		reg = registry.Default()
	}
	ds, err := NewDataSet[T, P](store, opts...)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// MustRegister is like Register but panics on error. Startup code uses it so
// a duplicate store name aborts the process instead of running with an
// ambiguous registry.
func MustRegister[T any, P EntityPtr[T]](reg *registry.Registry, store datastore.Store, opts ...DataSetOption) *DataSet[T, P] {
	ds, err := Register[T, P](reg, store, opts...)
	if err != nil {
		panic(err)
	}
	return ds
}
