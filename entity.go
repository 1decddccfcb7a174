/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package appdata

// Key identifies a record within the key space of its store name.
type Key = uint32

// Entity is implemented, on the pointer receiver, by every persistable
// record type.
type Entity interface {
	// StoreName is the type's fixed identifier. It must not collide with any
	// other registered type.
	StoreName() string
	Key() Key
	SetKey(Key)
}

// Defaulter is implemented by entity types whose default value is not their
// zero value. Default resets the receiver to that value.
type Defaulter interface {
	Default()
}

// EntityPtr constrains P to be *T implementing Entity, so generic code can
// hold values of T while calling the pointer methods.
type EntityPtr[T any] interface {
	*T
	Entity
}

// DefaultValue returns the default value of T.
func DefaultValue[T any, P EntityPtr[T]]() T {
	var v T
	if d, ok := any(P(&v)).(Defaulter); ok {
		d.Default()
	}
	return v
}

// StoreNameOf returns the store name of T.
func StoreNameOf[T any, P EntityPtr[T]]() string {
	var v T
	return P(&v).StoreName()
}
