/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package appdata persists strongly typed records in an embedded key-value
store and exposes them, by store name, through a uniform byte-oriented
interface.

A record type implements Entity on its pointer receiver:

	type UserProfile struct {
	    ID    uint32 `json:"id"`
	    Name  string `json:"name" title:"Full Name"`
	    Email string `json:"email" format:"email"`
	}

	func (*UserProfile) StoreName() string  { return "UserProfile" }
	func (u *UserProfile) Key() appdata.Key  { return u.ID }
	func (u *UserProfile) SetKey(k appdata.Key) { u.ID = k }

Records[T] gives typed get, save, remove, exists, export, import and key
allocation. DataSet[T] wraps the same operations behind registry.DataSet so
heterogeneous types can be registered together and addressed by name:

	store, _ := sqlite.Open(dir)
	reg := registry.New(logger)
	appdata.MustRegister[models.UserProfile](reg, store)

	ds, _ := reg.Lookup("UserProfile")
	err := ds.Save(ctx, []byte(`{"id":1,"name":"Ada","email":"ada@example.com"}`))

Every successful write is flushed before it returns. Store calls run to
completion even when the caller's context is cancelled.
*/
package appdata
