/*
Package schema derives structural descriptions of record types and validates
boundary payloads against them.

A Schema is generated by reflection from a Go value. Struct tags carry the
metadata a client needs to render a form without knowing the Go type:

	type UserProfile struct {
	    ID    uint32 `json:"id" description:"Record key"`
	    Email string `json:"email" format:"email"`
	    Age   int    `json:"age" minimum:"0" maximum:"150"`
	    Role  string `json:"role" enum:"admin,member,guest"`
	}

	s, err := schema.Generate(UserProfile{}, schema.WithID("UserProfile"))

The same Schema validates decoded JSON documents. Object schemas are closed:
unknown properties are rejected, as are missing required fields, mistyped
values and violations of range, enum, length, pattern and format constraints.
String formats are checked through the go-openapi/strfmt default registry.
*/
package schema
