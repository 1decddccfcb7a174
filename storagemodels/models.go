/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// Item is one raw record of a bucket: the encoded key and the stored bytes.
type Item struct {
	// Key is the byte-comparable encoding of the record key.
	Key []byte
	// Value is the on-disk encoding of the record.
	Value []byte
}

// Clone returns a copy of the item that does not share memory with the original.
func (i Item) Clone() Item {
	return Item{
		Key:   append([]byte(nil), i.Key...),
		Value: append([]byte(nil), i.Value...),
	}
}
