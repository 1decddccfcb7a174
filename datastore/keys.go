/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"encoding/binary"
	"fmt"
)

// KeySize is the length of an encoded key.
const KeySize = 4

// EncodeKey encodes a numeric key big-endian so that byte order matches numeric order.
func EncodeKey(key uint32) []byte {
	buf := make([]byte, KeySize)
	binary.BigEndian.PutUint32(buf, key)
	return buf
}

// DecodeKey is the inverse of EncodeKey.
func DecodeKey(b []byte) (uint32, error) {
	if len(b) != KeySize {
		return 0, fmt.Errorf("datastore: invalid key length %d", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}
