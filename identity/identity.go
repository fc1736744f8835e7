// Copyright 2026 Harvest Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package identity

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// KeySize is the length in bytes of a derived identity key
const KeySize = 32

// Identity is an opaque caller identity as verified by the host
// authentication layer. The core never inspects its structure; it is
// only ever reduced to a Key for storage and comparison.
type Identity string

func (i Identity) String() string {
	return string(i)
}

// Key is a fixed-length comparable key derived from an Identity. It is
// persisted as a record's owner and compared byte-for-byte on
// authorization checks.
type Key [KeySize]byte

// KeyFromIdentity derives the comparable key for an identity. The
// derivation is deterministic: equal identities always produce equal
// keys. blake2b-256 gives us a fixed-length value without assuming
// anything about the identity's internal structure.
func KeyFromIdentity(id Identity) Key {
	return blake2b.Sum256([]byte(id))
}

// Bytes returns the key as a byte slice
func (k Key) Bytes() []byte {
	return k[:]
}

// Equal compares two keys byte-for-byte
func (k Key) Equal(other Key) bool {
	return k == other
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// KeyFromBytes builds a Key from a raw byte slice. Input longer than
// KeySize is truncated, shorter input is zero-padded.
func KeyFromBytes(data []byte) Key {
	var k Key
	copy(k[:], data)
	return k
}
