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

package membership

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/harvestlabs-io/croft/identity"
	"golang.org/x/crypto/blake2b"
)

const (
	// FarmIdSize is the length in bytes of a farm identifier
	FarmIdSize = 32

	// TokenIdSize is the length in bytes of a membership token id
	TokenIdSize = 32

	// MaxSeasonLen is the maximum length in bytes of a season label
	MaxSeasonLen = 32
)

// FarmId is the fixed-length identifier of a farm program
type FarmId [FarmIdSize]byte

func (f FarmId) String() string {
	return hex.EncodeToString(f[:])
}

func (f FarmId) Bytes() []byte {
	return f[:]
}

// FarmIdFromHex parses a hex-encoded farm id
func FarmIdFromHex(s string) (FarmId, error) {
	var f FarmId
	data, err := hex.DecodeString(s)
	if err != nil {
		return f, fmt.Errorf("invalid farm id: %w", err)
	}
	if len(data) != FarmIdSize {
		return f, fmt.Errorf(
			"invalid farm id length: got %d, want %d",
			len(data),
			FarmIdSize,
		)
	}
	copy(f[:], data)
	return f, nil
}

// TokenId is the unique key under which a membership record is stored
type TokenId [TokenIdSize]byte

func (t TokenId) String() string {
	return hex.EncodeToString(t[:])
}

func (t TokenId) Bytes() []byte {
	return t[:]
}

// TokenIdFromHex parses a hex-encoded token id
func TokenIdFromHex(s string) (TokenId, error) {
	var t TokenId
	data, err := hex.DecodeString(s)
	if err != nil {
		return t, fmt.Errorf("invalid token id: %w", err)
	}
	if len(data) != TokenIdSize {
		return t, fmt.Errorf(
			"invalid token id length: got %d, want %d",
			len(data),
			TokenIdSize,
		)
	}
	copy(t[:], data)
	return t, nil
}

// TokenIdFromBytes converts a raw byte slice to a token id
func TokenIdFromBytes(data []byte) (TokenId, error) {
	var t TokenId
	if len(data) != TokenIdSize {
		return t, fmt.Errorf(
			"invalid token id length: got %d, want %d",
			len(data),
			TokenIdSize,
		)
	}
	copy(t[:], data)
	return t, nil
}

// NewTokenId derives a fresh token id for an enrollment. The id is a
// blake2b-256 hash over the enrollment parameters plus a random UUID
// nonce, so two enrollments never produce the same id even when all
// parameters match. The store still refuses duplicate keys outright
// rather than silently overwriting.
func NewTokenId(
	farmId FarmId,
	ownerKey identity.Key,
	season string,
) TokenId {
	nonce := uuid.New()
	h, _ := blake2b.New256(nil)
	h.Write(farmId[:])
	h.Write(ownerKey.Bytes())
	h.Write([]byte(season))
	h.Write(nonce[:])
	var t TokenId
	copy(t[:], h.Sum(nil))
	return t
}

// ShareSizeKind enumerates the closed share size variants plus the
// open custom variant
type ShareSizeKind uint8

const (
	ShareSizeSmall ShareSizeKind = iota
	ShareSizeMedium
	ShareSizeLarge
	ShareSizeCustom
)

// ShareSize is the size of a harvest share. The three built-in sizes
// carry no payload; the custom variant carries a free-form label.
type ShareSize struct {
	CustomLabel string        `cbor:"1,keyasint,omitempty" json:"customLabel,omitempty"`
	Kind        ShareSizeKind `cbor:"0,keyasint"           json:"kind"`
}

func SmallShare() ShareSize  { return ShareSize{Kind: ShareSizeSmall} }
func MediumShare() ShareSize { return ShareSize{Kind: ShareSizeMedium} }
func LargeShare() ShareSize  { return ShareSize{Kind: ShareSizeLarge} }

func CustomShare(label string) ShareSize {
	return ShareSize{Kind: ShareSizeCustom, CustomLabel: label}
}

func (s ShareSize) String() string {
	switch s.Kind {
	case ShareSizeSmall:
		return "small"
	case ShareSizeMedium:
		return "medium"
	case ShareSizeLarge:
		return "large"
	case ShareSizeCustom:
		return "custom:" + s.CustomLabel
	default:
		return fmt.Sprintf("unknown(%d)", s.Kind)
	}
}

// Record is a single live harvest-share membership. OwnerKey is set at
// enrollment and never changes; PickupLocation is the only field that
// may change after creation.
type Record struct {
	Season         string        `cbor:"1,keyasint" json:"season"`
	PickupLocation string        `cbor:"3,keyasint" json:"pickupLocation"`
	ShareSize      ShareSize     `cbor:"2,keyasint" json:"shareSize"`
	FarmId         FarmId        `cbor:"0,keyasint" json:"farmId"`
	OwnerKey       identity.Key  `cbor:"6,keyasint" json:"ownerKey"`
	StartDate      uint64        `cbor:"4,keyasint" json:"startDate"`
	EndDate        uint64        `cbor:"5,keyasint" json:"endDate"`
}

// Enrollment pairs a stored record with its token id
type Enrollment struct {
	Record  Record
	TokenId TokenId
}
