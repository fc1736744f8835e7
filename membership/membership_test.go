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

package membership_test

import (
	"testing"

	"github.com/harvestlabs-io/croft/identity"
	"github.com/harvestlabs-io/croft/membership"
)

func TestNewTokenIdUnique(t *testing.T) {
	var farmId membership.FarmId
	copy(farmId[:], []byte("test-farm"))
	ownerKey := identity.KeyFromIdentity("alice")
	seen := make(map[membership.TokenId]bool)
	// Identical parameters must still yield distinct token ids
	for range 100 {
		tokenId := membership.NewTokenId(farmId, ownerKey, "Summer 2023")
		if seen[tokenId] {
			t.Fatalf("duplicate token id generated")
		}
		seen[tokenId] = true
	}
}

func TestTokenIdHexRoundTrip(t *testing.T) {
	var farmId membership.FarmId
	copy(farmId[:], []byte("test-farm"))
	tokenId := membership.NewTokenId(
		farmId,
		identity.KeyFromIdentity("alice"),
		"Summer 2023",
	)
	parsed, err := membership.TokenIdFromHex(tokenId.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != tokenId {
		t.Fatalf("token id did not survive hex round trip")
	}
}

func TestTokenIdFromHexInvalid(t *testing.T) {
	if _, err := membership.TokenIdFromHex("not-hex"); err == nil {
		t.Fatalf("expected error for non-hex input")
	}
	if _, err := membership.TokenIdFromHex("abcd"); err == nil {
		t.Fatalf("expected error for short input")
	}
}

func TestFarmIdFromHexInvalid(t *testing.T) {
	if _, err := membership.FarmIdFromHex("zzzz"); err == nil {
		t.Fatalf("expected error for non-hex input")
	}
	if _, err := membership.FarmIdFromHex("abcd"); err == nil {
		t.Fatalf("expected error for short input")
	}
}

func TestShareSizeString(t *testing.T) {
	testDefs := []struct {
		shareSize membership.ShareSize
		expected  string
	}{
		{membership.SmallShare(), "small"},
		{membership.MediumShare(), "medium"},
		{membership.LargeShare(), "large"},
		{membership.CustomShare("family box"), "custom:family box"},
	}
	for _, testDef := range testDefs {
		if testDef.shareSize.String() != testDef.expected {
			t.Fatalf(
				"unexpected share size string: got %s, want %s",
				testDef.shareSize.String(),
				testDef.expected,
			)
		}
	}
}
