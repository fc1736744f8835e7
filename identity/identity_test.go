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

package identity_test

import (
	"testing"

	"github.com/harvestlabs-io/croft/identity"
)

func TestKeyFromIdentityDeterministic(t *testing.T) {
	key1 := identity.KeyFromIdentity("alice")
	key2 := identity.KeyFromIdentity("alice")
	if !key1.Equal(key2) {
		t.Fatalf("expected equal keys for equal identities")
	}
}

func TestKeyFromIdentityDistinct(t *testing.T) {
	key1 := identity.KeyFromIdentity("alice")
	key2 := identity.KeyFromIdentity("bob")
	if key1.Equal(key2) {
		t.Fatalf("expected distinct keys for distinct identities")
	}
}

func TestKeyFromBytesRoundTrip(t *testing.T) {
	orig := identity.KeyFromIdentity("alice")
	rebuilt := identity.KeyFromBytes(orig.Bytes())
	if !orig.Equal(rebuilt) {
		t.Fatalf("expected key to survive byte round trip")
	}
}

func TestKeyString(t *testing.T) {
	key := identity.KeyFromIdentity("alice")
	if len(key.String()) != identity.KeySize*2 {
		t.Fatalf(
			"unexpected hex length: got %d, want %d",
			len(key.String()),
			identity.KeySize*2,
		)
	}
}
