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

import "context"

// Store is the persistent key-value backing for membership records.
// Each operation is atomic per key; the store adds no locking beyond
// what the backend guarantees. The production implementation lives in
// the database package; tests substitute an in-memory mapping.
type Store interface {
	// MembershipCreate stores a new record under tokenId. It returns
	// ErrAlreadyExists if a live record already holds that key.
	MembershipCreate(ctx context.Context, tokenId TokenId, record Record) error

	// MembershipGet returns the live record for tokenId, or nil (with
	// no error) when none exists.
	MembershipGet(ctx context.Context, tokenId TokenId) (*Record, error)

	// MembershipUpdate overwrites the record under tokenId in place.
	// It returns ErrNotFound if no live record exists.
	MembershipUpdate(ctx context.Context, tokenId TokenId, record Record) error

	// MembershipDelete removes the record under tokenId entirely. It
	// returns ErrNotFound if no live record exists.
	MembershipDelete(ctx context.Context, tokenId TokenId) error

	// MembershipsList returns every live record with its token id, in
	// no particular order.
	MembershipsList(ctx context.Context) ([]Enrollment, error)
}

// FarmRegistry is the external lookup service for farm programs. The
// core only ever asks whether a farm id resolves; registry management
// is a collaborator concern.
type FarmRegistry interface {
	FarmExists(ctx context.Context, farmId FarmId) (bool, error)
}
