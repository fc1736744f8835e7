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

import "errors"

// All service errors are terminal: they are reported to the caller
// synchronously and never retried by the core. A validation or
// authorization failure guarantees no state change occurred.
var (
	// ErrInvalidFarm is returned when the farm id does not resolve in
	// the farm registry
	ErrInvalidFarm = errors.New("farm not registered")

	// ErrInvalidDates is returned when the enrollment dates are not
	// ordered or the start date is in the past
	ErrInvalidDates = errors.New("invalid enrollment dates")

	// ErrInvalidSeason is returned when the season label is empty or
	// longer than MaxSeasonLen bytes
	ErrInvalidSeason = errors.New("invalid season label")

	// ErrNotFound is returned when an operation targets a token id
	// with no live record
	ErrNotFound = errors.New("membership not found")

	// ErrUnauthorized is returned when the caller's derived key does
	// not match the record's owner key
	ErrUnauthorized = errors.New("caller is not the membership owner")

	// ErrAlreadyExists is returned when a token id collides with a
	// live record on create
	ErrAlreadyExists = errors.New("membership already exists")
)
