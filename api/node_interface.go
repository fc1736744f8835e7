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

package api

import (
	"context"

	"github.com/harvestlabs-io/croft/identity"
	"github.com/harvestlabs-io/croft/membership"
)

// ApiNode is the interface that the REST API server uses to reach the
// membership service and farm registry. This decouples the HTTP server
// from the concrete Node struct and enables testing with mock
// implementations.
type ApiNode interface {
	// Enroll creates a new membership for the calling identity.
	Enroll(
		ctx context.Context,
		params membership.EnrollParams,
		caller identity.Identity,
	) (membership.TokenId, error)

	// UpdatePickupLocation changes the pickup location of the caller's
	// membership.
	UpdatePickupLocation(
		ctx context.Context,
		tokenId membership.TokenId,
		newLocation string,
		caller identity.Identity,
	) error

	// Cancel removes the caller's membership.
	Cancel(
		ctx context.Context,
		tokenId membership.TokenId,
		caller identity.Identity,
	) error

	// GetMetadata returns the membership record for a token id, or nil
	// when none exists.
	GetMetadata(
		ctx context.Context,
		tokenId membership.TokenId,
	) (*membership.Record, error)

	// List returns the caller's memberships.
	List(
		ctx context.Context,
		caller identity.Identity,
	) ([]membership.Enrollment, error)

	// FarmCreate registers a farm.
	FarmCreate(
		ctx context.Context,
		farmId membership.FarmId,
		name string,
		location string,
	) error

	// Farms lists registered farms.
	Farms(
		ctx context.Context,
		includeInactive bool,
	) ([]FarmInfo, error)
}

// FarmInfo holds farm registry data needed by the API.
type FarmInfo struct {
	Id       string
	Name     string
	Location string
	Active   bool
}
