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
	"fmt"

	"github.com/harvestlabs-io/croft/membership"
)

// ErrorResponse is the standard error body for all endpoints
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// RootResponse is the body for GET /
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse is the body for GET /health
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ShareSizeRequest selects a share size by kind name, with an optional
// label for the custom kind
type ShareSizeRequest struct {
	Kind        string `json:"kind"`
	CustomLabel string `json:"customLabel,omitempty"`
}

func (s ShareSizeRequest) toShareSize() (membership.ShareSize, error) {
	switch s.Kind {
	case "small":
		return membership.SmallShare(), nil
	case "medium":
		return membership.MediumShare(), nil
	case "large":
		return membership.LargeShare(), nil
	case "custom":
		if s.CustomLabel == "" {
			return membership.ShareSize{}, fmt.Errorf(
				"custom share size requires a label",
			)
		}
		return membership.CustomShare(s.CustomLabel), nil
	default:
		return membership.ShareSize{}, fmt.Errorf(
			"unknown share size kind: %q",
			s.Kind,
		)
	}
}

// EnrollRequest is the body for POST /v1/memberships
type EnrollRequest struct {
	FarmId         string           `json:"farmId"`
	Season         string           `json:"season"`
	PickupLocation string           `json:"pickupLocation"`
	ShareSize      ShareSizeRequest `json:"shareSize"`
	StartDate      uint64           `json:"startDate"`
	EndDate        uint64           `json:"endDate"`
}

// EnrollResponse is the body for a successful enrollment
type EnrollResponse struct {
	TokenId string `json:"tokenId"`
}

// MembershipResponse is the rendered membership record
type MembershipResponse struct {
	TokenId        string `json:"tokenId"`
	FarmId         string `json:"farmId"`
	Season         string `json:"season"`
	ShareSize      string `json:"shareSize"`
	PickupLocation string `json:"pickupLocation"`
	OwnerKey       string `json:"ownerKey"`
	StartDate      uint64 `json:"startDate"`
	EndDate        uint64 `json:"endDate"`
}

func newMembershipResponse(
	tokenId membership.TokenId,
	record *membership.Record,
) MembershipResponse {
	return MembershipResponse{
		TokenId:        tokenId.String(),
		FarmId:         record.FarmId.String(),
		Season:         record.Season,
		ShareSize:      record.ShareSize.String(),
		PickupLocation: record.PickupLocation,
		OwnerKey:       record.OwnerKey.String(),
		StartDate:      record.StartDate,
		EndDate:        record.EndDate,
	}
}

// UpdatePickupLocationRequest is the body for
// PUT /v1/memberships/{id}/pickup-location
type UpdatePickupLocationRequest struct {
	PickupLocation string `json:"pickupLocation"`
}

// FarmRequest is the body for POST /v1/farms
type FarmRequest struct {
	FarmId   string `json:"farmId"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// FarmResponse is the rendered farm registration
type FarmResponse struct {
	FarmId   string `json:"farmId"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Active   bool   `json:"active"`
}
