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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harvestlabs-io/croft/membership"
)

const apiVersion = "0.1.0"

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes a standard error response.
func writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeServiceError maps membership errors onto HTTP status codes.
// Validation failures are 422 to distinguish them from malformed
// requests, which are 400
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membership.ErrInvalidFarm),
		errors.Is(err, membership.ErrInvalidDates),
		errors.Is(err, membership.ErrInvalidSeason):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, membership.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, membership.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, membership.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(
			w,
			http.StatusInternalServerError,
			"internal server error",
		)
	}
}

// handleRoot handles GET / and returns API metadata.
func (a *Api) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, RootResponse{
		Name:    "croft",
		Version: apiVersion,
	})
}

// handleHealth handles GET /health.
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleEnroll handles POST /v1/memberships and creates a membership
// for the authenticated caller.
func (a *Api) handleEnroll(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, err := a.callerIdentity(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	farmId, err := membership.FarmIdFromHex(req.FarmId)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	shareSize, err := req.ShareSize.toShareSize()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tokenId, err := a.node.Enroll(
		r.Context(),
		membership.EnrollParams{
			FarmId:         farmId,
			Season:         req.Season,
			ShareSize:      shareSize,
			PickupLocation: req.PickupLocation,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
		},
		caller,
	)
	if err != nil {
		a.logger.Debug(
			"enrollment rejected",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, EnrollResponse{
		TokenId: tokenId.String(),
	})
}

// handleList handles GET /v1/memberships and returns the
// authenticated caller's memberships.
func (a *Api) handleList(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, err := a.callerIdentity(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	enrollments, err := a.node.List(r.Context(), caller)
	if err != nil {
		a.logger.Error(
			"failed to list memberships",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	ret := make([]MembershipResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ret = append(
			ret,
			newMembershipResponse(enrollment.TokenId, &enrollment.Record),
		)
	}
	writeJSON(w, http.StatusOK, ret)
}

// handleGetMetadata handles GET /v1/memberships/{id}. Reads are public
// and require no authentication.
func (a *Api) handleGetMetadata(
	w http.ResponseWriter,
	r *http.Request,
) {
	tokenId, err := membership.TokenIdFromHex(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := a.node.GetMetadata(r.Context(), tokenId)
	if err != nil {
		a.logger.Error(
			"failed to get membership",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "no such membership")
		return
	}
	writeJSON(w, http.StatusOK, newMembershipResponse(tokenId, record))
}

// handleUpdatePickupLocation handles
// PUT /v1/memberships/{id}/pickup-location.
func (a *Api) handleUpdatePickupLocation(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, err := a.callerIdentity(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	tokenId, err := membership.TokenIdFromHex(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdatePickupLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.node.UpdatePickupLocation(
		r.Context(),
		tokenId,
		req.PickupLocation,
		caller,
	); err != nil {
		a.logger.Debug(
			"pickup location update rejected",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	record, err := a.node.GetMetadata(r.Context(), tokenId)
	if err != nil || record == nil {
		// The update succeeded; degrade to a bodyless response
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, newMembershipResponse(tokenId, record))
}

// handleCancel handles DELETE /v1/memberships/{id}.
func (a *Api) handleCancel(
	w http.ResponseWriter,
	r *http.Request,
) {
	caller, err := a.callerIdentity(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	tokenId, err := membership.TokenIdFromHex(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.node.Cancel(r.Context(), tokenId, caller); err != nil {
		a.logger.Debug(
			"cancellation rejected",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFarms handles GET /v1/farms.
func (a *Api) handleFarms(
	w http.ResponseWriter,
	r *http.Request,
) {
	farms, err := a.node.Farms(r.Context(), false)
	if err != nil {
		a.logger.Error(
			"failed to list farms",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	ret := make([]FarmResponse, 0, len(farms))
	for _, farm := range farms {
		ret = append(ret, FarmResponse{
			FarmId:   farm.Id,
			Name:     farm.Name,
			Location: farm.Location,
			Active:   farm.Active,
		})
	}
	writeJSON(w, http.StatusOK, ret)
}

// handleFarmCreate handles POST /v1/farms.
func (a *Api) handleFarmCreate(
	w http.ResponseWriter,
	r *http.Request,
) {
	if _, err := a.callerIdentity(r); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var req FarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	farmId, err := membership.FarmIdFromHex(req.FarmId)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "farm name is required")
		return
	}
	if err := a.node.FarmCreate(
		r.Context(),
		farmId,
		req.Name,
		req.Location,
	); err != nil {
		a.logger.Error(
			"failed to register farm",
			"error", err,
		)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, FarmResponse{
		FarmId:   req.FarmId,
		Name:     req.Name,
		Location: req.Location,
		Active:   true,
	})
}
