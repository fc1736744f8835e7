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
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/harvestlabs-io/croft/event"
	"github.com/harvestlabs-io/croft/identity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServiceConfig configures a membership Service
type ServiceConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.EventBus
	Store        Store
	Registry     FarmRegistry
	// Now supplies the current time for date validation. Defaults to
	// time.Now; tests substitute a fixed clock.
	Now func() time.Time
}

// Service implements the membership lifecycle: enroll, update pickup
// location, cancel, and metadata lookup. Each operation runs its full
// validate/authorize/mutate/notify sequence to completion; any failure
// before the mutation leaves the store untouched.
type Service struct {
	config   ServiceConfig
	logger   *slog.Logger
	eventBus *event.EventBus
	store    Store
	registry FarmRegistry
	now      func() time.Time
	metrics  struct {
		operations *prometheus.CounterVec
	}
}

// EnrollParams carries the caller-supplied enrollment parameters
type EnrollParams struct {
	Season         string
	PickupLocation string
	ShareSize      ShareSize
	FarmId         FarmId
	StartDate      uint64
	EndDate        uint64
}

func NewService(config ServiceConfig) *Service {
	s := &Service{
		config:   config,
		eventBus: config.EventBus,
		store:    config.Store,
		registry: config.Registry,
		now:      config.Now,
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		s.logger = config.Logger.With("component", "membership")
	}
	if s.now == nil {
		s.now = time.Now
	}
	promautoFactory := promauto.With(config.PromRegistry)
	s.metrics.operations = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "croft_membership_operations_total",
			Help: "total membership operations by operation and result",
		},
		[]string{"operation", "result"},
	)
	return s
}

// Enroll validates the enrollment parameters, derives the caller's
// owner key, and creates a new membership record under a fresh token
// id. The validator runs to completion before any write, so a
// validation failure guarantees no record exists afterward.
func (s *Service) Enroll(
	ctx context.Context,
	params EnrollParams,
	caller identity.Identity,
) (TokenId, error) {
	currentTime := uint64(s.now().Unix()) //nolint:gosec
	if err := validateEnrollment(
		ctx,
		s.registry,
		params.FarmId,
		params.Season,
		params.StartDate,
		params.EndDate,
		currentTime,
	); err != nil {
		s.metrics.operations.WithLabelValues("enroll", "failure").Inc()
		return TokenId{}, err
	}
	ownerKey := identity.KeyFromIdentity(caller)
	record := Record{
		FarmId:         params.FarmId,
		Season:         params.Season,
		ShareSize:      params.ShareSize,
		PickupLocation: params.PickupLocation,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		OwnerKey:       ownerKey,
	}
	tokenId := NewTokenId(params.FarmId, ownerKey, params.Season)
	if err := s.store.MembershipCreate(ctx, tokenId, record); err != nil {
		s.metrics.operations.WithLabelValues("enroll", "failure").Inc()
		return TokenId{}, err
	}
	s.logger.Info(
		"membership enrolled",
		"token_id", tokenId.String(),
		"farm_id", params.FarmId.String(),
		"season", params.Season,
	)
	s.metrics.operations.WithLabelValues("enroll", "success").Inc()
	s.notify(EnrollEventType, caller, tokenId)
	return tokenId, nil
}

// UpdatePickupLocation changes the pickup location of an existing
// record. Only the enrolling identity may update, and only the pickup
// location field changes.
func (s *Service) UpdatePickupLocation(
	ctx context.Context,
	tokenId TokenId,
	newLocation string,
	caller identity.Identity,
) error {
	record, err := s.store.MembershipGet(ctx, tokenId)
	if err != nil {
		s.metrics.operations.WithLabelValues("update", "failure").Inc()
		return err
	}
	if record == nil {
		s.metrics.operations.WithLabelValues("update", "failure").Inc()
		return ErrNotFound
	}
	if err := authorize(record.OwnerKey, identity.KeyFromIdentity(caller)); err != nil {
		s.metrics.operations.WithLabelValues("update", "failure").Inc()
		return err
	}
	record.PickupLocation = newLocation
	if err := s.store.MembershipUpdate(ctx, tokenId, *record); err != nil {
		s.metrics.operations.WithLabelValues("update", "failure").Inc()
		return err
	}
	s.logger.Info(
		"pickup location updated",
		"token_id", tokenId.String(),
	)
	s.metrics.operations.WithLabelValues("update", "success").Inc()
	s.notify(UpdateEventType, caller, tokenId)
	return nil
}

// Cancel removes an existing record entirely. Only the enrolling
// identity may cancel. There is no tombstone: a cancelled token id
// reads as absent afterward.
func (s *Service) Cancel(
	ctx context.Context,
	tokenId TokenId,
	caller identity.Identity,
) error {
	record, err := s.store.MembershipGet(ctx, tokenId)
	if err != nil {
		s.metrics.operations.WithLabelValues("cancel", "failure").Inc()
		return err
	}
	if record == nil {
		s.metrics.operations.WithLabelValues("cancel", "failure").Inc()
		return ErrNotFound
	}
	if err := authorize(record.OwnerKey, identity.KeyFromIdentity(caller)); err != nil {
		s.metrics.operations.WithLabelValues("cancel", "failure").Inc()
		return err
	}
	if err := s.store.MembershipDelete(ctx, tokenId); err != nil {
		s.metrics.operations.WithLabelValues("cancel", "failure").Inc()
		return err
	}
	s.logger.Info(
		"membership cancelled",
		"token_id", tokenId.String(),
	)
	s.metrics.operations.WithLabelValues("cancel", "success").Inc()
	s.notify(CancelEventType, caller, tokenId)
	return nil
}

// GetMetadata returns the record stored under tokenId, or nil when no
// live record exists. Reads require no authorization and never mutate
// state.
func (s *Service) GetMetadata(
	ctx context.Context,
	tokenId TokenId,
) (*Record, error) {
	record, err := s.store.MembershipGet(ctx, tokenId)
	if err != nil {
		s.metrics.operations.WithLabelValues("get", "failure").Inc()
		return nil, err
	}
	s.metrics.operations.WithLabelValues("get", "success").Inc()
	return record, nil
}

// List returns the caller's own memberships. Ownership is determined
// the same way authorization is: the caller's derived key must match
// the record's owner key byte for byte.
func (s *Service) List(
	ctx context.Context,
	caller identity.Identity,
) ([]Enrollment, error) {
	all, err := s.store.MembershipsList(ctx)
	if err != nil {
		s.metrics.operations.WithLabelValues("list", "failure").Inc()
		return nil, err
	}
	callerKey := identity.KeyFromIdentity(caller)
	var ret []Enrollment
	for _, enrollment := range all {
		if enrollment.Record.OwnerKey.Equal(callerKey) {
			ret = append(ret, enrollment)
		}
	}
	s.metrics.operations.WithLabelValues("list", "success").Inc()
	return ret, nil
}

// authorize compares the record's owner key against the caller's
// derived key. Byte equality only; creation establishes ownership and
// reads are public, so this runs only before update and cancel.
func authorize(ownerKey, callerKey identity.Key) error {
	if !ownerKey.Equal(callerKey) {
		return ErrUnauthorized
	}
	return nil
}

// notify emits a lifecycle event after a successful mutation. Delivery
// is best-effort: a full queue or failed subscriber never rolls back
// the storage mutation that preceded it.
func (s *Service) notify(
	eventType event.EventType,
	caller identity.Identity,
	tokenId TokenId,
) {
	if s.eventBus == nil {
		return
	}
	evt := event.NewEvent(
		eventType,
		LifecycleEvent{
			Caller:  caller,
			Outcome: OutcomeSuccess,
			TokenId: tokenId,
		},
	)
	if !s.eventBus.PublishAsync(eventType, evt) {
		s.logger.Warn(
			"lifecycle notification dropped",
			"type", eventType,
			"token_id", tokenId.String(),
		)
	}
}
