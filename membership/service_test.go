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
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/harvestlabs-io/croft/event"
	"github.com/harvestlabs-io/croft/identity"
	"github.com/harvestlabs-io/croft/membership"
)

const (
	testCallerAlice identity.Identity = "alice"
	testCallerBob   identity.Identity = "bob"
)

var testBaseTime = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

// memStore is an in-memory substitute for the persistent record store
type memStore struct {
	mu      sync.Mutex
	records map[membership.TokenId]membership.Record
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[membership.TokenId]membership.Record),
	}
}

func (m *memStore) MembershipCreate(
	_ context.Context,
	tokenId membership.TokenId,
	record membership.Record,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[tokenId]; ok {
		return membership.ErrAlreadyExists
	}
	m.records[tokenId] = record
	return nil
}

func (m *memStore) MembershipGet(
	_ context.Context,
	tokenId membership.TokenId,
) (*membership.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[tokenId]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *memStore) MembershipUpdate(
	_ context.Context,
	tokenId membership.TokenId,
	record membership.Record,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[tokenId]; !ok {
		return membership.ErrNotFound
	}
	m.records[tokenId] = record
	return nil
}

func (m *memStore) MembershipDelete(
	_ context.Context,
	tokenId membership.TokenId,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[tokenId]; !ok {
		return membership.ErrNotFound
	}
	delete(m.records, tokenId)
	return nil
}

func (m *memStore) MembershipsList(
	_ context.Context,
) ([]membership.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ret []membership.Enrollment
	for tokenId, record := range m.records {
		ret = append(ret, membership.Enrollment{
			TokenId: tokenId,
			Record:  record,
		})
	}
	return ret, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// stubRegistry resolves a fixed set of farm ids
type stubRegistry struct {
	farms map[membership.FarmId]bool
}

func (r *stubRegistry) FarmExists(
	_ context.Context,
	farmId membership.FarmId,
) (bool, error) {
	return r.farms[farmId], nil
}

type testHarness struct {
	service  *membership.Service
	store    *memStore
	eventBus *event.EventBus
	events   <-chan event.Event
	farmId   membership.FarmId
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	var farmId membership.FarmId
	copy(farmId[:], []byte("test-farm"))
	store := newMemStore()
	eventBus := event.NewEventBus(nil, nil)
	t.Cleanup(eventBus.Stop)
	// Collect all lifecycle event types on a single channel
	events := make(chan event.Event, 16)
	for _, evtType := range []event.EventType{
		membership.EnrollEventType,
		membership.UpdateEventType,
		membership.CancelEventType,
	} {
		eventBus.SubscribeFunc(evtType, func(evt event.Event) {
			events <- evt
		})
	}
	service := membership.NewService(membership.ServiceConfig{
		Store:    store,
		Registry: &stubRegistry{
			farms: map[membership.FarmId]bool{farmId: true},
		},
		EventBus: eventBus,
		Now:      func() time.Time { return testBaseTime },
	})
	return &testHarness{
		service:  service,
		store:    store,
		eventBus: eventBus,
		events:   events,
		farmId:   farmId,
	}
}

func (h *testHarness) enrollParams() membership.EnrollParams {
	start := uint64(testBaseTime.Unix()) + 86400
	return membership.EnrollParams{
		FarmId:         h.farmId,
		Season:         "Summer 2023",
		ShareSize:      membership.MediumShare(),
		PickupLocation: "Farm Market",
		StartDate:      start,
		EndDate:        start + 7776000,
	}
}

func (h *testHarness) waitEvent(
	t *testing.T,
	wantType event.EventType,
) membership.LifecycleEvent {
	t.Helper()
	select {
	case evt := <-h.events:
		if evt.Type != wantType {
			t.Fatalf("unexpected event type: got %s, want %s", evt.Type, wantType)
		}
		payload, ok := evt.Data.(membership.LifecycleEvent)
		if !ok {
			t.Fatalf("unexpected event payload type: %T", evt.Data)
		}
		return payload
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for %s event", wantType)
	}
	return membership.LifecycleEvent{}
}

func (h *testHarness) expectNoEvent(t *testing.T) {
	t.Helper()
	select {
	case evt := <-h.events:
		t.Fatalf("unexpected event: %s", evt.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEnroll(t *testing.T) {
	h := newTestHarness(t)
	params := h.enrollParams()
	tokenId, err := h.service.Enroll(t.Context(), params, testCallerAlice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	evt := h.waitEvent(t, membership.EnrollEventType)
	if evt.Caller != testCallerAlice {
		t.Fatalf("unexpected event caller: %s", evt.Caller)
	}
	if evt.TokenId != tokenId {
		t.Fatalf("event token id does not match returned token id")
	}
	if evt.Outcome != membership.OutcomeSuccess {
		t.Fatalf("unexpected event outcome: %s", evt.Outcome)
	}

	record, err := h.service.GetMetadata(t.Context(), tokenId)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record == nil {
		t.Fatalf("expected record after enrollment")
	}
	if record.FarmId != params.FarmId ||
		record.Season != params.Season ||
		record.ShareSize != params.ShareSize ||
		record.PickupLocation != params.PickupLocation ||
		record.StartDate != params.StartDate ||
		record.EndDate != params.EndDate {
		t.Fatalf("stored record does not match enrollment parameters")
	}
	if !record.OwnerKey.Equal(identity.KeyFromIdentity(testCallerAlice)) {
		t.Fatalf("owner key not derived from enrolling caller")
	}
}

func TestEnrollInvalidDates(t *testing.T) {
	h := newTestHarness(t)

	// start == end
	params := h.enrollParams()
	params.EndDate = params.StartDate
	_, err := h.service.Enroll(t.Context(), params, testCallerAlice)
	if !errors.Is(err, membership.ErrInvalidDates) {
		t.Fatalf("expected ErrInvalidDates, got %v", err)
	}

	// backdated start
	params = h.enrollParams()
	params.StartDate = uint64(testBaseTime.Unix()) - 1
	_, err = h.service.Enroll(t.Context(), params, testCallerAlice)
	if !errors.Is(err, membership.ErrInvalidDates) {
		t.Fatalf("expected ErrInvalidDates, got %v", err)
	}

	if h.store.count() != 0 {
		t.Fatalf("no record should exist after failed validation")
	}
	h.expectNoEvent(t)
}

func TestEnrollInvalidSeason(t *testing.T) {
	h := newTestHarness(t)
	for _, season := range []string{
		"",
		"a season label that runs well past thirty-two bytes",
	} {
		params := h.enrollParams()
		params.Season = season
		_, err := h.service.Enroll(t.Context(), params, testCallerAlice)
		if !errors.Is(err, membership.ErrInvalidSeason) {
			t.Fatalf("season %q: expected ErrInvalidSeason, got %v", season, err)
		}
	}
	if h.store.count() != 0 {
		t.Fatalf("no record should exist after failed validation")
	}
	h.expectNoEvent(t)
}

func TestEnrollUnknownFarm(t *testing.T) {
	h := newTestHarness(t)
	params := h.enrollParams()
	copy(params.FarmId[:], []byte("unknown-farm"))
	_, err := h.service.Enroll(t.Context(), params, testCallerAlice)
	if !errors.Is(err, membership.ErrInvalidFarm) {
		t.Fatalf("expected ErrInvalidFarm, got %v", err)
	}
	if h.store.count() != 0 {
		t.Fatalf("no record should exist after failed validation")
	}
	h.expectNoEvent(t)
}

func TestUpdatePickupLocation(t *testing.T) {
	h := newTestHarness(t)
	tokenId, err := h.service.Enroll(
		t.Context(),
		h.enrollParams(),
		testCallerAlice,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.EnrollEventType)

	before, err := h.service.GetMetadata(t.Context(), tokenId)
	if err != nil || before == nil {
		t.Fatalf("failed to read record back: %v", err)
	}

	err = h.service.UpdatePickupLocation(
		t.Context(),
		tokenId,
		"City Market",
		testCallerAlice,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	evt := h.waitEvent(t, membership.UpdateEventType)
	if evt.Outcome != membership.OutcomeSuccess {
		t.Fatalf("unexpected event outcome: %s", evt.Outcome)
	}

	after, err := h.service.GetMetadata(t.Context(), tokenId)
	if err != nil || after == nil {
		t.Fatalf("failed to read record back: %v", err)
	}
	if after.PickupLocation != "City Market" {
		t.Fatalf("pickup location not updated: %s", after.PickupLocation)
	}
	// Only the pickup location may change
	expected := *before
	expected.PickupLocation = "City Market"
	if !reflect.DeepEqual(*after, expected) {
		t.Fatalf("update changed fields other than pickup location")
	}
}

func TestUpdateUnauthorized(t *testing.T) {
	h := newTestHarness(t)
	tokenId, err := h.service.Enroll(
		t.Context(),
		h.enrollParams(),
		testCallerAlice,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.EnrollEventType)

	before, _ := h.service.GetMetadata(t.Context(), tokenId)

	err = h.service.UpdatePickupLocation(
		t.Context(),
		tokenId,
		"City Market",
		testCallerBob,
	)
	if !errors.Is(err, membership.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	after, _ := h.service.GetMetadata(t.Context(), tokenId)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("record changed after unauthorized update")
	}
	if after.PickupLocation != "Farm Market" {
		t.Fatalf("pickup location changed: %s", after.PickupLocation)
	}
	h.expectNoEvent(t)
}

func TestCancel(t *testing.T) {
	h := newTestHarness(t)
	tokenId, err := h.service.Enroll(
		t.Context(),
		h.enrollParams(),
		testCallerAlice,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.EnrollEventType)

	if err := h.service.Cancel(t.Context(), tokenId, testCallerAlice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.CancelEventType)

	record, err := h.service.GetMetadata(t.Context(), tokenId)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record != nil {
		t.Fatalf("record still present after cancel")
	}

	// Subsequent mutations on the cancelled token id fail with NotFound
	err = h.service.UpdatePickupLocation(
		t.Context(),
		tokenId,
		"City Market",
		testCallerAlice,
	)
	if !errors.Is(err, membership.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	err = h.service.Cancel(t.Context(), tokenId, testCallerAlice)
	if !errors.Is(err, membership.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	h.expectNoEvent(t)
}

func TestCancelUnauthorized(t *testing.T) {
	h := newTestHarness(t)
	tokenId, err := h.service.Enroll(
		t.Context(),
		h.enrollParams(),
		testCallerAlice,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.EnrollEventType)

	err = h.service.Cancel(t.Context(), tokenId, testCallerBob)
	if !errors.Is(err, membership.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	record, _ := h.service.GetMetadata(t.Context(), tokenId)
	if record == nil {
		t.Fatalf("record removed by unauthorized cancel")
	}
	h.expectNoEvent(t)
}

func TestGetMetadataAbsent(t *testing.T) {
	h := newTestHarness(t)
	var tokenId membership.TokenId
	copy(tokenId[:], []byte("no-such-token"))
	record, err := h.service.GetMetadata(t.Context(), tokenId)
	if err != nil {
		t.Fatalf("lookup of absent token id should not error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected absent record")
	}
}

func TestGetMetadataRepeatable(t *testing.T) {
	h := newTestHarness(t)
	tokenId, err := h.service.Enroll(
		t.Context(),
		h.enrollParams(),
		testCallerAlice,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.EnrollEventType)

	first, err := h.service.GetMetadata(t.Context(), tokenId)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 3 {
		next, err := h.service.GetMetadata(t.Context(), tokenId)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("repeated reads returned different records")
		}
	}
	h.expectNoEvent(t)
}

func TestListOwnedOnly(t *testing.T) {
	h := newTestHarness(t)
	aliceFirst, err := h.service.Enroll(
		t.Context(),
		h.enrollParams(),
		testCallerAlice,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.EnrollEventType)
	aliceSecond, err := h.service.Enroll(
		t.Context(),
		h.enrollParams(),
		testCallerAlice,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.EnrollEventType)
	bobToken, err := h.service.Enroll(
		t.Context(),
		h.enrollParams(),
		testCallerBob,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.waitEvent(t, membership.EnrollEventType)

	aliceList, err := h.service.List(t.Context(), testCallerAlice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aliceList) != 2 {
		t.Fatalf("expected 2 memberships for alice, got %d", len(aliceList))
	}
	for _, enrollment := range aliceList {
		if enrollment.TokenId != aliceFirst && enrollment.TokenId != aliceSecond {
			t.Fatalf("unexpected token id in alice's list: %s", enrollment.TokenId)
		}
	}

	bobList, err := h.service.List(t.Context(), testCallerBob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bobList) != 1 {
		t.Fatalf("expected 1 membership for bob, got %d", len(bobList))
	}
	if bobList[0].TokenId != bobToken {
		t.Fatalf("unexpected token id in bob's list: %s", bobList[0].TokenId)
	}
}
