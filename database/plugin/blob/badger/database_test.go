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

package badger

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/harvestlabs-io/croft/database/types"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestStore(t *testing.T) *BlobStoreBadger {
	t.Helper()
	// Empty data dir gives us an in-memory store
	store, err := New()
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("unexpected error closing store: %v", err)
		}
	})
	return store
}

func TestSetGetDelete(t *testing.T) {
	store := newTestStore(t)

	key := []byte("test-key")
	val := []byte("test-value")

	txn := store.NewTransaction(true)
	if err := store.Set(txn, key, val); err != nil {
		t.Fatalf("unexpected error setting key: %v", err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %v", err)
	}

	txn = store.NewTransaction(false)
	got, err := store.Get(txn, key)
	if err != nil {
		t.Fatalf("unexpected error getting key: %v", err)
	}
	if !bytes.Equal(got, val) {
		t.Errorf("expected value %q, got %q", val, got)
	}
	if err := txn.Rollback(); err != nil {
		t.Fatalf("unexpected error rolling back: %v", err)
	}

	txn = store.NewTransaction(true)
	if err := store.Delete(txn, key); err != nil {
		t.Fatalf("unexpected error deleting key: %v", err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %v", err)
	}

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	if _, err := store.Get(txn, key); !errors.Is(err, types.ErrBlobKeyNotFound) {
		t.Errorf("expected ErrBlobKeyNotFound, got %v", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	txn := store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	if _, err := store.Get(txn, []byte("no-such-key")); !errors.Is(err, types.ErrBlobKeyNotFound) {
		t.Errorf("expected ErrBlobKeyNotFound, got %v", err)
	}
}

func TestRollbackDiscardsWrites(t *testing.T) {
	store := newTestStore(t)

	key := []byte("rollback-key")

	txn := store.NewTransaction(true)
	if err := store.Set(txn, key, []byte("doomed")); err != nil {
		t.Fatalf("unexpected error setting key: %v", err)
	}
	if err := txn.Rollback(); err != nil {
		t.Fatalf("unexpected error rolling back: %v", err)
	}

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	if _, err := store.Get(txn, key); !errors.Is(err, types.ErrBlobKeyNotFound) {
		t.Errorf("expected ErrBlobKeyNotFound after rollback, got %v", err)
	}
}

func TestFinishedTxnRejected(t *testing.T) {
	store := newTestStore(t)

	txn := store.NewTransaction(true)
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %v", err)
	}

	// A finished transaction can no longer be used
	if err := store.Set(txn, []byte("k"), []byte("v")); err == nil {
		t.Error("expected error using committed transaction")
	}
	// Commit and Rollback on a finished transaction are no-ops
	if err := txn.Commit(); err != nil {
		t.Errorf("unexpected error re-committing: %v", err)
	}
	if err := txn.Rollback(); err != nil {
		t.Errorf("unexpected error rolling back finished txn: %v", err)
	}
}

func TestNilAndWrongTxn(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get(nil, []byte("k")); !errors.Is(err, types.ErrNilTxn) {
		t.Errorf("expected ErrNilTxn, got %v", err)
	}

	other := newTestStore(t)
	txn := other.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	if _, err := store.Get(txn, []byte("k")); err == nil {
		t.Error("expected error using transaction from different store")
	}
}

func TestIteratorPrefix(t *testing.T) {
	store := newTestStore(t)

	entries := map[string]string{
		"m\x01": "one",
		"m\x02": "two",
		"m\x03": "three",
		"x\x01": "other",
	}
	txn := store.NewTransaction(true)
	for k, v := range entries {
		if err := store.Set(txn, []byte(k), []byte(v)); err != nil {
			t.Fatalf("unexpected error setting key: %v", err)
		}
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %v", err)
	}

	txn = store.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck
	prefix := []byte("m")
	iter := store.NewIterator(txn, types.BlobIteratorOptions{Prefix: prefix})
	defer iter.Close()
	var count int
	for iter.Rewind(); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		key := item.Key()
		val, err := item.ValueCopy(nil)
		if err != nil {
			t.Fatalf("unexpected error copying value: %v", err)
		}
		expected, ok := entries[string(key)]
		if !ok {
			t.Fatalf("unexpected key %q in iteration", key)
		}
		if string(val) != expected {
			t.Errorf("expected value %q for key %q, got %q", expected, key, val)
		}
		count++
	}
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected iterator error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 keys with prefix, got %d", count)
	}
}

func TestNewFromCmdlineOptionsObservability(t *testing.T) {
	// Force the in-memory store for this test
	cmdlineOptionsMutex.Lock()
	prevDataDir := cmdlineOptions.dataDir
	cmdlineOptions.dataDir = ""
	cmdlineOptionsMutex.Unlock()
	t.Cleanup(func() {
		cmdlineOptionsMutex.Lock()
		cmdlineOptions.dataDir = prevDataDir
		cmdlineOptionsMutex.Unlock()
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	promRegistry := prometheus.NewRegistry()
	p := NewFromCmdlineOptions(logger, promRegistry)
	store, ok := p.(*BlobStoreBadger)
	if !ok {
		t.Fatalf("expected *BlobStoreBadger, got %T", p)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("unexpected error closing store: %v", err)
		}
	})
	if store.logger != logger {
		t.Error("expected configured logger on store")
	}
	if store.promRegistry != promRegistry {
		t.Error("expected configured prometheus registry on store")
	}
}
