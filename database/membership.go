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

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/harvestlabs-io/croft/database/types"
	"github.com/harvestlabs-io/croft/membership"
)

const membershipKeyPrefix = "m"

func membershipBlobKey(tokenId membership.TokenId) []byte {
	return append([]byte(membershipKeyPrefix), tokenId.Bytes()...)
}

func encodeMembershipRecord(record membership.Record) ([]byte, error) {
	data, err := cbor.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode membership record: %w", err)
	}
	return data, nil
}

func decodeMembershipRecord(data []byte) (*membership.Record, error) {
	var record membership.Record
	if err := cbor.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode membership record: %w", err)
	}
	return &record, nil
}

// MembershipCreate stores a new membership record. It fails with
// membership.ErrAlreadyExists when a record already exists for the token id
func (d *Database) MembershipCreate(
	ctx context.Context,
	tokenId membership.TokenId,
	record membership.Record,
) error {
	data, err := encodeMembershipRecord(record)
	if err != nil {
		return err
	}
	key := membershipBlobKey(tokenId)
	txn := NewBlobOnlyTxn(d, true)
	return txn.Do(func(txn *Txn) error {
		_, err := d.Blob().Get(txn.Blob(), key)
		if err == nil {
			return membership.ErrAlreadyExists
		}
		if !errors.Is(err, types.ErrBlobKeyNotFound) {
			return err
		}
		return d.Blob().Set(txn.Blob(), key, data)
	})
}

// MembershipGet returns the membership record for the token id, or nil
// without error when no record exists
func (d *Database) MembershipGet(
	ctx context.Context,
	tokenId membership.TokenId,
) (*membership.Record, error) {
	txn := NewBlobOnlyTxn(d, false)
	defer txn.Release()
	data, err := d.Blob().Get(txn.Blob(), membershipBlobKey(tokenId))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeMembershipRecord(data)
}

// MembershipUpdate replaces the membership record for an existing token id
func (d *Database) MembershipUpdate(
	ctx context.Context,
	tokenId membership.TokenId,
	record membership.Record,
) error {
	data, err := encodeMembershipRecord(record)
	if err != nil {
		return err
	}
	key := membershipBlobKey(tokenId)
	txn := NewBlobOnlyTxn(d, true)
	return txn.Do(func(txn *Txn) error {
		if _, err := d.Blob().Get(txn.Blob(), key); err != nil {
			if errors.Is(err, types.ErrBlobKeyNotFound) {
				return membership.ErrNotFound
			}
			return err
		}
		return d.Blob().Set(txn.Blob(), key, data)
	})
}

// MembershipDelete removes the membership record for an existing token id
func (d *Database) MembershipDelete(
	ctx context.Context,
	tokenId membership.TokenId,
) error {
	key := membershipBlobKey(tokenId)
	txn := NewBlobOnlyTxn(d, true)
	return txn.Do(func(txn *Txn) error {
		if _, err := d.Blob().Get(txn.Blob(), key); err != nil {
			if errors.Is(err, types.ErrBlobKeyNotFound) {
				return membership.ErrNotFound
			}
			return err
		}
		return d.Blob().Delete(txn.Blob(), key)
	})
}

// MembershipsList returns all stored membership records
func (d *Database) MembershipsList(
	ctx context.Context,
) ([]membership.Enrollment, error) {
	txn := NewBlobOnlyTxn(d, false)
	defer txn.Release()
	prefix := []byte(membershipKeyPrefix)
	iter := d.Blob().NewIterator(txn.Blob(), types.BlobIteratorOptions{
		Prefix: prefix,
	})
	defer iter.Close()
	var ret []membership.Enrollment
	for iter.Rewind(); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		key := item.Key()
		tokenId, err := membership.TokenIdFromBytes(key[len(prefix):])
		if err != nil {
			return nil, fmt.Errorf("unexpected blob key %x: %w", key, err)
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		record, err := decodeMembershipRecord(data)
		if err != nil {
			return nil, err
		}
		ret = append(ret, membership.Enrollment{
			TokenId: tokenId,
			Record:  *record,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}
