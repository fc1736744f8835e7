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

	"github.com/harvestlabs-io/croft/database/models"
	"github.com/harvestlabs-io/croft/membership"
)

// FarmExists reports whether a farm id resolves to an active registered
// farm. This backs enrollment validation
func (d *Database) FarmExists(
	ctx context.Context,
	farmId membership.FarmId,
) (bool, error) {
	farm, err := d.Metadata().GetFarm(farmId.Bytes(), false, nil)
	if err != nil {
		return false, err
	}
	return farm != nil, nil
}

// FarmCreate registers a farm, or reactivates and updates an existing
// registration with the same id
func (d *Database) FarmCreate(
	ctx context.Context,
	farmId membership.FarmId,
	name string,
	location string,
) error {
	return d.Metadata().SetFarm(farmId.Bytes(), name, location, true, nil)
}

// FarmDeactivate marks a farm as inactive. Existing memberships are
// untouched; new enrollments against the farm will fail validation
func (d *Database) FarmDeactivate(
	ctx context.Context,
	farmId membership.FarmId,
) error {
	farm, err := d.Metadata().GetFarm(farmId.Bytes(), true, nil)
	if err != nil {
		return err
	}
	if farm == nil {
		return membership.ErrInvalidFarm
	}
	return d.Metadata().SetFarm(
		farm.FarmId,
		farm.Name,
		farm.Location,
		false,
		nil,
	)
}

// FarmGet returns a registered farm, or nil when the id is unknown
func (d *Database) FarmGet(
	ctx context.Context,
	farmId membership.FarmId,
) (*models.Farm, error) {
	return d.Metadata().GetFarm(farmId.Bytes(), true, nil)
}

// FarmsList returns registered farms ordered by name
func (d *Database) FarmsList(
	ctx context.Context,
	includeInactive bool,
) ([]models.Farm, error) {
	return d.Metadata().GetFarms(includeInactive, nil)
}
