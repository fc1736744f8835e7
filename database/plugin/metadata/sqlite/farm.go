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

package sqlite

import (
	"errors"
	"fmt"

	"github.com/harvestlabs-io/croft/database/models"
	"gorm.io/gorm"
)

// GetFarm gets a farm by id. Returns nil without error when the farm is
// not registered
func (d *MetadataStoreSqlite) GetFarm(
	farmId []byte,
	includeInactive bool,
	txn *gorm.DB,
) (*models.Farm, error) {
	ret := &models.Farm{}
	if txn == nil {
		txn = d.DB()
	}

	query := txn.Where("farm_id = ?", farmId)
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	result := query.First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetFarms lists registered farms
func (d *MetadataStoreSqlite) GetFarms(
	includeInactive bool,
	txn *gorm.DB,
) ([]models.Farm, error) {
	var ret []models.Farm
	if txn == nil {
		txn = d.DB()
	}

	query := txn.Order("name")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	if result := query.Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetFarm saves a farm
func (d *MetadataStoreSqlite) SetFarm(
	farmId []byte,
	name string,
	location string,
	active bool,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}

	// Find or create farm for this id (farms are unique per farm id)
	farm := &models.Farm{}
	result := db.FirstOrCreate(farm, models.Farm{FarmId: farmId})
	if result.Error != nil {
		return fmt.Errorf("failed to find or create farm: %w", result.Error)
	}

	// Update farm fields
	updates := map[string]interface{}{
		"name":     name,
		"location": location,
		"active":   active,
	}
	if err := db.Model(farm).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update farm: %w", err)
	}

	return nil
}
