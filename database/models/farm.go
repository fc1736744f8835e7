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

package models

import "encoding/hex"

// Farm is a registered farm that memberships can be enrolled against.
// Enrollment validation checks the farm id against this table
type Farm struct {
	FarmId   []byte `gorm:"uniqueIndex;size:32"`
	Name     string `gorm:"index"`
	Location string
	ID       uint `gorm:"primarykey"`
	Active   bool `gorm:"default:true"`
}

func (f *Farm) TableName() string {
	return "farm"
}

// String returns the hex-encoded representation of the farm id
func (f *Farm) String() string {
	return hex.EncodeToString(f.FarmId)
}
