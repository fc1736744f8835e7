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
	"fmt"
)

// validateEnrollment checks enrollment parameters before any record is
// written. Checks run in a fixed order and short-circuit on the first
// failure: farm registration, date ordering, season label length. The
// registry lookup is the only side-effect-free external call.
func validateEnrollment(
	ctx context.Context,
	registry FarmRegistry,
	farmId FarmId,
	season string,
	startDate uint64,
	endDate uint64,
	currentTime uint64,
) error {
	exists, err := registry.FarmExists(ctx, farmId)
	if err != nil {
		return fmt.Errorf("farm registry lookup: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrInvalidFarm, farmId)
	}
	if startDate >= endDate || startDate < currentTime {
		return fmt.Errorf(
			"%w: start=%d end=%d now=%d",
			ErrInvalidDates,
			startDate,
			endDate,
			currentTime,
		)
	}
	if len(season) == 0 || len(season) > MaxSeasonLen {
		return fmt.Errorf("%w: length %d", ErrInvalidSeason, len(season))
	}
	return nil
}
