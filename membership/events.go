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
	"github.com/harvestlabs-io/croft/event"
	"github.com/harvestlabs-io/croft/identity"
)

const (
	// EnrollEventType is emitted after a successful enrollment
	EnrollEventType event.EventType = "membership.enroll"

	// UpdateEventType is emitted after a successful pickup location
	// update
	UpdateEventType event.EventType = "membership.update"

	// CancelEventType is emitted after a successful cancellation
	CancelEventType event.EventType = "membership.cancel"
)

// OutcomeSuccess is the outcome label carried by lifecycle events.
// Only successful mutations emit events, so this is currently the only
// outcome value.
const OutcomeSuccess = "success"

// LifecycleEvent is the payload for all membership lifecycle events
type LifecycleEvent struct {
	Caller  identity.Identity
	Outcome string
	TokenId TokenId
}
