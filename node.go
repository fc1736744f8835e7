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

package croft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harvestlabs-io/croft/api"
	"github.com/harvestlabs-io/croft/database"
	"github.com/harvestlabs-io/croft/event"
	"github.com/harvestlabs-io/croft/identity"
	"github.com/harvestlabs-io/croft/membership"
)

type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	membership    *membership.Service
	api           *api.Api
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

func (n *Node) Run() error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	dbConfig := &database.Config{
		DataDir:        n.config.dataDir,
		Logger:         n.config.logger,
		PromRegistry:   n.config.promRegistry,
		BlobPlugin:     n.config.blobPlugin,
		MetadataPlugin: n.config.metadataPlugin,
	}
	db, err := database.New(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	// Subscribe to membership lifecycle events for audit logging
	for _, eventType := range []event.EventType{
		membership.EnrollEventType,
		membership.UpdateEventType,
		membership.CancelEventType,
	} {
		n.eventBus.SubscribeFunc(eventType, n.handleLifecycleEvent)
	}
	// Initialize membership service
	n.membership = membership.NewService(
		membership.ServiceConfig{
			Logger:       n.config.logger,
			EventBus:     n.eventBus,
			Store:        n.db,
			Registry:     n.db,
			PromRegistry: n.config.promRegistry,
		},
	)
	// Start REST API
	n.api = api.New(
		api.ApiConfig{
			ListenAddress: n.config.apiListenAddress,
			JwtSecret:     n.config.jwtSecret,
		},
		n,
		n.config.logger,
	)
	if err := n.api.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start API: %w", err)
	}

	// Wait for shutdown signal
	<-n.done
	return nil
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Phase 1: stop accepting new requests
	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Phase 2: flush state and close database
	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	// Phase 3: cleanup resources
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}

// handleLifecycleEvent logs lifecycle notifications delivered over the
// event bus
func (n *Node) handleLifecycleEvent(evt event.Event) {
	e, ok := evt.Data.(membership.LifecycleEvent)
	if !ok {
		return
	}
	n.config.logger.Info(
		"membership lifecycle event",
		"component", "node",
		"type", string(evt.Type),
		"outcome", e.Outcome,
		"token_id", e.TokenId.String(),
	)
}

// Enroll implements api.ApiNode
func (n *Node) Enroll(
	ctx context.Context,
	params membership.EnrollParams,
	caller identity.Identity,
) (membership.TokenId, error) {
	return n.membership.Enroll(ctx, params, caller)
}

// UpdatePickupLocation implements api.ApiNode
func (n *Node) UpdatePickupLocation(
	ctx context.Context,
	tokenId membership.TokenId,
	newLocation string,
	caller identity.Identity,
) error {
	return n.membership.UpdatePickupLocation(ctx, tokenId, newLocation, caller)
}

// Cancel implements api.ApiNode
func (n *Node) Cancel(
	ctx context.Context,
	tokenId membership.TokenId,
	caller identity.Identity,
) error {
	return n.membership.Cancel(ctx, tokenId, caller)
}

// GetMetadata implements api.ApiNode
func (n *Node) GetMetadata(
	ctx context.Context,
	tokenId membership.TokenId,
) (*membership.Record, error) {
	return n.membership.GetMetadata(ctx, tokenId)
}

// List implements api.ApiNode
func (n *Node) List(
	ctx context.Context,
	caller identity.Identity,
) ([]membership.Enrollment, error) {
	return n.membership.List(ctx, caller)
}

// FarmCreate implements api.ApiNode
func (n *Node) FarmCreate(
	ctx context.Context,
	farmId membership.FarmId,
	name string,
	location string,
) error {
	return n.db.FarmCreate(ctx, farmId, name, location)
}

// Farms implements api.ApiNode
func (n *Node) Farms(
	ctx context.Context,
	includeInactive bool,
) ([]api.FarmInfo, error) {
	farms, err := n.db.FarmsList(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	ret := make([]api.FarmInfo, 0, len(farms))
	for _, farm := range farms {
		ret = append(ret, api.FarmInfo{
			Id:       farm.String(),
			Name:     farm.Name,
			Location: farm.Location,
			Active:   farm.Active,
		})
	}
	return ret, nil
}
