/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package devicescope keeps a local mirror of the directory's authorization
// records so clients can be authenticated without a network round trip.
package devicescope

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/edgecore/pkg/events"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/syncutil"
)

const (
	defaultRefreshRate  = time.Hour
	defaultRefreshDelay = 2 * time.Minute
	defaultBatchSize    = 100
)

// Config tunes the background refresh.
type Config struct {
	// RefreshRate is the period of the full refresh loop.
	RefreshRate models.Duration `json:"refresh_rate"`
	// RefreshDelay is the minimum gap between two on-demand refreshes of one id.
	RefreshDelay models.Duration `json:"refresh_delay"`
	BatchSize    int             `json:"batch_size" validate:"gte=0"`
}

func (c *Config) Validate() error {
	if c.RefreshRate == 0 {
		c.RefreshRate = models.Duration(defaultRefreshRate)
	}

	if c.RefreshRate < 0 {
		return errInvalidRefreshRate
	}

	if c.RefreshDelay == 0 {
		c.RefreshDelay = models.Duration(defaultRefreshDelay)
	}

	if c.BatchSize == 0 {
		c.BatchSize = defaultBatchSize
	}

	return nil
}

// storedIdentity is the persisted mirror entry. A nil Identity is a tombstone.
type storedIdentity struct {
	Identity  *identity.ServiceIdentity `json:"identity,omitempty"`
	Timestamp time.Time                 `json:"timestamp"`
}

// Cache is the device scope identities cache.
type Cache struct {
	tree   *Tree
	proxy  ServiceProxy
	store  *kv.EntityStore[storedIdentity]
	cfg    Config
	clock  clock.Clock
	log    logger.Logger
	mu     *syncutil.Mutex
	signal *syncutil.Signal

	updated events.Broadcaster[*identity.ServiceIdentity]
	removed events.Broadcaster[string]

	refreshMu   sync.Mutex
	lastRefresh map[string]time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCache builds the cache and rehydrates the tree from store.
func NewCache(
	ctx context.Context,
	actorDeviceID string,
	proxy ServiceProxy,
	store kv.Store,
	cfg Config,
	clk clock.Clock,
	log logger.Logger,
) (*Cache, error) {
	if actorDeviceID == "" {
		return nil, ErrActorDeviceRequired
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if clk == nil {
		clk = clock.New()
	}

	c := &Cache{
		tree:        NewTree(actorDeviceID),
		proxy:       proxy,
		store:       kv.NewEntityStore[storedIdentity](store),
		cfg:         cfg,
		clock:       clk,
		log:         log,
		mu:          syncutil.NewMutex(),
		signal:      syncutil.NewSignal(),
		lastRefresh: make(map[string]time.Time),
	}

	if err := c.rehydrate(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Cache) rehydrate(ctx context.Context) error {
	count := 0

	err := c.store.IterateBatch(ctx, c.cfg.BatchSize, func(key string, rec storedIdentity) error {
		if rec.Identity == nil {
			return nil
		}

		c.tree.InsertOrUpdate(rec.Identity)
		count++

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to rehydrate identity cache: %w", err)
	}

	c.log.Info().Int("count", count).Msg("Rehydrated device scope identities from store")

	return nil
}

// Start launches the background refresh loop.
func (c *Cache) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()

	return nil
}

// Stop ends the refresh loop and waits for the current cycle to finish.
func (c *Cache) Stop(_ context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	c.wg.Wait()

	return nil
}

func (*Cache) Name() string { return "device-scope-cache" }

func (c *Cache) run(ctx context.Context) {
	for {
		if err := c.RefreshCache(ctx); err != nil && ctx.Err() == nil {
			c.log.Error().Err(err).Msg("Device scope identities refresh cycle failed")
		}

		timer := c.clock.Timer(time.Duration(c.cfg.RefreshRate))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		case <-c.signal.C():
			timer.Stop()
			c.log.Debug().Msg("Device scope identities refresh requested")
		}
	}
}

// InitiateCacheRefresh wakes the refresh loop without waiting for its period.
func (c *Cache) InitiateCacheRefresh() {
	c.signal.Notify()
}

// OnServiceIdentityUpdated registers fn for records whose tracked fields changed.
func (c *Cache) OnServiceIdentityUpdated(fn func(*identity.ServiceIdentity)) (unsubscribe func()) {
	return c.updated.Subscribe(fn)
}

// OnServiceIdentityRemoved registers fn for ids of enabled records that disappeared.
func (c *Cache) OnServiceIdentityRemoved(fn func(id string)) (unsubscribe func()) {
	return c.removed.Subscribe(fn)
}

// GetServiceIdentity answers from the local mirror only.
func (c *Cache) GetServiceIdentity(id string) (*identity.ServiceIdentity, bool) {
	return c.tree.Get(id)
}

// GetAuthChain returns the chain from id to the actor device.
func (c *Cache) GetAuthChain(id string) (string, bool) {
	return c.tree.GetAuthChain(id)
}

// AllIDs lists every cached id.
func (c *Cache) AllIDs() []string {
	return c.tree.AllIDs()
}

// RefreshCache pages through the directory once, then drops every cached
// id the directory no longer returns.
func (c *Cache) RefreshCache(ctx context.Context) error {
	c.log.Debug().Msg("Refreshing device scope identities cache")

	seen := make(map[string]struct{})
	it := c.proxy.ServiceIdentities(ctx)

	for it.HasNext() {
		batch, err := it.GetNext(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch service identities: %w", err)
		}

		for _, si := range batch {
			if si == nil {
				continue
			}

			seen[si.ID] = struct{}{}

			if err := c.withLock(ctx, func() error { return c.handleNewServiceIdentity(ctx, si) }); err != nil {
				c.log.Warn().Err(err).Str("id", si.ID).Msg("Failed to apply service identity")
			}
		}
	}

	for _, id := range c.tree.AllIDs() {
		if _, ok := seen[id]; ok {
			continue
		}

		if err := c.withLock(ctx, func() error { return c.handleNoServiceIdentity(ctx, id) }); err != nil {
			c.log.Warn().Err(err).Str("id", id).Msg("Failed to remove stale service identity")
		}
	}

	c.log.Debug().Int("count", len(seen)).Msg("Device scope identities cache refreshed")

	return nil
}

// RefreshServiceIdentity fetches id from the directory and merges the result.
func (c *Cache) RefreshServiceIdentity(ctx context.Context, id string) error {
	c.markRefreshed(id)

	si, found, err := c.proxy.GetServiceIdentity(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to refresh service identity %s: %w", id, err)
	}

	return c.withLock(ctx, func() error {
		if !found {
			return c.handleNoServiceIdentity(ctx, id)
		}

		return c.handleNewServiceIdentity(ctx, si)
	})
}

// RefreshServiceIdentities refreshes each id, collecting per-id failures.
func (c *Cache) RefreshServiceIdentities(ctx context.Context, ids []string) error {
	var errs []error

	for _, id := range ids {
		if err := c.RefreshServiceIdentity(ctx, id); err != nil {
			c.log.Warn().Err(err).Str("id", id).Msg("Failed to refresh service identity")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// TryRefreshServiceIdentity refreshes id unless it was refreshed less than
// RefreshDelay ago. It reports whether a refresh happened.
func (c *Cache) TryRefreshServiceIdentity(ctx context.Context, id string) (bool, error) {
	c.refreshMu.Lock()
	last, ok := c.lastRefresh[id]
	c.refreshMu.Unlock()

	if ok && c.clock.Since(last) < time.Duration(c.cfg.RefreshDelay) {
		return false, nil
	}

	return true, c.RefreshServiceIdentity(ctx, id)
}

func (c *Cache) markRefreshed(id string) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.lastRefresh[id] = c.clock.Now()
}

func (c *Cache) withLock(ctx context.Context, fn func() error) error {
	if err := c.mu.Lock(ctx); err != nil {
		return err
	}
	defer c.mu.Unlock()

	return fn()
}

// handleNewServiceIdentity must run under c.mu.
func (c *Cache) handleNewServiceIdentity(ctx context.Context, si *identity.ServiceIdentity) error {
	existing, hadExisting := c.tree.Get(si.ID)

	c.tree.InsertOrUpdate(si)

	if err := c.store.Put(ctx, si.ID, storedIdentity{Identity: si, Timestamp: c.clock.Now().UTC()}); err != nil {
		return fmt.Errorf("failed to persist service identity %s: %w", si.ID, err)
	}

	if hadExisting && !existing.Equal(si) {
		c.log.Info().Str("id", si.ID).Msg("Service identity updated")
		c.updated.Publish(si.Clone())
	}

	return nil
}

// handleNoServiceIdentity must run under c.mu.
func (c *Cache) handleNoServiceIdentity(ctx context.Context, id string) error {
	removed := c.tree.Remove(id)

	var errs []error

	for _, si := range removed {
		if err := c.store.Put(ctx, si.ID, storedIdentity{Timestamp: c.clock.Now().UTC()}); err != nil {
			errs = append(errs, fmt.Errorf("failed to persist tombstone for %s: %w", si.ID, err))
		}

		if si.IsEnabled() {
			c.log.Info().Str("id", si.ID).Msg("Service identity removed")
			c.removed.Publish(si.ID)
		}
	}

	return errors.Join(errs...)
}
