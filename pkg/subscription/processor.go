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

// Package subscription applies client subscriptions to the client's cloud
// connection.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

const replayTimeout = time.Minute

// ConnectionManager is the part of connection.Manager the processor uses.
type ConnectionManager interface {
	AddSubscription(id string, s models.DeviceSubscription) error
	RemoveSubscription(id string, s models.DeviceSubscription) error
	GetSubscriptions(id string) (map[models.DeviceSubscription]bool, bool)
	GetCloudConnection(id string) (cloud.Proxy, bool)
	OnCloudConnectionEstablished(fn func(identity.Identity)) (unsubscribe func())
}

// MethodReleaser delivers direct method calls parked until the client
// subscribed to methods.
type MethodReleaser interface {
	ProcessInvokeMethodSubscription(id string)
}

// Processor records subscription changes and mirrors them upstream. Changes
// made while the client has no cloud connection are applied once it connects.
type Processor struct {
	manager ConnectionManager
	methods MethodReleaser
	log     logger.Logger

	mu      sync.Mutex
	pending map[string]struct{}

	unsubscribe func()
	wg          sync.WaitGroup
	cancel      context.CancelFunc
}

func NewProcessor(manager ConnectionManager, methods MethodReleaser, log logger.Logger) *Processor {
	return &Processor{
		manager: manager,
		methods: methods,
		log:     log,
		pending: make(map[string]struct{}),
	}
}

func (*Processor) Name() string { return "subscription-processor" }

func (p *Processor) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.unsubscribe = p.manager.OnCloudConnectionEstablished(func(id identity.Identity) {
		if ctx.Err() != nil {
			return
		}

		p.wg.Add(1)

		go func() {
			defer p.wg.Done()

			rctx, cancel := context.WithTimeout(ctx, replayTimeout)
			defer cancel()

			if err := p.ProcessSubscriptions(rctx, id.ID); err != nil {
				p.log.Warn().Err(err).Str("id", id.ID).Msg("Failed to replay subscriptions")
			}
		}()
	})

	return nil
}

func (p *Processor) Stop(_ context.Context) error {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}

	if p.cancel != nil {
		p.cancel()
	}

	p.wg.Wait()

	return nil
}

func (p *Processor) AddSubscription(ctx context.Context, id string, s models.DeviceSubscription) error {
	if err := p.manager.AddSubscription(id, s); err != nil {
		return err
	}

	return p.apply(ctx, id, s, true)
}

func (p *Processor) RemoveSubscription(ctx context.Context, id string, s models.DeviceSubscription) error {
	if err := p.manager.RemoveSubscription(id, s); err != nil {
		return err
	}

	return p.apply(ctx, id, s, false)
}

// ProcessSubscriptions applies every recorded subscription of id.
func (p *Processor) ProcessSubscriptions(ctx context.Context, id string) error {
	subs, ok := p.manager.GetSubscriptions(id)
	if !ok {
		return nil
	}

	p.mu.Lock()
	delete(p.pending, id)
	p.mu.Unlock()

	keys := make([]models.DeviceSubscription, 0, len(subs))
	for s := range subs {
		keys = append(keys, s)
	}

	slices.Sort(keys)

	var errs []error

	for _, s := range keys {
		if err := p.apply(ctx, id, s, subs[s]); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// HasPending reports whether id has changes waiting for a cloud connection.
func (p *Processor) HasPending(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.pending[id]

	return ok
}

func (p *Processor) markPending(id string) {
	p.mu.Lock()
	p.pending[id] = struct{}{}
	p.mu.Unlock()
}

func (p *Processor) apply(ctx context.Context, id string, s models.DeviceSubscription, enabled bool) error {
	if s == models.SubscriptionMethods && enabled && p.methods != nil {
		p.methods.ProcessInvokeMethodSubscription(id)
	}

	if !needsCloud(s, enabled) {
		return nil
	}

	proxy, ok := p.manager.GetCloudConnection(id)
	if !ok {
		p.log.Debug().Str("id", id).Str("subscription", s.String()).Msg("No cloud connection, subscription change pending")
		p.markPending(id)

		return nil
	}

	if err := applyToCloud(ctx, proxy, s, enabled); err != nil {
		p.markPending(id)

		return fmt.Errorf("failed to apply %s subscription for %s: %w", s, id, err)
	}

	return nil
}

func needsCloud(s models.DeviceSubscription, enabled bool) bool {
	switch s {
	case models.SubscriptionDesiredPropertyUpdates, models.SubscriptionMethods:
		return true
	case models.SubscriptionC2D:
		return enabled
	default:
		return false
	}
}

func applyToCloud(ctx context.Context, proxy cloud.Proxy, s models.DeviceSubscription, enabled bool) error {
	switch {
	case s == models.SubscriptionDesiredPropertyUpdates && enabled:
		return proxy.SetupDesiredPropertyUpdates(ctx)
	case s == models.SubscriptionDesiredPropertyUpdates:
		return proxy.RemoveDesiredPropertyUpdates(ctx)
	case s == models.SubscriptionMethods && enabled:
		return proxy.SetupCallMethod(ctx)
	case s == models.SubscriptionMethods:
		return proxy.RemoveCallMethod(ctx)
	case s == models.SubscriptionC2D:
		return proxy.StartListening(ctx)
	default:
		return nil
	}
}
