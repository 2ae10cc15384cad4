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

package connection

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/edgecore/pkg/auth"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
)

// IdentityEvents is the part of the device scope cache the reauthenticator
// listens to.
type IdentityEvents interface {
	OnServiceIdentityUpdated(fn func(*identity.ServiceIdentity)) (unsubscribe func())
	OnServiceIdentityRemoved(fn func(id string)) (unsubscribe func())
	InitiateCacheRefresh()
}

// Reauthenticator periodically re-validates every connected client and
// drops the ones that no longer authenticate.
type Reauthenticator struct {
	manager     *Manager
	auth        auth.Authenticator
	credentials CredentialsCache
	scope       IdentityEvents
	edgeHub     identity.Identity
	cfg         ReauthConfig
	clock       clock.Clock
	log         logger.Logger

	unsubscribe []func()
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewReauthenticator(
	manager *Manager,
	authenticator auth.Authenticator,
	credentials CredentialsCache,
	scope IdentityEvents,
	edgeHub identity.Identity,
	cfg ReauthConfig,
	clk clock.Clock,
	log logger.Logger,
) (*Reauthenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if clk == nil {
		clk = clock.New()
	}

	return &Reauthenticator{
		manager:     manager,
		auth:        authenticator,
		credentials: credentials,
		scope:       scope,
		edgeHub:     edgeHub,
		cfg:         cfg,
		clock:       clk,
		log:         log,
	}, nil
}

func (*Reauthenticator) Name() string { return "connection-reauthenticator" }

func (r *Reauthenticator) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)

	// Cache events fire while the cache holds its lock, so handlers only
	// schedule work.
	r.unsubscribe = append(r.unsubscribe,
		r.scope.OnServiceIdentityUpdated(func(si *identity.ServiceIdentity) {
			r.spawn(ctx, func(ctx context.Context) { r.onIdentityUpdated(ctx, si.ID) })
		}),
		r.scope.OnServiceIdentityRemoved(func(id string) {
			r.spawn(ctx, func(ctx context.Context) { r.drop(ctx, id, "service identity removed") })
		}),
		r.manager.OnCloudConnectionEstablished(func(id identity.Identity) {
			if id.ID == r.edgeHub.ID {
				r.log.Info().Msg("Edge hub is online, refreshing device scope cache")
				r.scope.InitiateCacheRefresh()
			}
		}),
	)

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		r.run(ctx)
	}()

	return nil
}

func (r *Reauthenticator) Stop(_ context.Context) error {
	for _, unsubscribe := range r.unsubscribe {
		unsubscribe()
	}

	if r.cancel != nil {
		r.cancel()
	}

	r.wg.Wait()

	return nil
}

func (r *Reauthenticator) spawn(ctx context.Context, fn func(context.Context)) {
	if ctx.Err() != nil {
		return
	}

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		fn(ctx)
	}()
}

func (r *Reauthenticator) run(ctx context.Context) {
	ticker := r.clock.Ticker(time.Duration(r.cfg.Period))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.ReauthenticateAll(ctx)
		}
	}
}

// ReauthenticateAll re-validates every connected client except the edge hub.
func (r *Reauthenticator) ReauthenticateAll(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for _, id := range r.manager.GetConnectedClients() {
		if id.ID == r.edgeHub.ID {
			continue
		}

		g.Go(func() error {
			r.reauthenticate(gctx, id)

			return nil
		})
	}

	_ = g.Wait()
}

func (r *Reauthenticator) onIdentityUpdated(ctx context.Context, id string) {
	proxy, ok := r.manager.GetDeviceConnection(id)
	if !ok || id == r.edgeHub.ID {
		return
	}

	r.reauthenticate(ctx, proxy.Identity())
}

func (r *Reauthenticator) reauthenticate(ctx context.Context, id identity.Identity) {
	creds, found, err := r.credentials.Get(ctx, id)
	if err != nil {
		r.log.Warn().Err(err).Str("id", id.ID).Msg("Failed to read cached credentials")
	}

	if !found {
		r.drop(ctx, id.ID, "no cached credentials")

		return
	}

	ok, err := r.auth.Reauthenticate(ctx, creds)
	if err != nil {
		r.log.Warn().Err(err).Str("id", id.ID).Msg("Reauthentication failed")
	}

	if !ok {
		r.drop(ctx, id.ID, "reauthentication failed")
	}
}

func (r *Reauthenticator) drop(ctx context.Context, id, reason string) {
	r.log.Info().Str("id", id).Str("reason", reason).Msg("Dropping client connection")

	if err := r.manager.RemoveDeviceConnection(ctx, id); err != nil {
		r.log.Warn().Err(err).Str("id", id).Msg("Failed to remove device connection")
	}
}
