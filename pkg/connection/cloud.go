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
	"fmt"
	"time"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/identity"
)

// CreateCloudConnection opens a new upstream session for creds, replacing
// any existing one. The returned proxy re-resolves the session on
// transient failures.
func (m *Manager) CreateCloudConnection(ctx context.Context, creds identity.Credentials) (cloud.Proxy, error) {
	d := m.getOrAdd(creds.GetIdentity())

	if err := d.cloudMu.Lock(ctx); err != nil {
		return nil, err
	}
	defer d.cloudMu.Unlock()

	if err := m.connectLocked(ctx, d, creds); err != nil {
		return nil, err
	}

	return m.retrying(d.identity), nil
}

// GetOrCreateCloudConnection returns the active upstream session for creds,
// opening one if needed. Concurrent callers for the same identity share a
// single attempt.
func (m *Manager) GetOrCreateCloudConnection(ctx context.Context, creds identity.Credentials) (cloud.Proxy, error) {
	id := creds.GetIdentity()
	d := m.getOrAdd(id)

	if _, ok := d.activeCloud(); ok {
		return m.retrying(id), nil
	}

	_, _, err := m.creating.Do(ctx, id.ID, func(ctx context.Context) (cloud.Proxy, error) {
		if err := d.cloudMu.Lock(ctx); err != nil {
			return nil, err
		}
		defer d.cloudMu.Unlock()

		if p, ok := d.activeCloud(); ok {
			return p, nil
		}

		if err := m.connectLocked(ctx, d, creds); err != nil {
			return nil, err
		}

		p, _ := d.activeCloud()

		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return m.retrying(id), nil
}

// GetCloudConnection returns the active upstream session of id.
func (m *Manager) GetCloudConnection(id string) (cloud.Proxy, bool) {
	d, ok := m.lookup(id)
	if !ok {
		return nil, false
	}

	if _, ok := d.activeCloud(); !ok {
		return nil, false
	}

	return m.retrying(d.identity), true
}

// connectLocked must run under d.cloudMu.
func (m *Manager) connectLocked(ctx context.Context, d *connectedDevice, creds identity.Credentials) error {
	holder := &cloudHolder{}

	conn, err := m.provider.Connect(ctx, creds, func(_ string, status cloud.ConnectionStatus) {
		if !holder.hold(status) {
			m.cloudStatusChanged(d, holder, status)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to connect %s to cloud: %w", d.identity.ID, err)
	}

	holder.conn = conn

	d.mu.Lock()
	previous := d.cloud
	d.cloud = holder
	d.mu.Unlock()

	if previous != nil {
		go m.closeCloud(context.WithoutCancel(ctx), d.identity.ID, previous)
	}

	m.log.Info().Str("id", d.identity.ID).Msg("Cloud connection created")

	for status, ok := holder.next(); ok; status, ok = holder.next() {
		m.cloudStatusChanged(d, holder, status)
	}

	return nil
}

func (m *Manager) retrying(id identity.Identity) cloud.Proxy {
	return cloud.NewRetryingProxy(func(ctx context.Context) (cloud.Proxy, bool) {
		return m.resolveCloud(ctx, id)
	}, m.cfg.Retry, m.log)
}

// resolveCloud returns the active proxy of id, reconnecting with cached
// credentials when the session is gone.
func (m *Manager) resolveCloud(ctx context.Context, id identity.Identity) (cloud.Proxy, bool) {
	d, ok := m.lookup(id.ID)
	if !ok {
		return nil, false
	}

	if p, ok := d.activeCloud(); ok {
		return p, true
	}

	creds, found, err := m.credentials.Get(ctx, id)
	if err != nil || !found {
		return nil, false
	}

	if _, err := m.GetOrCreateCloudConnection(ctx, creds); err != nil {
		m.log.Warn().Err(err).Str("id", id.ID).Msg("Failed to re-establish cloud connection")

		return nil, false
	}

	return d.activeCloud()
}

func (m *Manager) closeCloud(ctx context.Context, id string, holder *cloudHolder) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(m.cfg.OperationTimeout))
	defer cancel()

	if err := holder.conn.Close(ctx); err != nil {
		m.log.Warn().Err(err).Str("id", id).Msg("Error closing cloud connection")
	}
}

// dropCloud removes the upstream session of d. A non-nil holder only drops
// that specific session.
func (m *Manager) dropCloud(ctx context.Context, d *connectedDevice, holder *cloudHolder) bool {
	d.mu.Lock()
	current := d.cloud
	if current == nil || (holder != nil && current != holder) {
		d.mu.Unlock()

		return false
	}
	d.cloud = nil
	d.mu.Unlock()

	m.closeCloud(ctx, d.identity.ID, current)

	return true
}

func (m *Manager) isCurrent(d *connectedDevice, holder *cloudHolder) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.cloud == holder
}

func (m *Manager) cloudStatusChanged(d *connectedDevice, holder *cloudHolder, status cloud.ConnectionStatus) {
	id := d.identity.ID

	if !m.isCurrent(d, holder) {
		m.log.Debug().Str("id", id).Str("status", status.String()).Msg("Ignoring status of a replaced cloud connection")

		return
	}

	m.log.Info().Str("id", id).Str("status", status.String()).Msg("Cloud connection status changed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(m.cfg.OperationTimeout))
	defer cancel()

	switch status {
	case cloud.ConnectionEstablished:
		m.cloudEstablished.Publish(d.identity)
	case cloud.TokenNearExpiry:
		if err := m.refreshToken(ctx, d, holder); err != nil {
			m.log.Warn().Err(err).Str("id", id).Msg("Could not refresh token, dropping cloud connection")

			if m.dropCloud(ctx, d, holder) {
				m.cloudLost.Publish(d.identity)
			}
		}
	case cloud.Disconnected, cloud.DisconnectedTokenExpired:
		if m.dropCloud(ctx, d, holder) {
			m.cloudLost.Publish(d.identity)
		}
	}
}

func (m *Manager) refreshToken(ctx context.Context, d *connectedDevice, holder *cloudHolder) error {
	updater, ok := holder.conn.(cloud.TokenUpdater)
	if !ok {
		return fmt.Errorf("connection of %s cannot update its token", d.identity.ID)
	}

	creds, found, err := m.credentials.Get(ctx, d.identity)
	if err != nil {
		return err
	}

	if !found {
		return ErrNoCredentials
	}

	token, ok := creds.(*identity.TokenCredentials)
	if !ok || !token.IsUpdatable {
		return fmt.Errorf("credentials of %s are not updatable", d.identity.ID)
	}

	if _, err := updater.UpdateToken(ctx, token); err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}

	return nil
}
