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

// Package connection tracks the device and cloud connection of every client
// identity and keeps them authenticated.
package connection

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/events"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/syncutil"
)

// cloudHolder identifies one upstream session. Status callbacks carry the
// holder they were registered with so that late callbacks from a replaced
// session are ignored.
type cloudHolder struct {
	conn cloud.Connection

	// Statuses reported before the holder is installed are queued and
	// replayed in order once it is.
	mu        sync.Mutex
	installed bool
	pending   []cloud.ConnectionStatus
}

// hold queues status unless the holder is installed.
func (h *cloudHolder) hold(status cloud.ConnectionStatus) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.installed {
		return false
	}

	h.pending = append(h.pending, status)

	return true
}

// next pops the oldest queued status, marking the holder installed once
// the queue is drained.
func (h *cloudHolder) next() (cloud.ConnectionStatus, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.pending) == 0 {
		h.installed = true

		return 0, false
	}

	status := h.pending[0]
	h.pending = h.pending[1:]

	return status, true
}

type connectedDevice struct {
	identity identity.Identity
	cloudMu  *syncutil.Mutex

	mu            sync.Mutex
	device        DeviceProxy
	cloud         *cloudHolder
	subscriptions map[models.DeviceSubscription]bool
}

func newConnectedDevice(id identity.Identity) *connectedDevice {
	return &connectedDevice{
		identity:      id,
		cloudMu:       syncutil.NewMutex(),
		subscriptions: make(map[models.DeviceSubscription]bool),
	}
}

func (d *connectedDevice) activeDevice() (DeviceProxy, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device == nil || !d.device.IsActive() {
		return nil, false
	}

	return d.device, true
}

func (d *connectedDevice) activeCloud() (cloud.Proxy, bool) {
	d.mu.Lock()
	holder := d.cloud
	d.mu.Unlock()

	if holder == nil || !holder.conn.IsActive() {
		return nil, false
	}

	return holder.conn.Proxy()
}

// Manager is the single authority mapping identities to their device and
// cloud connections.
type Manager struct {
	cfg         Config
	provider    cloud.ConnectionProvider
	credentials CredentialsCache
	log         logger.Logger

	mu      sync.RWMutex
	devices map[string]*connectedDevice

	creating syncutil.Coalescer[cloud.Proxy]

	deviceConnected    events.Broadcaster[identity.Identity]
	deviceDisconnected events.Broadcaster[identity.Identity]
	cloudEstablished   events.Broadcaster[identity.Identity]
	cloudLost          events.Broadcaster[identity.Identity]
}

func NewManager(cfg Config, provider cloud.ConnectionProvider, credentials CredentialsCache, log logger.Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Manager{
		cfg:         cfg,
		provider:    provider,
		credentials: credentials,
		log:         log,
		devices:     make(map[string]*connectedDevice),
	}, nil
}

func (m *Manager) OnDeviceConnected(fn func(identity.Identity)) (unsubscribe func()) {
	return m.deviceConnected.Subscribe(fn)
}

func (m *Manager) OnDeviceDisconnected(fn func(identity.Identity)) (unsubscribe func()) {
	return m.deviceDisconnected.Subscribe(fn)
}

func (m *Manager) OnCloudConnectionEstablished(fn func(identity.Identity)) (unsubscribe func()) {
	return m.cloudEstablished.Subscribe(fn)
}

func (m *Manager) OnCloudConnectionLost(fn func(identity.Identity)) (unsubscribe func()) {
	return m.cloudLost.Subscribe(fn)
}

func (m *Manager) lookup(id string) (*connectedDevice, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.devices[id]

	return d, ok
}

func (m *Manager) getOrAdd(id identity.Identity) *connectedDevice {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.devices[id.ID]
	if !ok {
		d = newConnectedDevice(id)
		m.devices[id.ID] = d
	}

	return d
}

// AddDeviceConnection makes proxy the current device connection of id.
// A previous connection is closed in the background.
func (m *Manager) AddDeviceConnection(ctx context.Context, id identity.Identity, proxy DeviceProxy) error {
	m.mu.Lock()

	d, ok := m.devices[id.ID]
	if !ok || !isActive(d) {
		if active := m.activeCountLocked(id.ID); active >= m.cfg.MaxClients {
			m.mu.Unlock()

			return fmt.Errorf("%w: %d clients connected, cannot add %s", ErrMaxClientsExceeded, active, id.ID)
		}
	}

	if !ok {
		d = newConnectedDevice(id)
		m.devices[id.ID] = d
	}

	// The proxy is installed before m.mu is released so that a concurrent
	// capacity check already counts it.
	d.mu.Lock()
	previous := d.device
	d.device = proxy
	d.mu.Unlock()

	m.mu.Unlock()

	if previous != nil && previous != proxy && previous.IsActive() {
		go m.closeDevice(context.WithoutCancel(ctx), id.ID, previous, ErrMultipleConnections)
	}

	m.log.Info().Str("id", id.ID).Msg("Device connection added")
	m.deviceConnected.Publish(id)

	return nil
}

func isActive(d *connectedDevice) bool {
	_, ok := d.activeDevice()

	return ok
}

// activeCountLocked counts active device connections other than exclude.
func (m *Manager) activeCountLocked(exclude string) int {
	count := 0

	for id, d := range m.devices {
		if id != exclude && isActive(d) {
			count++
		}
	}

	return count
}

func (m *Manager) closeDevice(ctx context.Context, id string, proxy DeviceProxy, reason error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(m.cfg.OperationTimeout))
	defer cancel()

	if err := proxy.Close(ctx, reason); err != nil {
		m.log.Warn().Err(err).Str("id", id).Msg("Error closing device connection")
	}
}

// RemoveDeviceConnection closes the active device connection of id, if any.
func (m *Manager) RemoveDeviceConnection(ctx context.Context, id string) error {
	d, ok := m.lookup(id)
	if !ok {
		return nil
	}

	d.mu.Lock()
	proxy := d.device
	d.device = nil
	d.mu.Unlock()

	if proxy == nil {
		return nil
	}

	if proxy.IsActive() {
		m.closeDevice(ctx, id, proxy, ErrConnectionClosed)
	}

	m.log.Info().Str("id", id).Msg("Device connection removed")
	m.deviceDisconnected.Publish(d.identity)

	if m.cfg.CloseCloudConnectionOnDeviceDisconnect {
		m.dropCloud(ctx, d, nil)
	}

	return nil
}

// GetDeviceConnection returns the device connection of id while it is active.
func (m *Manager) GetDeviceConnection(id string) (DeviceProxy, bool) {
	d, ok := m.lookup(id)
	if !ok {
		return nil, false
	}

	return d.activeDevice()
}

// GetConnectedClients returns the identities with an active device connection, sorted by id.
func (m *Manager) GetConnectedClients() []identity.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients := make([]identity.Identity, 0, len(m.devices))

	for _, d := range m.devices {
		if isActive(d) {
			clients = append(clients, d.identity)
		}
	}

	slices.SortFunc(clients, func(a, b identity.Identity) int { return strings.Compare(a.ID, b.ID) })

	return clients
}
