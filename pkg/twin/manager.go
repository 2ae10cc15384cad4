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

// Package twin keeps a local copy of every client's twin so that twin
// reads and reported property updates keep working while the cloud is
// unreachable.
package twin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/connection"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/syncutil"
)

const syncTimeout = time.Minute

// Info is the stored state of one twin.
type Info struct {
	Twin *models.Twin `json:"twin"`
	// ReportedPatch holds reported changes not yet accepted by the cloud.
	ReportedPatch models.TwinCollection `json:"reported_patch,omitempty"`
}

// Connections is the part of connection.Manager the twin manager uses.
type Connections interface {
	GetCloudConnection(id string) (cloud.Proxy, bool)
	GetDeviceConnection(id string) (connection.DeviceProxy, bool)
	OnCloudConnectionEstablished(fn func(identity.Identity)) (unsubscribe func())
}

// Manager reconciles cached twins against the cloud.
type Manager struct {
	connections Connections
	store       *kv.EntityStore[Info]
	log         logger.Logger

	reportedMu *syncutil.Mutex
	desiredMu  *syncutil.Mutex
	// recordMu guards read-modify-write cycles of a stored Info.
	recordMu sync.Mutex

	unsubscribe func()
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewManager(connections Connections, store kv.Store, log logger.Logger) *Manager {
	return &Manager{
		connections: connections,
		store:       kv.NewEntityStore[Info](store),
		log:         log,
		reportedMu:  syncutil.NewMutex(),
		desiredMu:   syncutil.NewMutex(),
	}
}

func (*Manager) Name() string { return "twin-manager" }

func (m *Manager) Start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)

	m.unsubscribe = m.connections.OnCloudConnectionEstablished(func(id identity.Identity) {
		if ctx.Err() != nil {
			return
		}

		m.wg.Add(1)

		go func() {
			defer m.wg.Done()

			sctx, cancel := context.WithTimeout(ctx, syncTimeout)
			defer cancel()

			if err := m.ConnectionEstablished(sctx, id.ID); err != nil {
				m.log.Warn().Err(err).Str("id", id.ID).Msg("Twin sync after reconnect failed")
			}
		}()
	})

	return nil
}

func (m *Manager) Stop(_ context.Context) error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}

	if m.cancel != nil {
		m.cancel()
	}

	m.wg.Wait()

	return nil
}

func withLock(ctx context.Context, mu *syncutil.Mutex, fn func() error) error {
	if err := mu.Lock(ctx); err != nil {
		return err
	}
	defer mu.Unlock()

	return fn()
}

func (m *Manager) update(ctx context.Context, id string, fn func(info *Info) error) error {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	_, err := m.store.Update(ctx, id, func(info Info, _ bool) (Info, error) {
		if info.Twin == nil {
			info.Twin = &models.Twin{Desired: models.TwinCollection{}, Reported: models.TwinCollection{}}
		}

		return info, fn(&info)
	})

	return err
}

func (m *Manager) cached(ctx context.Context, id string) (*models.Twin, bool, error) {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	info, found, err := m.store.Get(ctx, id)
	if err != nil || !found || info.Twin == nil {
		return nil, false, err
	}

	return info.Twin, true, nil
}

// GetTwin returns the cloud twin when reachable and the cached twin otherwise.
// Reported changes still pending upload are applied on top of the cloud copy.
func (m *Manager) GetTwin(ctx context.Context, id string) (*models.Twin, error) {
	if proxy, ok := m.connections.GetCloudConnection(id); ok {
		twin, err := proxy.GetTwin(ctx)
		if err == nil {
			return m.storeCloudTwin(ctx, id, twin)
		}

		m.log.Warn().Err(err).Str("id", id).Msg("Failed to get twin from cloud, using cached copy")
	}

	twin, found, err := m.cached(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached twin for %s: %w", id, err)
	}

	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTwinUnavailable, id)
	}

	return twin, nil
}

func (m *Manager) storeCloudTwin(ctx context.Context, id string, twin *models.Twin) (*models.Twin, error) {
	var out *models.Twin

	err := withLock(ctx, m.reportedMu, func() error {
		return m.update(ctx, id, func(info *Info) error {
			merged := twin.Clone()

			if len(info.ReportedPatch) > 0 {
				reported, err := mergePatch(merged.Reported, info.ReportedPatch)
				if err != nil {
					return err
				}

				merged.Reported = reported
			}

			info.Twin = merged
			out = merged.Clone()

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store twin for %s: %w", id, err)
	}

	return out, nil
}

// UpdateDesiredProperties applies a desired property patch from the cloud
// and forwards it to the connected client. Patches at or below the cached
// version are dropped. A gap in versions triggers a full sync, and the
// client receives the difference instead of the patch.
func (m *Manager) UpdateDesiredProperties(ctx context.Context, id string, patch models.TwinCollection) error {
	var forward models.TwinCollection

	err := withLock(ctx, m.desiredMu, func() error {
		twin, found, err := m.cached(ctx, id)
		if err != nil {
			return err
		}

		if !found {
			forward = patch

			return nil
		}

		cached, incoming := twin.Desired.Version(), patch.Version()

		switch {
		case incoming <= cached:
			m.log.Debug().Str("id", id).Int64("cached", cached).Int64("incoming", incoming).Msg("Dropping stale desired properties")

			return nil
		case incoming == cached+1:
			forward = patch

			return m.update(ctx, id, func(info *Info) error {
				desired, err := mergePatch(info.Twin.Desired, patch)
				info.Twin.Desired = desired

				return err
			})
		default:
			forward, err = m.resyncDesired(ctx, id, twin.Desired, patch)

			return err
		}
	})
	if err != nil {
		return fmt.Errorf("failed to update desired properties for %s: %w", id, err)
	}

	if len(forward) == 0 {
		return nil
	}

	return m.forwardDesired(ctx, id, forward)
}

// resyncDesired must run under desiredMu. It refreshes the desired
// properties from the cloud and returns the patch the client is missing.
// When the cloud is unreachable patch is applied as is.
func (m *Manager) resyncDesired(ctx context.Context, id string, previous, patch models.TwinCollection) (models.TwinCollection, error) {
	var latest models.TwinCollection

	if proxy, ok := m.connections.GetCloudConnection(id); ok {
		twin, err := proxy.GetTwin(ctx)
		if err == nil {
			latest = twin.Desired
		} else {
			m.log.Warn().Err(err).Str("id", id).Msg("Desired properties sync failed, applying patch as is")
		}
	}

	if latest == nil {
		err := m.update(ctx, id, func(info *Info) error {
			desired, err := mergePatch(info.Twin.Desired, patch)
			info.Twin.Desired = desired

			return err
		})

		return patch, err
	}

	changes, err := diff(previous, latest)
	if err != nil {
		return nil, err
	}

	err = m.update(ctx, id, func(info *Info) error {
		info.Twin.Desired = latest.Clone()

		return nil
	})
	if err != nil || len(changes) == 0 {
		return nil, err
	}

	return changes.WithVersion(latest.Version()), nil
}

func (m *Manager) forwardDesired(ctx context.Context, id string, patch models.TwinCollection) error {
	device, ok := m.connections.GetDeviceConnection(id)
	if !ok {
		return nil
	}

	if err := device.OnDesiredPropertyUpdates(ctx, patch); err != nil {
		return fmt.Errorf("failed to forward desired properties to %s: %w", id, err)
	}

	return nil
}

// UpdateReportedProperties validates patch, records it in the cached twin
// and pushes all pending reported changes upstream when online.
func (m *Manager) UpdateReportedProperties(ctx context.Context, id string, patch models.TwinCollection) error {
	if err := ValidateReportedProperties(patch); err != nil {
		return err
	}

	props := patch.WithoutVersion()

	err := withLock(ctx, m.reportedMu, func() error {
		return m.update(ctx, id, func(info *Info) error {
			reported, err := mergePatch(info.Twin.Reported, props)
			if err != nil {
				return err
			}

			pending, err := combinePatches(info.ReportedPatch, props)
			if err != nil {
				return err
			}

			info.Twin.Reported = reported
			info.ReportedPatch = pending

			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to record reported properties for %s: %w", id, err)
	}

	return m.pushReported(ctx, id)
}

// pushReported sends the pending reported patch and clears it on success.
// Failures keep the patch for the next attempt.
func (m *Manager) pushReported(ctx context.Context, id string) error {
	proxy, ok := m.connections.GetCloudConnection(id)
	if !ok {
		return nil
	}

	return withLock(ctx, m.reportedMu, func() error {
		m.recordMu.Lock()
		info, found, err := m.store.Get(ctx, id)
		m.recordMu.Unlock()

		if err != nil || !found || len(info.ReportedPatch) == 0 {
			return err
		}

		if err := proxy.UpdateReportedProperties(ctx, info.ReportedPatch); err != nil {
			m.log.Warn().Err(err).Str("id", id).Msg("Reported properties kept for later upload")

			return nil
		}

		return m.update(ctx, id, func(info *Info) error {
			info.ReportedPatch = nil

			return nil
		})
	})
}

// PendingReported returns the reported changes of id not yet accepted by the cloud.
func (m *Manager) PendingReported(ctx context.Context, id string) (models.TwinCollection, error) {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	info, _, err := m.store.Get(ctx, id)

	return info.ReportedPatch, err
}

// ConnectionEstablished uploads pending reported changes for id, then
// refreshes the desired properties and forwards what changed while offline.
func (m *Manager) ConnectionEstablished(ctx context.Context, id string) error {
	if err := m.pushReported(ctx, id); err != nil {
		return err
	}

	var forward models.TwinCollection

	err := withLock(ctx, m.desiredMu, func() error {
		twin, found, err := m.cached(ctx, id)
		if err != nil || !found {
			return err
		}

		forward, err = m.resyncDesired(ctx, id, twin.Desired, models.TwinCollection{})

		return err
	})
	if err != nil {
		return err
	}

	if len(forward) == 0 {
		return nil
	}

	return m.forwardDesired(ctx, id, forward)
}
