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

package twin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/connection"
	"github.com/carverauto/edgecore/pkg/events"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

type fakeConnections struct {
	mu          sync.Mutex
	cloud       cloud.Proxy
	device      connection.DeviceProxy
	established events.Broadcaster[identity.Identity]
}

func (f *fakeConnections) GetCloudConnection(string) (cloud.Proxy, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cloud, f.cloud != nil
}

func (f *fakeConnections) GetDeviceConnection(string) (connection.DeviceProxy, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.device, f.device != nil
}

func (f *fakeConnections) OnCloudConnectionEstablished(fn func(identity.Identity)) func() {
	return f.established.Subscribe(fn)
}

func (f *fakeConnections) setCloud(p cloud.Proxy) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cloud = p
}

type twinFixture struct {
	conns  *fakeConnections
	cloud  *cloud.MockProxy
	device *connection.MockDeviceProxy
	mgr    *Manager
}

func newTwinFixture(t *testing.T, online bool) *twinFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &twinFixture{
		conns:  &fakeConnections{},
		cloud:  cloud.NewMockProxy(ctrl),
		device: connection.NewMockDeviceProxy(ctrl),
	}

	f.conns.device = f.device
	if online {
		f.conns.cloud = f.cloud
	}

	f.mgr = NewManager(f.conns, kv.NewMemoryStore(), logger.NewTestLogger())

	return f
}

func cloudTwin(desiredVersion int64, desired, reported models.TwinCollection) *models.Twin {
	return &models.Twin{Desired: desired.WithVersion(desiredVersion), Reported: reported}
}

func TestGetTwinCachesCloudCopy(t *testing.T) {
	f := newTwinFixture(t, true)
	ctx := context.Background()

	f.cloud.EXPECT().GetTwin(gomock.Any()).Return(cloudTwin(2, models.TwinCollection{"fan": "on"}, models.TwinCollection{"temp": 20}), nil)

	twin, err := f.mgr.GetTwin(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "on", twin.Desired["fan"])

	// Cloud failures fall back to the cached twin.
	f.cloud.EXPECT().GetTwin(gomock.Any()).Return(nil, errors.New("timeout"))

	cached, err := f.mgr.GetTwin(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.Desired.Version())
	assert.Equal(t, "on", cached.Desired["fan"])

	f.conns.setCloud(nil)

	_, err = f.mgr.GetTwin(ctx, "unknown")
	require.ErrorIs(t, err, ErrTwinUnavailable)
}

func TestGetTwinAppliesPendingReportedPatch(t *testing.T) {
	f := newTwinFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.mgr.UpdateReportedProperties(ctx, "d1", models.TwinCollection{"temp": 25}))

	f.conns.setCloud(f.cloud)

	f.cloud.EXPECT().GetTwin(gomock.Any()).Return(
		cloudTwin(1, models.TwinCollection{}, models.TwinCollection{"temp": 20, "fw": "1.0"}), nil)

	twin, err := f.mgr.GetTwin(ctx, "d1")
	require.NoError(t, err)
	assert.InDelta(t, 25, twin.Reported["temp"], 0)
	assert.Equal(t, "1.0", twin.Reported["fw"])
}

func seedDesired(t *testing.T, f *twinFixture, version int64, desired models.TwinCollection) {
	t.Helper()

	f.conns.setCloud(f.cloud)
	f.cloud.EXPECT().GetTwin(gomock.Any()).Return(cloudTwin(version, desired, models.TwinCollection{}), nil)

	_, err := f.mgr.GetTwin(context.Background(), "d1")
	require.NoError(t, err)
}

func TestUpdateDesiredPropertiesVersions(t *testing.T) {
	f := newTwinFixture(t, false)
	ctx := context.Background()

	seedDesired(t, f, 3, models.TwinCollection{"fan": "on", "speed": 1})

	// Stale and duplicate versions are dropped without reaching the device.
	require.NoError(t, f.mgr.UpdateDesiredProperties(ctx, "d1", models.TwinCollection{"fan": "off"}.WithVersion(2)))
	require.NoError(t, f.mgr.UpdateDesiredProperties(ctx, "d1", models.TwinCollection{"fan": "off"}.WithVersion(3)))

	next := models.TwinCollection{"speed": 2}.WithVersion(4)
	f.device.EXPECT().OnDesiredPropertyUpdates(gomock.Any(), next).Return(nil)

	require.NoError(t, f.mgr.UpdateDesiredProperties(ctx, "d1", next))

	// A gap triggers a sync and the device receives the difference.
	f.cloud.EXPECT().GetTwin(gomock.Any()).Return(
		cloudTwin(7, models.TwinCollection{"fan": "off", "speed": 2}, models.TwinCollection{}), nil)

	var forwarded models.TwinCollection

	f.device.EXPECT().OnDesiredPropertyUpdates(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, patch models.TwinCollection) error {
			forwarded = patch

			return nil
		})

	require.NoError(t, f.mgr.UpdateDesiredProperties(ctx, "d1", models.TwinCollection{"fan": "off"}.WithVersion(7)))

	assert.Equal(t, int64(7), forwarded.Version())
	assert.Equal(t, "off", forwarded["fan"])
	assert.NotContains(t, forwarded, "speed")

	f.conns.setCloud(nil)

	twin, err := f.mgr.GetTwin(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), twin.Desired.Version())
}

func TestUpdateDesiredPropertiesWithoutCacheForwardsPatch(t *testing.T) {
	f := newTwinFixture(t, false)

	patch := models.TwinCollection{"fan": "on"}.WithVersion(9)
	f.device.EXPECT().OnDesiredPropertyUpdates(gomock.Any(), patch).Return(nil)

	require.NoError(t, f.mgr.UpdateDesiredProperties(context.Background(), "d1", patch))
}

func TestUpdateReportedPropertiesOfflineThenReconnect(t *testing.T) {
	f := newTwinFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.mgr.UpdateReportedProperties(ctx, "d1", models.TwinCollection{"temp": 20, "mode": "eco"}))
	require.NoError(t, f.mgr.UpdateReportedProperties(ctx, "d1", models.TwinCollection{"temp": 21, "mode": nil}))

	pending, err := f.mgr.PendingReported(ctx, "d1")
	require.NoError(t, err)
	assert.InDelta(t, 21, pending["temp"], 0)
	assert.Contains(t, pending, "mode")
	assert.Nil(t, pending["mode"])

	twin, err := f.mgr.GetTwin(ctx, "d1")
	require.NoError(t, err)
	assert.NotContains(t, twin.Reported, "mode")

	f.conns.setCloud(f.cloud)

	var pushed models.TwinCollection

	gomock.InOrder(
		f.cloud.EXPECT().UpdateReportedProperties(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, patch models.TwinCollection) error {
				pushed = patch

				return nil
			}),
		f.cloud.EXPECT().GetTwin(gomock.Any()).Return(
			cloudTwin(5, models.TwinCollection{"fan": "on"}, models.TwinCollection{"temp": 21}), nil),
	)

	f.device.EXPECT().OnDesiredPropertyUpdates(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, patch models.TwinCollection) error {
			assert.Equal(t, "on", patch["fan"])
			assert.Equal(t, int64(5), patch.Version())

			return nil
		})

	require.NoError(t, f.mgr.Start(ctx))
	t.Cleanup(func() { _ = f.mgr.Stop(ctx) })

	f.conns.established.Publish(identity.NewDeviceIdentity("hub", "d1"))

	require.Eventually(t, func() bool {
		p, err := f.mgr.PendingReported(ctx, "d1")

		return err == nil && len(p) == 0
	}, time.Second, 5*time.Millisecond)

	assert.InDelta(t, 21, pushed["temp"], 0)
	require.NoError(t, f.mgr.Stop(ctx))
}

func TestUpdateReportedPropertiesKeepsPatchOnCloudFailure(t *testing.T) {
	f := newTwinFixture(t, true)
	ctx := context.Background()

	f.cloud.EXPECT().UpdateReportedProperties(gomock.Any(), gomock.Any()).Return(errors.New("throttled"))
	require.NoError(t, f.mgr.UpdateReportedProperties(ctx, "d1", models.TwinCollection{"temp": 20}))

	pending, err := f.mgr.PendingReported(ctx, "d1")
	require.NoError(t, err)
	assert.InDelta(t, 20, pending["temp"], 0)

	f.cloud.EXPECT().UpdateReportedProperties(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, patch models.TwinCollection) error {
			assert.InDelta(t, 22, patch["temp"], 0)
			assert.InDelta(t, 50, patch["humidity"], 0)

			return nil
		})
	require.NoError(t, f.mgr.UpdateReportedProperties(ctx, "d1", models.TwinCollection{"temp": 22, "humidity": 50}))

	pending, err = f.mgr.PendingReported(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUpdateReportedPropertiesRejectsInvalidPatch(t *testing.T) {
	f := newTwinFixture(t, true)
	ctx := context.Background()

	err := f.mgr.UpdateReportedProperties(ctx, "d1", models.TwinCollection{"bad.name": 1})
	require.ErrorIs(t, err, ErrInvalidProperties)

	f.conns.setCloud(nil)

	_, err = f.mgr.GetTwin(ctx, "d1")
	require.ErrorIs(t, err, ErrTwinUnavailable)
}
