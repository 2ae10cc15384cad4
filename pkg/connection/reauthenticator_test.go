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
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/edgecore/pkg/auth"
	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/events"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

type fakeIdentityEvents struct {
	updated   events.Broadcaster[*identity.ServiceIdentity]
	removed   events.Broadcaster[string]
	refreshes atomic.Int32
}

func (f *fakeIdentityEvents) OnServiceIdentityUpdated(fn func(*identity.ServiceIdentity)) func() {
	return f.updated.Subscribe(fn)
}

func (f *fakeIdentityEvents) OnServiceIdentityRemoved(fn func(string)) func() {
	return f.removed.Subscribe(fn)
}

func (f *fakeIdentityEvents) InitiateCacheRefresh() { f.refreshes.Add(1) }

type reauthFixture struct {
	manager  *Manager
	auth     *auth.MockAuthenticator
	scope    *fakeIdentityEvents
	clock    *clock.Mock
	reauth   *Reauthenticator
	provider *fakeProvider
	devices  map[string]*fakeDevice
}

var edgeHubIdentity = identity.NewModuleIdentity(hub, "edge", "$edgeHub")

func newReauthFixture(t *testing.T, creds *fakeCredentials, clients ...string) *reauthFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &reauthFixture{
		auth:     auth.NewMockAuthenticator(ctrl),
		scope:    &fakeIdentityEvents{},
		clock:    clock.NewMock(),
		provider: &fakeProvider{},
		devices:  make(map[string]*fakeDevice),
	}

	f.manager = newTestManager(t, Config{}, f.provider, creds)

	for _, id := range clients {
		d := newFakeDevice(id)
		require.NoError(t, f.manager.AddDeviceConnection(context.Background(), d.id, d))
		f.devices[id] = d
	}

	hubDevice := &fakeDevice{id: edgeHubIdentity, closed: make(chan error, 1)}
	hubDevice.active.Store(true)
	require.NoError(t, f.manager.AddDeviceConnection(context.Background(), edgeHubIdentity, hubDevice))

	r, err := NewReauthenticator(f.manager, f.auth, creds, f.scope, edgeHubIdentity,
		ReauthConfig{Period: models.Duration(time.Minute), Concurrency: 2}, f.clock, logger.NewTestLogger())
	require.NoError(t, err)

	f.reauth = r

	return f
}

func (f *reauthFixture) connected(id string) bool {
	_, ok := f.manager.GetDeviceConnection(id)

	return ok
}

func TestReauthenticateAllDropsFailingClients(t *testing.T) {
	good, bad := tokenCreds("good", true), tokenCreds("bad", true)
	f := newReauthFixture(t, newFakeCredentials(good, bad), "good", "bad", "uncached")

	f.auth.EXPECT().Reauthenticate(gomock.Any(), good).Return(true, nil)
	f.auth.EXPECT().Reauthenticate(gomock.Any(), bad).Return(false, nil)

	f.reauth.ReauthenticateAll(context.Background())

	assert.True(t, f.connected("good"))
	assert.False(t, f.connected("bad"))
	assert.False(t, f.connected("uncached"))
	assert.True(t, f.connected(edgeHubIdentity.ID))
}

func TestReauthenticatorRunsOnEveryTick(t *testing.T) {
	creds := tokenCreds("d1", true)
	f := newReauthFixture(t, newFakeCredentials(creds), "d1")

	var calls atomic.Int32

	f.auth.EXPECT().Reauthenticate(gomock.Any(), creds).DoAndReturn(
		func(context.Context, identity.Credentials) (bool, error) {
			calls.Add(1)

			return true, nil
		}).AnyTimes()

	require.NoError(t, f.reauth.Start(context.Background()))
	t.Cleanup(func() { _ = f.reauth.Stop(context.Background()) })

	require.Eventually(t, func() bool {
		f.clock.Add(time.Minute)

		return calls.Load() >= 2
	}, time.Second, 10*time.Millisecond)

	assert.True(t, f.connected("d1"))
}

func TestReauthenticatorReactsToIdentityEvents(t *testing.T) {
	updated := tokenCreds("updated", true)
	f := newReauthFixture(t, newFakeCredentials(updated, tokenCreds("removed", true)), "updated", "removed")

	f.auth.EXPECT().Reauthenticate(gomock.Any(), updated).Return(false, nil)

	require.NoError(t, f.reauth.Start(context.Background()))
	t.Cleanup(func() { _ = f.reauth.Stop(context.Background()) })

	f.scope.removed.Publish("removed")
	f.scope.updated.Publish(&identity.ServiceIdentity{ID: "updated", DeviceID: "updated"})
	// Updates for identities without a connection are ignored.
	f.scope.updated.Publish(&identity.ServiceIdentity{ID: "offline", DeviceID: "offline"})

	require.Eventually(t, func() bool {
		return !f.connected("removed") && !f.connected("updated")
	}, time.Second, 5*time.Millisecond)
}

func TestReauthenticatorRefreshesScopeWhenEdgeHubComesOnline(t *testing.T) {
	f := newReauthFixture(t, newFakeCredentials())

	require.NoError(t, f.reauth.Start(context.Background()))

	_, err := f.manager.CreateCloudConnection(context.Background(), &identity.TokenCredentials{Identity: edgeHubIdentity})
	require.NoError(t, err)

	_, err = f.manager.CreateCloudConnection(context.Background(), tokenCreds("leaf", true))
	require.NoError(t, err)

	f.provider.callback(0)(edgeHubIdentity.ID, cloud.ConnectionEstablished)
	f.provider.callback(1)("leaf", cloud.ConnectionEstablished)

	assert.Equal(t, int32(1), f.scope.refreshes.Load())

	require.NoError(t, f.reauth.Stop(context.Background()))

	f.provider.callback(0)(edgeHubIdentity.ID, cloud.ConnectionEstablished)
	assert.Equal(t, int32(1), f.scope.refreshes.Load())
}
