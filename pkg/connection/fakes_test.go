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
	"sync/atomic"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/models"
)

const hub = "hub.example.net"

type fakeDevice struct {
	id     identity.Identity
	active atomic.Bool
	closed chan error
}

func newFakeDevice(id string) *fakeDevice {
	d := &fakeDevice{id: identity.NewDeviceIdentity(hub, id), closed: make(chan error, 1)}
	d.active.Store(true)

	return d
}

func (d *fakeDevice) IsActive() bool              { return d.active.Load() }
func (d *fakeDevice) Identity() identity.Identity { return d.id }

func (d *fakeDevice) Close(_ context.Context, reason error) error {
	if d.active.CompareAndSwap(true, false) {
		d.closed <- reason
	}

	return nil
}

func (*fakeDevice) SendMessage(context.Context, *models.Message) error { return nil }

func (*fakeDevice) OnDesiredPropertyUpdates(context.Context, models.TwinCollection) error {
	return nil
}

func (*fakeDevice) InvokeMethod(_ context.Context, req *models.DirectMethodRequest) (*models.DirectMethodResponse, error) {
	return &models.DirectMethodResponse{CorrelationID: req.CorrelationID, Status: 200}, nil
}

type fakeCloudProxy struct {
	cloud.Proxy
	sent atomic.Int32
}

func (p *fakeCloudProxy) SendMessage(context.Context, *models.Message) error {
	p.sent.Add(1)

	return nil
}

type fakeConn struct {
	proxy  *fakeCloudProxy
	active atomic.Bool
	closed atomic.Bool
}

func newFakeConn() *fakeConn {
	c := &fakeConn{proxy: &fakeCloudProxy{}}
	c.active.Store(true)

	return c
}

func (c *fakeConn) Proxy() (cloud.Proxy, bool) {
	if !c.active.Load() {
		return nil, false
	}

	return c.proxy, true
}

func (c *fakeConn) IsActive() bool { return c.active.Load() }

func (c *fakeConn) Close(context.Context) error {
	c.active.Store(false)
	c.closed.Store(true)

	return nil
}

type updatableConn struct {
	*fakeConn
	updates   atomic.Int32
	updateErr error
}

func (c *updatableConn) UpdateToken(context.Context, *identity.TokenCredentials) (cloud.Proxy, error) {
	c.updates.Add(1)

	return c.proxy, c.updateErr
}

type fakeProvider struct {
	mu        sync.Mutex
	connects  int
	conns     []cloud.Connection
	callbacks []cloud.StatusCallback
	updatable bool
	updateErr error
	// gate, when set, blocks Connect until closed.
	gate chan struct{}
	// early is reported through the status callback before Connect returns.
	early []cloud.ConnectionStatus
}

func (p *fakeProvider) Connect(_ context.Context, _ identity.Credentials, onStatus cloud.StatusCallback) (cloud.Connection, error) {
	if p.gate != nil {
		<-p.gate
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.connects++

	var conn cloud.Connection = newFakeConn()
	if p.updatable {
		conn = &updatableConn{fakeConn: conn.(*fakeConn), updateErr: p.updateErr}
	}

	p.conns = append(p.conns, conn)
	p.callbacks = append(p.callbacks, onStatus)

	for _, status := range p.early {
		onStatus("", status)
	}

	return conn, nil
}

func (p *fakeProvider) connectCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.connects
}

func (p *fakeProvider) conn(i int) cloud.Connection {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conns[i]
}

func (p *fakeProvider) callback(i int) cloud.StatusCallback {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.callbacks[i]
}

type fakeCredentials struct {
	mu    sync.Mutex
	items map[string]identity.Credentials
}

func newFakeCredentials(creds ...identity.Credentials) *fakeCredentials {
	f := &fakeCredentials{items: make(map[string]identity.Credentials)}
	for _, c := range creds {
		f.items[c.GetIdentity().ID] = c
	}

	return f
}

func (f *fakeCredentials) Get(_ context.Context, id identity.Identity) (identity.Credentials, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.items[id.ID]

	return c, ok, nil
}

func tokenCreds(id string, updatable bool) *identity.TokenCredentials {
	return &identity.TokenCredentials{Identity: identity.NewDeviceIdentity(hub, id), Token: "sas-" + id, IsUpdatable: updatable}
}
