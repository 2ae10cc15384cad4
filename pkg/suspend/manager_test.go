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

package suspend

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/natsutil"
)

func TestSuspendWaitsForLease(t *testing.T) {
	m := NewManager(time.Minute, clock.NewMock(), logger.NewTestLogger())

	lease, err := m.BeginUpdateCycle(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)

	go func() {
		done <- m.SuspendUpdates(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("suspend completed while a cycle was running")
	case <-time.After(50 * time.Millisecond):
	}

	assert.False(t, m.IsSuspended())

	lease.Release()
	lease.Release()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("suspend did not complete after the lease was released")
	}

	assert.True(t, m.IsSuspended())
}

func TestSuspendHonorsContext(t *testing.T) {
	m := NewManager(time.Minute, clock.NewMock(), logger.NewTestLogger())

	lease, err := m.BeginUpdateCycle(context.Background())
	require.NoError(t, err)

	defer lease.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, m.SuspendUpdates(ctx), context.DeadlineExceeded)
	assert.False(t, m.IsSuspended())
}

func TestSuspensionExpires(t *testing.T) {
	clk := clock.NewMock()
	m := NewManager(time.Minute, clk, logger.NewTestLogger())

	require.NoError(t, m.SuspendUpdates(context.Background()))
	assert.True(t, m.IsSuspended())

	clk.Add(59 * time.Second)
	assert.True(t, m.IsSuspended())

	clk.Add(time.Second)
	assert.False(t, m.IsSuspended())

	// expiry cleared the flag; going back in time does not revive it
	clk.Set(clk.Now().Add(-time.Minute))
	assert.False(t, m.IsSuspended())
}

func TestResume(t *testing.T) {
	m := NewManager(0, clock.NewMock(), logger.NewTestLogger())

	require.NoError(t, m.SuspendUpdates(context.Background()))
	require.NoError(t, m.ResumeUpdates(context.Background()))
	assert.False(t, m.IsSuspended())
	assert.Equal(t, DefaultTimeout, m.timeout)
}

func TestServe(t *testing.T) {
	srv, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1})
	require.NoError(t, err)

	go srv.Start()

	require.True(t, srv.ReadyForConnections(10*time.Second))
	t.Cleanup(srv.Shutdown)

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	m := NewManager(time.Minute, clock.NewMock(), logger.NewTestLogger())

	subs, err := Serve(nc, "edgecore.agent", m)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	require.NoError(t, nc.Flush())

	r := natsutil.NewRequester(nc, time.Second, logger.NewTestLogger())
	ctx := context.Background()

	state, err := natsutil.Request[ControlState](ctx, r, "edgecore.agent.suspend", nil)
	require.NoError(t, err)
	assert.True(t, state.Suspended)
	assert.True(t, m.IsSuspended())

	state, err = natsutil.Request[ControlState](ctx, r, "edgecore.agent.status", nil)
	require.NoError(t, err)
	assert.True(t, state.Suspended)

	state, err = natsutil.Request[ControlState](ctx, r, "edgecore.agent.resume", nil)
	require.NoError(t, err)
	assert.False(t, state.Suspended)
}
