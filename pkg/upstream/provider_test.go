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

package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/natsutil"
)

const prefix = "edgecore.upstream"

func startServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	srv, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1})
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	t.Cleanup(srv.Shutdown)

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	return srv, nc
}

func handle[Req, Resp any](t *testing.T, nc *nats.Conn, name string, fn func(Req) (Resp, error)) {
	t.Helper()

	sub, err := nc.Subscribe(prefix+"."+name, func(msg *nats.Msg) {
		var req Req
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			var zero Resp
			_ = natsutil.Respond(msg, zero, err)

			return
		}

		resp, err := fn(req)
		_ = natsutil.Respond(msg, resp, err)
	})
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	t.Cleanup(func() { _ = sub.Unsubscribe() })
}

type statusLog struct {
	mu       sync.Mutex
	statuses []cloud.ConnectionStatus
}

func (l *statusLog) record(_ string, s cloud.ConnectionStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.statuses = append(l.statuses, s)
}

func (l *statusLog) get() []cloud.ConnectionStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]cloud.ConnectionStatus(nil), l.statuses...)
}

func token(id string) *identity.TokenCredentials {
	return &identity.TokenCredentials{
		Identity:    identity.NewDeviceIdentity("hub.example.net", id),
		Token:       "SharedAccessSignature sr=" + id,
		IsUpdatable: true,
	}
}

func acceptConnect(t *testing.T, nc *nats.Conn) {
	t.Helper()

	handle(t, nc, subjectConnect, func(req ConnectRequest) (Session, error) {
		return Session{ID: "session-" + req.Identity.ID}, nil
	})
}

func TestConnectOpensSession(t *testing.T) {
	_, nc := startServer(t)

	connects := make(chan ConnectRequest, 1)

	handle(t, nc, subjectConnect, func(req ConnectRequest) (Session, error) {
		connects <- req

		return Session{ID: "s-1"}, nil
	})

	sent := make(chan SendRequest, 1)

	handle(t, nc, subjectSend, func(req SendRequest) (struct{}, error) {
		sent <- req

		return struct{}{}, nil
	})

	p := NewProvider(nc, prefix, time.Second, logger.NewTestLogger())
	statuses := &statusLog{}

	conn, err := p.Connect(context.Background(), token("leaf"), statuses.record)
	require.NoError(t, err)

	got := <-connects
	assert.Equal(t, "leaf", got.Identity.ID)
	assert.Equal(t, "Token", got.Kind)
	assert.Equal(t, "SharedAccessSignature sr=leaf", got.Token)
	assert.Equal(t, []cloud.ConnectionStatus{cloud.ConnectionEstablished}, statuses.get())

	proxy, ok := conn.Proxy()
	require.True(t, ok)

	require.NoError(t, proxy.SendMessage(context.Background(), &models.Message{Body: []byte("21.5")}))

	req := <-sent
	assert.Equal(t, "s-1", req.ID)
	assert.Equal(t, []byte("21.5"), req.Message.Body)
}

func TestConnectRejectedByBridge(t *testing.T) {
	_, nc := startServer(t)

	handle(t, nc, subjectConnect, func(ConnectRequest) (Session, error) {
		return Session{}, errors.New("unauthorized")
	})

	p := NewProvider(nc, prefix, time.Second, logger.NewTestLogger())

	_, err := p.Connect(context.Background(), token("leaf"), (&statusLog{}).record)
	require.ErrorIs(t, err, natsutil.ErrRemote)
	assert.NotErrorIs(t, err, cloud.ErrTransient)
}

func TestConnectWithoutBridgeIsTransient(t *testing.T) {
	_, nc := startServer(t)

	p := NewProvider(nc, prefix, time.Second, logger.NewTestLogger())

	_, err := p.Connect(context.Background(), token("leaf"), (&statusLog{}).record)
	require.ErrorIs(t, err, cloud.ErrTransient)
}

func TestSubscriptionsMapToTopics(t *testing.T) {
	_, nc := startServer(t)
	acceptConnect(t, nc)

	var (
		mu   sync.Mutex
		reqs []SubscribeRequest
	)

	handle(t, nc, subjectSubscribe, func(req SubscribeRequest) (struct{}, error) {
		mu.Lock()
		defer mu.Unlock()

		reqs = append(reqs, req)

		return struct{}{}, nil
	})

	p := NewProvider(nc, prefix, time.Second, logger.NewTestLogger())

	conn, err := p.Connect(context.Background(), token("leaf"), (&statusLog{}).record)
	require.NoError(t, err)

	proxy, _ := conn.Proxy()
	ctx := context.Background()

	require.NoError(t, proxy.SetupDesiredPropertyUpdates(ctx))
	require.NoError(t, proxy.SetupCallMethod(ctx))
	require.NoError(t, proxy.RemoveCallMethod(ctx))
	require.NoError(t, proxy.StartListening(ctx))

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []SubscribeRequest{
		{Session: Session{ID: "session-leaf"}, Topic: TopicDesired, Enabled: true},
		{Session: Session{ID: "session-leaf"}, Topic: TopicMethods, Enabled: true},
		{Session: Session{ID: "session-leaf"}, Topic: TopicMethods, Enabled: false},
		{Session: Session{ID: "session-leaf"}, Topic: TopicMessages, Enabled: true},
	}, reqs)
}

func TestTwinRequests(t *testing.T) {
	_, nc := startServer(t)
	acceptConnect(t, nc)

	handle(t, nc, subjectTwinGet, func(Session) (*models.Twin, error) {
		return &models.Twin{Desired: models.TwinCollection{"interval": float64(30)}}, nil
	})

	reported := make(chan ReportedRequest, 1)

	handle(t, nc, subjectReported, func(req ReportedRequest) (struct{}, error) {
		reported <- req

		return struct{}{}, nil
	})

	p := NewProvider(nc, prefix, time.Second, logger.NewTestLogger())

	conn, err := p.Connect(context.Background(), token("leaf"), (&statusLog{}).record)
	require.NoError(t, err)

	proxy, _ := conn.Proxy()

	twin, err := proxy.GetTwin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(30), twin.Desired["interval"])

	require.NoError(t, proxy.UpdateReportedProperties(context.Background(), models.TwinCollection{"temp": "hot"}))

	req := <-reported
	assert.Equal(t, "session-leaf", req.ID)
	assert.Equal(t, "hot", req.Patch["temp"])
}

func TestUpdateToken(t *testing.T) {
	_, nc := startServer(t)
	acceptConnect(t, nc)

	tokens := make(chan TokenRequest, 1)

	handle(t, nc, subjectToken, func(req TokenRequest) (struct{}, error) {
		tokens <- req

		return struct{}{}, nil
	})

	p := NewProvider(nc, prefix, time.Second, logger.NewTestLogger())

	conn, err := p.Connect(context.Background(), token("leaf"), (&statusLog{}).record)
	require.NoError(t, err)

	updater, ok := conn.(cloud.TokenUpdater)
	require.True(t, ok)

	fresh := token("leaf")
	fresh.Token = "SharedAccessSignature sr=leaf&se=2"

	proxy, err := updater.UpdateToken(context.Background(), fresh)
	require.NoError(t, err)
	assert.True(t, proxy.IsActive())

	req := <-tokens
	assert.Equal(t, "session-leaf", req.ID)
	assert.Equal(t, fresh.Token, req.Token)
}

func TestCloseEndsSession(t *testing.T) {
	_, nc := startServer(t)
	acceptConnect(t, nc)

	closed := make(chan Session, 1)

	handle(t, nc, subjectClose, func(req Session) (struct{}, error) {
		closed <- req

		return struct{}{}, nil
	})

	p := NewProvider(nc, prefix, time.Second, logger.NewTestLogger())

	conn, err := p.Connect(context.Background(), token("leaf"), (&statusLog{}).record)
	require.NoError(t, err)

	require.NoError(t, conn.Close(context.Background()))
	assert.Equal(t, "session-leaf", (<-closed).ID)

	assert.False(t, conn.IsActive())

	_, ok := conn.Proxy()
	assert.False(t, ok)

	proxy := conn.(cloud.Proxy)
	require.ErrorIs(t, proxy.SendMessage(context.Background(), &models.Message{}), cloud.ErrNoConnection)

	require.NoError(t, conn.Close(context.Background()))
}

func TestLinkLossDisconnectsSessions(t *testing.T) {
	srv, nc := startServer(t)
	acceptConnect(t, nc)

	p := NewProvider(nc, prefix, time.Second, logger.NewTestLogger())
	require.NoError(t, p.Start(context.Background()))

	t.Cleanup(func() { _ = p.Stop(context.Background()) })

	first := &statusLog{}
	second := &statusLog{}

	c1, err := p.Connect(context.Background(), token("leaf-1"), first.record)
	require.NoError(t, err)

	c2, err := p.Connect(context.Background(), token("leaf-2"), second.record)
	require.NoError(t, err)

	srv.Shutdown()

	want := []cloud.ConnectionStatus{cloud.ConnectionEstablished, cloud.Disconnected}

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, first.get()) && assert.ObjectsAreEqual(want, second.get())
	}, 5*time.Second, 10*time.Millisecond)

	assert.False(t, c1.IsActive())
	assert.False(t, c2.IsActive())
}

func TestUnsupportedCredentials(t *testing.T) {
	_, err := connectRequest(nil)
	require.ErrorIs(t, err, errUnsupportedCredentials)
}
