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

// Package upstream opens cloud sessions through the NATS bridge that owns
// the hub's link to the cloud.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/natsutil"
)

const (
	subjectConnect   = "connect"
	subjectClose     = "close"
	subjectToken     = "token"
	subjectSend      = "send"
	subjectTwinGet   = "twin.get"
	subjectReported  = "twin.reported"
	subjectSubscribe = "subscribe"
)

// Subscription topics sent in SubscribeRequest.
const (
	TopicDesired  = "desired"
	TopicMethods  = "methods"
	TopicMessages = "messages"
)

var errUnsupportedCredentials = errors.New("unsupported credentials")

// ConnectRequest asks the bridge to open a cloud session for Identity.
type ConnectRequest struct {
	Identity    identity.Identity `json:"identity"`
	Kind        string            `json:"kind"`
	Token       string            `json:"token,omitempty"`
	Certificate []byte            `json:"certificate,omitempty"`
	ProductInfo string            `json:"product_info,omitempty"`
	ModelID     string            `json:"model_id,omitempty"`
}

// Session names an open cloud session.
type Session struct {
	ID string `json:"session_id"`
}

type SendRequest struct {
	Session
	Message *models.Message `json:"message"`
}

type ReportedRequest struct {
	Session
	Patch models.TwinCollection `json:"patch"`
}

type SubscribeRequest struct {
	Session
	Topic   string `json:"topic"`
	Enabled bool   `json:"enabled"`
}

type TokenRequest struct {
	Session
	Token string `json:"token"`
}

// Provider opens one bridge session per client. Losing the NATS connection
// ends every session.
type Provider struct {
	nc        *nats.Conn
	requester *natsutil.Requester
	prefix    string
	log       logger.Logger

	mu    sync.Mutex
	conns map[*Connection]struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ cloud.ConnectionProvider = (*Provider)(nil)

func NewProvider(nc *nats.Conn, prefix string, timeout time.Duration, log logger.Logger) *Provider {
	return &Provider{
		nc:        nc,
		requester: natsutil.NewRequester(nc, timeout, log),
		prefix:    prefix,
		log:       log,
		conns:     make(map[*Connection]struct{}),
	}
}

func (*Provider) Name() string { return "upstream-provider" }

// Start watches the NATS connection and reports Disconnected on every open
// session when it drops.
func (p *Provider) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	statuses := p.nc.StatusChanged(nats.RECONNECTING, nats.DISCONNECTED, nats.CLOSED)

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		defer p.nc.RemoveStatusListener(statuses)

		for {
			select {
			case <-ctx.Done():
				return
			case status, ok := <-statuses:
				if !ok {
					return
				}

				p.log.Warn().Str("status", status.String()).Msg("Upstream link lost, ending cloud sessions")
				p.dropAll()
			}
		}
	}()

	return nil
}

func (p *Provider) Stop(_ context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	p.wg.Wait()

	return nil
}

func (p *Provider) subject(name string) string {
	return p.prefix + "." + name
}

// Connect opens a session and reports ConnectionEstablished before returning.
func (p *Provider) Connect(ctx context.Context, creds identity.Credentials, onStatus cloud.StatusCallback) (cloud.Connection, error) {
	req, err := connectRequest(creds)
	if err != nil {
		return nil, err
	}

	session, err := natsutil.Request[Session](ctx, p.requester, p.subject(subjectConnect), req)
	if err != nil {
		return nil, classify(err)
	}

	c := &Connection{provider: p, id: req.Identity, session: session, onStatus: onStatus}
	c.active.Store(true)

	p.mu.Lock()
	p.conns[c] = struct{}{}
	p.mu.Unlock()

	p.log.Debug().Str("id", c.id.ID).Str("session", session.ID).Msg("Opened cloud session")

	onStatus(c.id.ID, cloud.ConnectionEstablished)

	return c, nil
}

func (p *Provider) forget(c *Connection) {
	p.mu.Lock()
	delete(p.conns, c)
	p.mu.Unlock()
}

func (p *Provider) dropAll() {
	p.mu.Lock()
	conns := p.conns
	p.conns = make(map[*Connection]struct{})
	p.mu.Unlock()

	for c := range conns {
		if c.active.CompareAndSwap(true, false) {
			c.onStatus(c.id.ID, cloud.Disconnected)
		}
	}
}

func connectRequest(creds identity.Credentials) (ConnectRequest, error) {
	switch c := creds.(type) {
	case *identity.TokenCredentials:
		return ConnectRequest{
			Identity:    c.Identity,
			Kind:        c.Kind().String(),
			Token:       c.Token,
			ProductInfo: c.ProductInfo,
			ModelID:     c.ModelID,
		}, nil
	case *identity.X509Credentials:
		req := ConnectRequest{
			Identity:    c.Identity,
			Kind:        c.Kind().String(),
			ProductInfo: c.ProductInfo,
			ModelID:     c.ModelID,
		}

		if c.ClientCertificate != nil {
			req.Certificate = c.ClientCertificate.Raw
		}

		return req, nil
	default:
		return ConnectRequest{}, fmt.Errorf("%w: %T", errUnsupportedCredentials, creds)
	}
}

// classify marks failures of the link itself as transient. Errors reported
// by the bridge are returned as they are.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, nats.ErrNoResponders),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrConnectionReconnecting),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", cloud.ErrTransient, err)
	default:
		return err
	}
}
