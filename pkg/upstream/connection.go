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
	"sync/atomic"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/natsutil"
)

// Connection is one bridge session. It is its own proxy.
type Connection struct {
	provider *Provider
	id       identity.Identity
	onStatus cloud.StatusCallback
	session  Session
	active   atomic.Bool
}

var (
	_ cloud.Connection   = (*Connection)(nil)
	_ cloud.Proxy        = (*Connection)(nil)
	_ cloud.TokenUpdater = (*Connection)(nil)
)

func (c *Connection) Proxy() (cloud.Proxy, bool) {
	if !c.IsActive() {
		return nil, false
	}

	return c, true
}

func (c *Connection) IsActive() bool { return c.active.Load() }

// Close ends the session. Closing an inactive connection is a no-op.
func (c *Connection) Close(ctx context.Context) error {
	if !c.active.CompareAndSwap(true, false) {
		return nil
	}

	c.provider.forget(c)

	_, err := natsutil.Request[struct{}](ctx, c.provider.requester, c.provider.subject(subjectClose), c.session)

	return classify(err)
}

func (c *Connection) call(ctx context.Context, name string, body any) error {
	if !c.IsActive() {
		return cloud.ErrNoConnection
	}

	_, err := natsutil.Request[struct{}](ctx, c.provider.requester, c.provider.subject(name), body)

	return classify(err)
}

func (c *Connection) subscribe(ctx context.Context, topic string, enabled bool) error {
	return c.call(ctx, subjectSubscribe, SubscribeRequest{Session: c.session, Topic: topic, Enabled: enabled})
}

func (c *Connection) SendMessage(ctx context.Context, msg *models.Message) error {
	return c.call(ctx, subjectSend, SendRequest{Session: c.session, Message: msg})
}

func (c *Connection) GetTwin(ctx context.Context) (*models.Twin, error) {
	if !c.IsActive() {
		return nil, cloud.ErrNoConnection
	}

	twin, err := natsutil.Request[*models.Twin](ctx, c.provider.requester, c.provider.subject(subjectTwinGet), c.session)
	if err != nil {
		return nil, classify(err)
	}

	return twin, nil
}

func (c *Connection) UpdateReportedProperties(ctx context.Context, patch models.TwinCollection) error {
	return c.call(ctx, subjectReported, ReportedRequest{Session: c.session, Patch: patch})
}

func (c *Connection) SetupDesiredPropertyUpdates(ctx context.Context) error {
	return c.subscribe(ctx, TopicDesired, true)
}

func (c *Connection) RemoveDesiredPropertyUpdates(ctx context.Context) error {
	return c.subscribe(ctx, TopicDesired, false)
}

func (c *Connection) SetupCallMethod(ctx context.Context) error {
	return c.subscribe(ctx, TopicMethods, true)
}

func (c *Connection) RemoveCallMethod(ctx context.Context) error {
	return c.subscribe(ctx, TopicMethods, false)
}

func (c *Connection) StartListening(ctx context.Context) error {
	return c.subscribe(ctx, TopicMessages, true)
}

// UpdateToken hands a fresh token to the session. The session keeps its id.
func (c *Connection) UpdateToken(ctx context.Context, creds *identity.TokenCredentials) (cloud.Proxy, error) {
	if err := c.call(ctx, subjectToken, TokenRequest{Session: c.session, Token: creds.Token}); err != nil {
		return nil, err
	}

	return c, nil
}
