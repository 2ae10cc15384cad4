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

// Package hub assembles the edge hub: the identity mirror, client
// authentication, the connection manager and the components that keep
// twins, subscriptions and direct methods in step with the cloud.
package hub

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/nats-io/nats.go"

	"github.com/carverauto/edgecore/pkg/auth"
	"github.com/carverauto/edgecore/pkg/connection"
	"github.com/carverauto/edgecore/pkg/credentials"
	"github.com/carverauto/edgecore/pkg/devicescope"
	"github.com/carverauto/edgecore/pkg/directory"
	"github.com/carverauto/edgecore/pkg/invokemethod"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/lifecycle"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/subscription"
	"github.com/carverauto/edgecore/pkg/twin"
	"github.com/carverauto/edgecore/pkg/upstream"
)

// Store namespaces inside the hub database.
const (
	namespaceCredentials = "credentials"
	namespaceIdentities  = "identities"
	namespaceTwins       = "twins"
)

// Hub holds the wired components. Protocol listeners use Connections and
// Authenticator to admit clients.
type Hub struct {
	Scope         *devicescope.Cache
	Authenticator *auth.ClientAuthenticator
	Connections   *connection.Manager
	Twins         *twin.Manager
	Subscriptions *subscription.Processor
	Methods       *invokemethod.Handler

	services []lifecycle.Service
}

// New wires the hub on top of an open database and NATS connection.
func New(ctx context.Context, cfg *Config, db *badger.DB, nc *nats.Conn, log logger.Logger) (*Hub, error) {
	timeout := time.Duration(cfg.NATS.Timeout)
	prefix := cfg.NATS.SubjectPrefix

	creds := credentials.NewCache(kv.NewBadgerStore(db, namespaceCredentials), log)

	dir := directory.NewClient(nc, prefix+".directory", cfg.DeviceID, timeout, log)

	scope, err := devicescope.NewCache(ctx, cfg.DeviceID, dir, kv.NewBadgerStore(db, namespaceIdentities),
		cfg.DeviceScope, nil, log)
	if err != nil {
		return nil, err
	}

	authenticator, err := newAuthenticator(cfg, scope, creds, log)
	if err != nil {
		return nil, err
	}

	provider := upstream.NewProvider(nc, prefix+".upstream", timeout, log)

	manager, err := connection.NewManager(cfg.Connections, provider, creds, log)
	if err != nil {
		return nil, err
	}

	reauth, err := connection.NewReauthenticator(manager, authenticator, creds, scope, cfg.Identity(),
		cfg.Reauthentication, nil, log)
	if err != nil {
		return nil, err
	}

	twins := twin.NewManager(manager, kv.NewBadgerStore(db, namespaceTwins), log)
	methods := invokemethod.NewHandler(manager, nil, log)
	subs := subscription.NewProcessor(manager, methods, log)

	return &Hub{
		Scope:         scope,
		Authenticator: authenticator,
		Connections:   manager,
		Twins:         twins,
		Subscriptions: subs,
		Methods:       methods,
		services:      []lifecycle.Service{provider, scope, reauth, twins, subs},
	}, nil
}

// Services returns the long-running components in start order.
func (h *Hub) Services() []lifecycle.Service {
	return h.services
}

func newAuthenticator(cfg *Config, scope *devicescope.Cache, creds *credentials.Cache, log logger.Logger) (*auth.ClientAuthenticator, error) {
	roots, err := cfg.Auth.Roots()
	if err != nil {
		return nil, err
	}

	opts := cfg.Auth.Options()

	token := auth.NewTokenAuthenticator(scope, nil, auth.NewTokenValidator(cfg.HubHostName, nil, log), opts, log)
	cert := auth.NewCertificateAuthenticator(scope, nil, auth.NewCertificateValidator(roots, nil, log), opts, log)

	return auth.NewClientAuthenticator(token, cert, creds, log), nil
}
