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

package auth

import (
	"context"
	"fmt"

	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
)

// ClientAuthenticator dispatches to the token or certificate authenticator
// and caches credentials that pass.
type ClientAuthenticator struct {
	token Authenticator
	cert  Authenticator
	store CredentialsStore
	log   logger.Logger
}

func NewClientAuthenticator(token, cert Authenticator, store CredentialsStore, log logger.Logger) *ClientAuthenticator {
	return &ClientAuthenticator{token: token, cert: cert, store: store, log: log}
}

func (a *ClientAuthenticator) Authenticate(ctx context.Context, creds identity.Credentials) (bool, error) {
	inner, err := a.pick(creds)
	if err != nil {
		return false, err
	}

	ok, err := inner.Authenticate(ctx, creds)
	if err != nil || !ok {
		return false, err
	}

	if err := a.store.Add(ctx, creds); err != nil {
		// The client is authenticated; only later reauthentication is affected.
		a.log.Warn().Err(err).Str("id", creds.GetIdentity().ID).Msg("Failed to cache credentials")
	}

	a.log.Debug().Str("id", creds.GetIdentity().ID).Str("kind", creds.Kind().String()).Msg("Client authenticated")

	return true, nil
}

func (a *ClientAuthenticator) Reauthenticate(ctx context.Context, creds identity.Credentials) (bool, error) {
	inner, err := a.pick(creds)
	if err != nil {
		return false, err
	}

	return inner.Reauthenticate(ctx, creds)
}

func (a *ClientAuthenticator) pick(creds identity.Credentials) (Authenticator, error) {
	switch creds.(type) {
	case *identity.TokenCredentials:
		return a.token, nil
	case *identity.X509Credentials:
		return a.cert, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedCredentials, creds)
	}
}
