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

	"github.com/carverauto/edgecore/pkg/identity"
)

//go:generate mockgen -destination=mock_auth.go -package=auth github.com/carverauto/edgecore/pkg/auth Authenticator,CredentialsStore,IdentityScope

// Authenticator validates credentials presented by a client.
type Authenticator interface {
	Authenticate(ctx context.Context, creds identity.Credentials) (bool, error)
	// Reauthenticate re-validates credentials of an already connected client.
	Reauthenticate(ctx context.Context, creds identity.Credentials) (bool, error)
}

// CredentialsStore remembers credentials that authenticated successfully.
type CredentialsStore interface {
	Add(ctx context.Context, creds identity.Credentials) error
}

// IdentityScope is the view of the device scope cache the authenticators need.
type IdentityScope interface {
	GetServiceIdentity(id string) (*identity.ServiceIdentity, bool)
	GetAuthChain(id string) (string, bool)
	TryRefreshServiceIdentity(ctx context.Context, id string) (bool, error)
}
