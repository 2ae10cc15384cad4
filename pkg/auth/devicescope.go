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
	"github.com/carverauto/edgecore/pkg/logger"
)

// CredentialsValidator holds the credential-specific checks of a
// DeviceScopeAuthenticator.
type CredentialsValidator[T identity.Credentials] interface {
	// ValidateCredentials checks the credentials on their own, without a
	// service identity.
	ValidateCredentials(creds T) bool
	// ValidateWithServiceIdentity checks the credentials against the
	// directory record they claim.
	ValidateWithServiceIdentity(creds T, si *identity.ServiceIdentity, reauthenticating bool) bool
}

// DeviceScopeOptions tunes a DeviceScopeAuthenticator.
type DeviceScopeOptions struct {
	// AllowDeviceAuthForModule lets a module authenticate with its device's
	// credentials.
	AllowDeviceAuthForModule bool
	// SyncServiceIdentityOnFailure refreshes the identity from the directory
	// once before giving up.
	SyncServiceIdentityOnFailure bool
	// NestedEdgeEnabled accepts credentials presented through a child edge
	// device when the auth chain matches the cached hierarchy.
	NestedEdgeEnabled bool
}

// DeviceScopeAuthenticator authenticates against the local mirror of the
// identity directory. Principals the mirror does not know are handed to the
// underlying authenticator, if any.
type DeviceScopeAuthenticator[T identity.Credentials] struct {
	scope      IdentityScope
	underlying Authenticator
	validator  CredentialsValidator[T]
	opts       DeviceScopeOptions
	log        logger.Logger
}

func NewDeviceScopeAuthenticator[T identity.Credentials](
	scope IdentityScope,
	underlying Authenticator,
	validator CredentialsValidator[T],
	opts DeviceScopeOptions,
	log logger.Logger,
) *DeviceScopeAuthenticator[T] {
	return &DeviceScopeAuthenticator[T]{
		scope:      scope,
		underlying: underlying,
		validator:  validator,
		opts:       opts,
		log:        log,
	}
}

func (d *DeviceScopeAuthenticator[T]) Authenticate(ctx context.Context, creds identity.Credentials) (bool, error) {
	return d.authenticate(ctx, creds, false)
}

func (d *DeviceScopeAuthenticator[T]) Reauthenticate(ctx context.Context, creds identity.Credentials) (bool, error) {
	return d.authenticate(ctx, creds, true)
}

func (d *DeviceScopeAuthenticator[T]) authenticate(ctx context.Context, creds identity.Credentials, reauth bool) (bool, error) {
	typed, ok := creds.(T)
	if !ok {
		return false, nil
	}

	authenticated, fallback := d.Check(ctx, typed, reauth)
	if authenticated || !fallback || d.underlying == nil {
		return authenticated, nil
	}

	d.log.Debug().Str("id", creds.GetIdentity().ID).Msg("Identity not in device scope, using underlying authenticator")

	if reauth {
		return d.underlying.Reauthenticate(ctx, creds)
	}

	return d.underlying.Authenticate(ctx, creds)
}

// Check runs the device scope checks and reports whether the credentials
// authenticated and whether the caller should fall back to another
// authenticator. Fallback is only suggested when no service identity was
// found for the principal.
func (d *DeviceScopeAuthenticator[T]) Check(ctx context.Context, creds T, reauth bool) (authenticated, fallback bool) {
	if !d.validator.ValidateCredentials(creds) {
		return false, false
	}

	id := creds.GetIdentity()

	authenticated, found := d.checkIdentity(ctx, creds, id.ID, reauth)
	if !authenticated && id.IsModule() && d.opts.AllowDeviceAuthForModule {
		var deviceFound bool

		authenticated, deviceFound = d.checkIdentity(ctx, creds, id.DeviceID, reauth)
		found = found || deviceFound
	}

	if authenticated && !d.chainAllowed(creds, id.ID) {
		d.log.Warn().Str("id", id.ID).Msg("Auth chain does not match device scope")

		return false, false
	}

	return authenticated, !found
}

func (d *DeviceScopeAuthenticator[T]) checkIdentity(ctx context.Context, creds T, id string, reauth bool) (authenticated, found bool) {
	si, found := d.scope.GetServiceIdentity(id)
	if found && d.validator.ValidateWithServiceIdentity(creds, si, reauth) {
		return true, true
	}

	if !d.opts.SyncServiceIdentityOnFailure {
		return false, found
	}

	refreshed, err := d.scope.TryRefreshServiceIdentity(ctx, id)
	if err != nil {
		d.log.Warn().Err(err).Str("id", id).Msg("Failed to refresh service identity")

		return false, found
	}

	if !refreshed {
		return false, found
	}

	si, foundNow := d.scope.GetServiceIdentity(id)
	if !foundNow {
		return false, found
	}

	return d.validator.ValidateWithServiceIdentity(creds, si, reauth), true
}

func (d *DeviceScopeAuthenticator[T]) chainAllowed(creds T, id string) bool {
	presented, ok := creds.GetAuthChain()
	if !ok {
		return true
	}

	if !d.opts.NestedEdgeEnabled {
		return false
	}

	cached, ok := d.scope.GetAuthChain(id)

	return ok && cached == presented
}
