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
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
)

// TokenValidator validates shared access signatures against symmetric keys
// held by the directory.
type TokenValidator struct {
	hubHostName string
	clock       clock.Clock
	log         logger.Logger
}

var _ CredentialsValidator[*identity.TokenCredentials] = (*TokenValidator)(nil)

func NewTokenValidator(hubHostName string, clk clock.Clock, log logger.Logger) *TokenValidator {
	if clk == nil {
		clk = clock.New()
	}

	return &TokenValidator{hubHostName: hubHostName, clock: clk, log: log}
}

// NewTokenAuthenticator builds the device scope authenticator for tokens.
func NewTokenAuthenticator(
	scope IdentityScope,
	underlying Authenticator,
	validator *TokenValidator,
	opts DeviceScopeOptions,
	log logger.Logger,
) *DeviceScopeAuthenticator[*identity.TokenCredentials] {
	return NewDeviceScopeAuthenticator[*identity.TokenCredentials](scope, underlying, validator, opts, log)
}

func (v *TokenValidator) ValidateCredentials(creds *identity.TokenCredentials) bool {
	sas, err := ParseSharedAccessSignature(creds.Token)
	if err != nil {
		v.log.Debug().Err(err).Str("id", creds.Identity.ID).Msg("Rejecting token")

		return false
	}

	if sas.IsExpired(v.clock.Now()) {
		v.log.Debug().Str("id", creds.Identity.ID).Time("expired_at", sas.ExpiresOn).Msg("Token expired")

		return false
	}

	return true
}

func (v *TokenValidator) ValidateWithServiceIdentity(
	creds *identity.TokenCredentials, si *identity.ServiceIdentity, _ bool,
) bool {
	if !si.IsEnabled() ||
		si.Authentication.Type != identity.AuthTypeSasKey ||
		si.Authentication.SymmetricKey == nil {
		return false
	}

	sas, err := ParseSharedAccessSignature(creds.Token)
	if err != nil || sas.IsExpired(v.clock.Now()) {
		return false
	}

	if !strings.EqualFold(sas.Resource, Audience(v.hubHostName, si.DeviceID, si.ModuleID)) {
		v.log.Debug().Str("id", creds.Identity.ID).Str("audience", sas.Resource).Msg("Token audience mismatch")

		return false
	}

	keys := si.Authentication.SymmetricKey

	for _, key := range []string{keys.PrimaryKey, keys.SecondaryKey} {
		if key == "" {
			continue
		}

		ok, err := sas.Verify(key)
		if err != nil {
			v.log.Warn().Err(err).Str("id", si.ID).Msg("Service identity has an invalid key")

			continue
		}

		if ok {
			return true
		}
	}

	return false
}
