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
	"crypto/sha1" //nolint:gosec // thumbprints may be registered as SHA-1
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
)

// CertificateValidator validates client certificates by thumbprint or against
// trusted certificate authorities.
type CertificateValidator struct {
	roots *x509.CertPool
	clock clock.Clock
	log   logger.Logger
}

var _ CredentialsValidator[*identity.X509Credentials] = (*CertificateValidator)(nil)

// NewCertificateValidator builds a validator. roots may be nil when only
// thumbprint authentication is used.
func NewCertificateValidator(roots *x509.CertPool, clk clock.Clock, log logger.Logger) *CertificateValidator {
	if clk == nil {
		clk = clock.New()
	}

	return &CertificateValidator{roots: roots, clock: clk, log: log}
}

// NewCertificateAuthenticator builds the device scope authenticator for X.509 clients.
func NewCertificateAuthenticator(
	scope IdentityScope,
	underlying Authenticator,
	validator *CertificateValidator,
	opts DeviceScopeOptions,
	log logger.Logger,
) *DeviceScopeAuthenticator[*identity.X509Credentials] {
	return NewDeviceScopeAuthenticator[*identity.X509Credentials](scope, underlying, validator, opts, log)
}

func (v *CertificateValidator) ValidateCredentials(creds *identity.X509Credentials) bool {
	cert := creds.ClientCertificate
	if cert == nil {
		return false
	}

	now := v.clock.Now()
	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		v.log.Debug().Str("id", creds.Identity.ID).Msg("Client certificate outside its validity window")

		return false
	}

	return true
}

func (v *CertificateValidator) ValidateWithServiceIdentity(
	creds *identity.X509Credentials, si *identity.ServiceIdentity, _ bool,
) bool {
	if !si.IsEnabled() {
		return false
	}

	switch si.Authentication.Type {
	case identity.AuthTypeCertificateThumbprint:
		return matchesThumbprint(creds.ClientCertificate, si.Authentication.X509Thumbprint)
	case identity.AuthTypeCertificateAuthority:
		return v.verifyChain(creds, si.DeviceID)
	case identity.AuthTypeNone, identity.AuthTypeSasKey:
		return false
	default:
		return false
	}
}

func (v *CertificateValidator) verifyChain(creds *identity.X509Credentials, deviceID string) bool {
	if v.roots == nil {
		return false
	}

	cert := creds.ClientCertificate
	if cert.Subject.CommonName != deviceID {
		v.log.Debug().Str("id", creds.Identity.ID).Str("cn", cert.Subject.CommonName).Msg("Certificate CN does not match device")

		return false
	}

	intermediates := x509.NewCertPool()
	for _, c := range creds.CertificateChain {
		intermediates.AddCert(c)
	}

	_, err := cert.Verify(x509.VerifyOptions{
		Roots:         v.roots,
		Intermediates: intermediates,
		CurrentTime:   v.clock.Now(),
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	})
	if err != nil {
		v.log.Debug().Err(err).Str("id", creds.Identity.ID).Msg("Certificate chain rejected")

		return false
	}

	return true
}

func matchesThumbprint(cert *x509.Certificate, tp *identity.X509Thumbprint) bool {
	if tp == nil {
		return false
	}

	sum256 := sha256.Sum256(cert.Raw)
	sum1 := sha1.Sum(cert.Raw) //nolint:gosec // see import

	candidates := []string{hex.EncodeToString(sum256[:]), hex.EncodeToString(sum1[:])}

	for _, registered := range []string{tp.PrimaryThumbprint, tp.SecondaryThumbprint} {
		if registered == "" {
			continue
		}

		for _, c := range candidates {
			if strings.EqualFold(registered, c) {
				return true
			}
		}
	}

	return false
}
