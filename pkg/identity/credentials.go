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

package identity

import (
	"crypto/x509"
)

// Kind is the authentication mechanism a client used.
type Kind int

const (
	KindToken Kind = iota + 1
	KindX509
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "Token"
	case KindX509:
		return "X509Cert"
	default:
		return "Unknown"
	}
}

// Credentials is the authentication material presented on one connection
// attempt. The only implementations are *TokenCredentials and
// *X509Credentials; switch on the concrete type to handle them.
type Credentials interface {
	Kind() Kind
	GetIdentity() Identity
	// GetAuthChain returns the nested-edge chain the credentials were
	// presented through, if any.
	GetAuthChain() (string, bool)
	isCredentials()
}

// TokenCredentials carries a shared access signature.
type TokenCredentials struct {
	Identity    Identity `json:"identity"`
	Token       string   `json:"token"`
	IsUpdatable bool     `json:"is_updatable"`
	ProductInfo string   `json:"product_info,omitempty"`
	ModelID     string   `json:"model_id,omitempty"`
	AuthChain   string   `json:"auth_chain,omitempty"`
}

func (*TokenCredentials) Kind() Kind                     { return KindToken }
func (c *TokenCredentials) GetIdentity() Identity        { return c.Identity }
func (c *TokenCredentials) GetAuthChain() (string, bool) { return c.AuthChain, c.AuthChain != "" }
func (*TokenCredentials) isCredentials()                 {}

// X509Credentials carries the client certificate presented in the TLS handshake.
type X509Credentials struct {
	Identity          Identity
	ClientCertificate *x509.Certificate
	CertificateChain  []*x509.Certificate
	ProductInfo       string
	ModelID           string
	AuthChain         string
}

func (*X509Credentials) Kind() Kind                     { return KindX509 }
func (c *X509Credentials) GetIdentity() Identity        { return c.Identity }
func (c *X509Credentials) GetAuthChain() (string, bool) { return c.AuthChain, c.AuthChain != "" }
func (*X509Credentials) isCredentials()                 {}

var (
	_ Credentials = (*TokenCredentials)(nil)
	_ Credentials = (*X509Credentials)(nil)
)
