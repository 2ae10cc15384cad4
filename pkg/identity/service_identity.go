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
	"slices"
)

// Status is the directory's enablement state for an identity.
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
)

// AuthType is how a ServiceIdentity is allowed to authenticate.
type AuthType string

const (
	AuthTypeNone                  AuthType = "none"
	AuthTypeSasKey                AuthType = "sas"
	AuthTypeCertificateThumbprint AuthType = "selfSigned"
	AuthTypeCertificateAuthority  AuthType = "certificateAuthority"
)

type SymmetricKey struct {
	PrimaryKey   string `json:"primary_key"`
	SecondaryKey string `json:"secondary_key"`
}

type X509Thumbprint struct {
	PrimaryThumbprint   string `json:"primary_thumbprint"`
	SecondaryThumbprint string `json:"secondary_thumbprint"`
}

type ServiceAuthentication struct {
	Type           AuthType        `json:"type"`
	SymmetricKey   *SymmetricKey   `json:"symmetric_key,omitempty"`
	X509Thumbprint *X509Thumbprint `json:"x509_thumbprint,omitempty"`
}

// ServiceIdentity is the directory's authorization record for a device or
// module. Records are replaced wholesale on refresh, never patched.
type ServiceIdentity struct {
	ID             string                `json:"id"`
	DeviceID       string                `json:"device_id"`
	ModuleID       string                `json:"module_id,omitempty"`
	DeviceScope    string                `json:"device_scope,omitempty"`
	ParentScopes   []string              `json:"parent_scopes,omitempty"`
	GenerationID   string                `json:"generation_id,omitempty"`
	IsEdgeDevice   bool                  `json:"is_edge_device"`
	Status         Status                `json:"status"`
	Authentication ServiceAuthentication `json:"authentication"`
}

func (s *ServiceIdentity) IsModule() bool {
	return s.ModuleID != ""
}

func (s *ServiceIdentity) IsEnabled() bool {
	return s.Status == StatusEnabled
}

// Identity returns the client identity this record authorizes.
func (s *ServiceIdentity) Identity(hubHostName string) Identity {
	if s.IsModule() {
		return NewModuleIdentity(hubHostName, s.DeviceID, s.ModuleID)
	}

	return NewDeviceIdentity(hubHostName, s.DeviceID)
}

// Equal compares every tracked field. ParentScopes order is ignored.
func (s *ServiceIdentity) Equal(other *ServiceIdentity) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.ID == other.ID &&
		s.DeviceID == other.DeviceID &&
		s.ModuleID == other.ModuleID &&
		s.DeviceScope == other.DeviceScope &&
		s.GenerationID == other.GenerationID &&
		s.IsEdgeDevice == other.IsEdgeDevice &&
		s.Status == other.Status &&
		sameScopes(s.ParentScopes, other.ParentScopes) &&
		s.Authentication.equal(&other.Authentication)
}

func sameScopes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	sa, sb := slices.Clone(a), slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)

	return slices.Equal(sa, sb)
}

func (a *ServiceAuthentication) equal(b *ServiceAuthentication) bool {
	if a.Type != b.Type {
		return false
	}

	switch {
	case (a.SymmetricKey == nil) != (b.SymmetricKey == nil):
		return false
	case a.SymmetricKey != nil && *a.SymmetricKey != *b.SymmetricKey:
		return false
	case (a.X509Thumbprint == nil) != (b.X509Thumbprint == nil):
		return false
	case a.X509Thumbprint != nil && *a.X509Thumbprint != *b.X509Thumbprint:
		return false
	}

	return true
}

// Clone returns a deep copy.
func (s *ServiceIdentity) Clone() *ServiceIdentity {
	if s == nil {
		return nil
	}

	out := *s
	out.ParentScopes = slices.Clone(s.ParentScopes)

	if s.Authentication.SymmetricKey != nil {
		key := *s.Authentication.SymmetricKey
		out.Authentication.SymmetricKey = &key
	}

	if s.Authentication.X509Thumbprint != nil {
		tp := *s.Authentication.X509Thumbprint
		out.Authentication.X509Thumbprint = &tp
	}

	return &out
}
