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

package hub

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/carverauto/edgecore/pkg/auth"
	"github.com/carverauto/edgecore/pkg/connection"
	"github.com/carverauto/edgecore/pkg/devicescope"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/module"
)

const defaultStopTimeout = 30 * time.Second

var (
	errDeviceIDRequired    = errors.New("device_id is required")
	errHubHostNameRequired = errors.New("hub_host_name is required")
	errNoTrustedCerts      = errors.New("trust bundle holds no certificates")
)

// Config is the edge hub process configuration.
type Config struct {
	DeviceID    string `json:"device_id" validate:"required"`
	HubHostName string `json:"hub_host_name" validate:"required"`

	NATS    models.NATSConfig `json:"nats"`
	Storage kv.BadgerConfig   `json:"storage"`
	Logging *logger.Config    `json:"logging,omitempty"`

	Connections      connection.Config       `json:"connections"`
	Reauthentication connection.ReauthConfig `json:"reauthentication"`
	DeviceScope      devicescope.Config      `json:"device_scope"`
	Auth             AuthConfig              `json:"auth"`

	StopTimeout models.Duration `json:"stop_timeout"`
}

// AuthConfig tunes client authentication.
type AuthConfig struct {
	// TrustBundle is a PEM file of the CAs client certificates may chain to.
	// Without it only thumbprint authentication is possible.
	TrustBundle                  string `json:"trust_bundle,omitempty"`
	AllowDeviceAuthForModule     bool   `json:"allow_device_auth_for_module"`
	SyncServiceIdentityOnFailure bool   `json:"sync_service_identity_on_failure"`
	NestedEdgeEnabled            bool   `json:"nested_edge_enabled"`
}

// Options returns the device scope authenticator options.
func (c *AuthConfig) Options() auth.DeviceScopeOptions {
	return auth.DeviceScopeOptions{
		AllowDeviceAuthForModule:     c.AllowDeviceAuthForModule,
		SyncServiceIdentityOnFailure: c.SyncServiceIdentityOnFailure,
		NestedEdgeEnabled:            c.NestedEdgeEnabled,
	}
}

// Roots loads the trust bundle, or returns nil when none is configured.
func (c *AuthConfig) Roots() (*x509.CertPool, error) {
	if c.TrustBundle == "" {
		return nil, nil
	}

	pem, err := os.ReadFile(c.TrustBundle)
	if err != nil {
		return nil, fmt.Errorf("failed to read trust bundle: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w: %s", errNoTrustedCerts, c.TrustBundle)
	}

	return pool, nil
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.DeviceID == "" {
		return errDeviceIDRequired
	}

	if c.HubHostName == "" {
		return errHubHostNameRequired
	}

	validators := []interface{ Validate() error }{
		&c.NATS, &c.Storage, &c.Connections, &c.Reauthentication, &c.DeviceScope,
	}

	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	if c.StopTimeout <= 0 {
		c.StopTimeout = models.Duration(defaultStopTimeout)
	}

	return nil
}

// Identity is the hub's own module identity.
func (c *Config) Identity() identity.Identity {
	return identity.NewModuleIdentity(c.HubHostName, c.DeviceID, module.EdgeHubName)
}
