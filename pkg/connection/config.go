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

package connection

import (
	"time"

	"github.com/carverauto/edgecore/pkg/cloud"
	"github.com/carverauto/edgecore/pkg/models"
)

const (
	// DefaultMaxClients is 100 downstream clients plus the edge hub itself.
	DefaultMaxClients        = 101
	defaultOperationTimeout  = 30 * time.Second
	defaultReauthPeriod      = 5 * time.Minute
	defaultReauthConcurrency = 8
)

// Config tunes the Manager.
type Config struct {
	MaxClients int `json:"max_clients"`
	// CloseCloudConnectionOnDeviceDisconnect closes the upstream session
	// together with the device connection.
	CloseCloudConnectionOnDeviceDisconnect bool              `json:"close_cloud_connection_on_device_disconnect"`
	OperationTimeout                       models.Duration   `json:"operation_timeout"`
	Retry                                  cloud.RetryConfig `json:"-"`
}

func (c *Config) Validate() error {
	if c.MaxClients == 0 {
		c.MaxClients = DefaultMaxClients
	}

	if c.MaxClients < 0 {
		return errInvalidMaxClients
	}

	if c.OperationTimeout == 0 {
		c.OperationTimeout = models.Duration(defaultOperationTimeout)
	}

	if c.Retry == (cloud.RetryConfig{}) {
		c.Retry = cloud.DefaultRetryConfig()
	}

	return nil
}

// ReauthConfig tunes the Reauthenticator.
type ReauthConfig struct {
	Period      models.Duration `json:"period"`
	Concurrency int             `json:"concurrency"`
}

func (c *ReauthConfig) Validate() error {
	if c.Period == 0 {
		c.Period = models.Duration(defaultReauthPeriod)
	}

	if c.Period < 0 {
		return errInvalidPeriod
	}

	if c.Concurrency <= 0 {
		c.Concurrency = defaultReauthConcurrency
	}

	return nil
}
