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

package agent

import (
	"errors"
	"time"

	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/plan"
	"github.com/carverauto/edgecore/pkg/restart"
	"github.com/carverauto/edgecore/pkg/suspend"
)

const (
	defaultReconcileInterval = 30 * time.Second
	defaultRuntimeType       = "docker"
	defaultDeploymentBucket  = "edgecore-deployments"
	defaultKeyFile           = "/var/lib/edgecore/agent.key"
)

var errDeviceIDRequired = errors.New("device_id is required")

// Config is the edge agent process configuration.
type Config struct {
	DeviceID    string `json:"device_id" validate:"required"`
	HubHostName string `json:"hub_host_name"`

	NATS    models.NATSConfig   `json:"nats"`
	Events  models.EventsConfig `json:"events"`
	Storage kv.BadgerConfig     `json:"storage"`
	Logging *logger.Config      `json:"logging,omitempty"`

	// DeploymentFile, when set, is read instead of the deployment bucket.
	DeploymentFile   string `json:"deployment_file,omitempty"`
	DeploymentBucket string `json:"deployment_bucket"`
	DeploymentKey    string `json:"deployment_key"`

	RuntimeType       string          `json:"runtime_type"`
	KeyFile           string          `json:"key_file"`
	ReconcileInterval models.Duration `json:"reconcile_interval"`
	SuspendTimeout    models.Duration `json:"suspend_timeout"`

	MaxRunCount     int             `json:"max_run_count"`
	MaxRestartCount int             `json:"max_restart_count"`
	CoolOffUnit     models.Duration `json:"cool_off_unit"`
	MaxCoolOff      models.Duration `json:"max_cool_off"`
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.DeviceID == "" {
		return errDeviceIDRequired
	}

	if err := c.NATS.Validate(); err != nil {
		return err
	}

	c.Events.Enabled = true
	if err := c.Events.Validate(); err != nil {
		return err
	}

	if err := c.Storage.Validate(); err != nil {
		return err
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	setDefault(&c.DeploymentBucket, defaultDeploymentBucket)
	setDefault(&c.RuntimeType, defaultRuntimeType)
	setDefault(&c.KeyFile, defaultKeyFile)

	if c.ReconcileInterval <= 0 {
		c.ReconcileInterval = models.Duration(defaultReconcileInterval)
	}

	if c.SuspendTimeout <= 0 {
		c.SuspendTimeout = models.Duration(suspend.DefaultTimeout)
	}

	retry := plan.DefaultRetryConfig()
	restarts := restart.DefaultConfig()

	if c.MaxRunCount <= 0 {
		c.MaxRunCount = retry.MaxRunCount
	}

	if c.MaxRestartCount <= 0 {
		c.MaxRestartCount = restarts.MaxRestartCount
	}

	if c.CoolOffUnit <= 0 {
		c.CoolOffUnit = models.Duration(retry.CoolOffUnit)
	}

	if c.MaxCoolOff <= 0 {
		c.MaxCoolOff = models.Duration(retry.MaxCoolOff)
	}

	return nil
}

// RetryConfig returns the plan runner settings.
func (c *Config) RetryConfig() plan.RetryConfig {
	return plan.RetryConfig{
		MaxRunCount: c.MaxRunCount,
		CoolOffUnit: time.Duration(c.CoolOffUnit),
		MaxCoolOff:  time.Duration(c.MaxCoolOff),
	}
}

// RestartConfig returns the restart policy settings.
func (c *Config) RestartConfig() restart.Config {
	return restart.Config{
		MaxRestartCount: c.MaxRestartCount,
		CoolOffUnit:     time.Duration(c.CoolOffUnit),
		MaxCoolOff:      time.Duration(c.MaxCoolOff),
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
