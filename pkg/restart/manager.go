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

// Package restart decides which stopped or failing modules are restarted
// and when.
package restart

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/edgecore/pkg/module"
	"github.com/carverauto/edgecore/pkg/plan"
)

// ErrUnknownStatus is returned for modules whose runtime status is unknown.
var ErrUnknownStatus = errors.New("no restart decision for unknown module status")

// Config configures a Manager.
type Config struct {
	MaxRestartCount int
	CoolOffUnit     time.Duration
	MaxCoolOff      time.Duration
}

// DefaultConfig returns the restart settings used by the agent.
func DefaultConfig() Config {
	return Config{
		MaxRestartCount: 20,
		CoolOffUnit:     10 * time.Second,
		MaxCoolOff:      5 * time.Minute,
	}
}

// Manager applies restart policies.
type Manager struct {
	cfg   Config
	clock clock.Clock
}

// NewManager returns a Manager. A nil clock uses wall time.
func NewManager(cfg Config, clk clock.Clock) *Manager {
	if clk == nil {
		clk = clock.New()
	}

	return &Manager{cfg: cfg, clock: clk}
}

// CoolOffPeriod is how long a module that restarted restartCount times
// waits before the next restart.
func (m *Manager) CoolOffPeriod(restartCount int) time.Duration {
	return plan.CoolOffPeriod(m.cfg.CoolOffUnit, m.cfg.MaxCoolOff, restartCount)
}

// ComputeStatus maps the runtime status of a module to the status the
// agent acts on. Backoff means the module should be restarted; Failed
// means it has restarted too often.
func (m *Manager) ComputeStatus(status module.Status, policy module.RestartPolicy, restartCount int) (module.Status, error) {
	backoff := func() module.Status {
		if restartCount > m.cfg.MaxRestartCount {
			return module.StatusFailed
		}

		return module.StatusBackoff
	}

	switch status {
	case module.StatusRunning:
		return module.StatusRunning, nil
	case module.StatusBackoff:
		return backoff(), nil
	case module.StatusStopped:
		if policy >= module.RestartAlways {
			return backoff(), nil
		}

		return module.StatusStopped, nil
	case module.StatusFailed:
		if policy >= module.RestartOnFailure {
			return backoff(), nil
		}

		return module.StatusFailed, nil
	case module.StatusUnhealthy:
		if policy >= module.RestartOnUnhealthy {
			return backoff(), nil
		}

		return module.StatusUnhealthy, nil
	default:
		return module.StatusUnknown, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
}

// ApplyRestartPolicy returns the modules that should be restarted now:
// their computed status is Backoff and their cool-off since the last exit
// has passed. Modules without runtime state are skipped.
func (m *Manager) ApplyRestartPolicy(mods []*module.Module) []*module.Module {
	var due []*module.Module

	now := m.clock.Now()

	for _, mod := range mods {
		if mod.Runtime == nil {
			continue
		}

		status, err := m.ComputeStatus(mod.RuntimeStatus(), mod.RestartPolicy, mod.Runtime.RestartCount)
		if err != nil || status != module.StatusBackoff {
			continue
		}

		if now.Sub(mod.Runtime.LastExitTime) >= m.CoolOffPeriod(mod.Runtime.RestartCount) {
			due = append(due, mod)
		}
	}

	return due
}
