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

// Package module holds the agent's data model: modules, module sets and the
// difference between two module sets.
package module

import (
	"maps"
	"time"
)

// Names of the system modules every deployment carries.
const (
	EdgeAgentName = "edgeAgent"
	EdgeHubName   = "edgeHub"
)

// RuntimeState is what the runtime reports about a module instance.
type RuntimeState struct {
	Status        Status    `json:"status"`
	ExitCode      int       `json:"exit_code"`
	RestartCount  int       `json:"restart_count"`
	LastStartTime time.Time `json:"last_start_time,omitzero"`
	LastExitTime  time.Time `json:"last_exit_time,omitzero"`
}

// Module is one workload. Runtime is set only for modules read back from
// the runtime and never takes part in comparisons.
type Module struct {
	Name          string            `json:"name" validate:"required"`
	Version       string            `json:"version,omitempty"`
	Type          string            `json:"type" validate:"required"`
	Image         string            `json:"image" validate:"required"`
	DesiredStatus Status            `json:"status" validate:"omitempty,oneof=running stopped"`
	RestartPolicy RestartPolicy     `json:"restart_policy"`
	StartupOrder  uint32            `json:"startup_order,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
	CreateOptions string            `json:"create_options,omitempty"`

	Runtime *RuntimeState `json:"runtime,omitempty" validate:"-"`
}

// Equal compares the configuration of two modules.
func (m *Module) Equal(other *Module) bool {
	if m == nil || other == nil {
		return m == other
	}

	return m.Name == other.Name &&
		m.Version == other.Version &&
		m.Type == other.Type &&
		m.Image == other.Image &&
		m.desiredStatus() == other.desiredStatus() &&
		m.RestartPolicy == other.RestartPolicy &&
		m.StartupOrder == other.StartupOrder &&
		m.CreateOptions == other.CreateOptions &&
		maps.Equal(m.Env, other.Env)
}

func (m *Module) desiredStatus() Status {
	if m.DesiredStatus == "" {
		return StatusRunning
	}

	return m.DesiredStatus
}

// WantsRunning reports whether the module should be running.
func (m *Module) WantsRunning() bool {
	return m.desiredStatus() == StatusRunning
}

// RuntimeStatus returns the reported status, or StatusUnknown when the
// module has no runtime state.
func (m *Module) RuntimeStatus() Status {
	if m.Runtime == nil || m.Runtime.Status == "" {
		return StatusUnknown
	}

	return m.Runtime.Status
}

// Clone returns a deep copy of m.
func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}

	out := *m
	out.Env = maps.Clone(m.Env)

	if m.Runtime != nil {
		rt := *m.Runtime
		out.Runtime = &rt
	}

	return &out
}

// Credentials authenticate a module against the edge hub.
type Credentials struct {
	AuthScheme string `json:"auth_scheme"`
	Token      string `json:"token,omitempty"`
}

// ModuleIdentity is the identity the directory issued for a module.
type ModuleIdentity struct {
	ModuleID     string      `json:"module_id"`
	DeviceID     string      `json:"device_id"`
	HubHostName  string      `json:"hub_host_name"`
	GenerationID string      `json:"generation_id,omitempty"`
	Credentials  Credentials `json:"credentials"`
}

// Platform describes the host the runtime runs on.
type Platform struct {
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	Version      string `json:"version,omitempty"`
}

// RuntimeInfo describes the module runtime.
type RuntimeInfo struct {
	Type     string   `json:"type"`
	Version  string   `json:"version,omitempty"`
	Platform Platform `json:"platform"`
}
