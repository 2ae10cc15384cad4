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

// Package deployment describes what the agent is asked to run and how a
// reconcile cycle went.
package deployment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carverauto/edgecore/pkg/module"
)

// SchemaVersion is the deployment schema written by this agent. Any 1.x
// schema is accepted on read.
const SchemaVersion = "1.1"

// RuntimeConfig selects and configures the module runtime.
type RuntimeConfig struct {
	Type     string            `json:"type" validate:"required"`
	Settings map[string]string `json:"settings,omitempty"`
}

// SystemModules are the modules every deployment runs.
type SystemModules struct {
	EdgeAgent *module.Module `json:"edge_agent" validate:"required"`
	EdgeHub   *module.Module `json:"edge_hub" validate:"required"`
}

// Config is a deployment: the runtime plus the modules it should run.
type Config struct {
	SchemaVersion string                    `json:"schema_version" validate:"required"`
	Runtime       RuntimeConfig             `json:"runtime"`
	SystemModules SystemModules             `json:"system_modules"`
	Modules       map[string]*module.Module `json:"modules,omitempty" validate:"dive,required"`
}

// ModuleSet returns the system and user modules of c. Module names come
// from their position in the deployment, not from the module bodies.
func (c *Config) ModuleSet() module.Set {
	if c == nil {
		return module.NewSet()
	}

	mods := make([]*module.Module, 0, len(c.Modules)+2)

	for name, m := range c.Modules {
		mods = append(mods, named(m, name))
	}

	if c.SystemModules.EdgeAgent != nil {
		mods = append(mods, named(c.SystemModules.EdgeAgent, module.EdgeAgentName))
	}

	if c.SystemModules.EdgeHub != nil {
		mods = append(mods, named(c.SystemModules.EdgeHub, module.EdgeHubName))
	}

	return module.NewSet(mods...)
}

func named(m *module.Module, name string) *module.Module {
	out := m.Clone()
	out.Name = name

	return out
}

// ConfigInfo is a deployment together with its version. Version 0 with a
// nil Config is the empty deployment.
type ConfigInfo struct {
	Version int64   `json:"version"`
	Config  *Config `json:"config,omitempty"`
}

// Empty is the deployment the agent starts from before anything is known.
var Empty = ConfigInfo{}

// IsEmpty reports whether info carries no deployment.
func (info *ConfigInfo) IsEmpty() bool {
	return info == nil || info.Config == nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a serialized ConfigInfo.
func Parse(data []byte) (*ConfigInfo, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrConfigEmpty
	}

	var info ConfigInfo

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFormat, err)
	}

	if info.Config == nil {
		return nil, ErrConfigEmpty
	}

	if err := checkSchemaVersion(info.Config.SchemaVersion); err != nil {
		return nil, err
	}

	// names are keys in the deployment; fill them in so the body validates
	for name, m := range info.Config.Modules {
		if m != nil && m.Name == "" {
			m.Name = name
		}
	}

	fillSystemName(info.Config.SystemModules.EdgeAgent, module.EdgeAgentName)
	fillSystemName(info.Config.SystemModules.EdgeHub, module.EdgeHubName)

	if err := validate.Struct(info.Config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFormat, err)
	}

	return &info, nil
}

func fillSystemName(m *module.Module, name string) {
	if m != nil {
		m.Name = name
	}
}

func checkSchemaVersion(v string) error {
	major, _, _ := strings.Cut(v, ".")
	if major != "1" {
		return fmt.Errorf("%w: %q", ErrInvalidSchemaVersion, v)
	}

	return nil
}
