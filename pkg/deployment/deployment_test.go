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

package deployment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/edgecore/pkg/module"
)

const validDeployment = `{
  "version": 7,
  "config": {
    "schema_version": "1.0",
    "runtime": {"type": "docker"},
    "system_modules": {
      "edge_agent": {"type": "docker", "image": "agent:1"},
      "edge_hub": {"type": "docker", "image": "hub:1", "restart_policy": "always"}
    },
    "modules": {
      "sensor": {"type": "docker", "image": "sensor:2", "startup_order": 2, "restart_policy": "on-failure"}
    }
  }
}`

func TestParse(t *testing.T) {
	info, err := Parse([]byte(validDeployment))
	require.NoError(t, err)

	assert.Equal(t, int64(7), info.Version)
	assert.False(t, info.IsEmpty())

	set := info.Config.ModuleSet()
	assert.Equal(t, []string{module.EdgeAgentName, module.EdgeHubName, "sensor"}, set.Names())

	sensor, ok := set.Get("sensor")
	require.True(t, ok)
	assert.Equal(t, module.RestartOnFailure, sensor.RestartPolicy)
	assert.Equal(t, uint32(2), sensor.StartupOrder)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "blank", data: "  ", want: ErrConfigEmpty},
		{name: "no config", data: `{"version": 3}`, want: ErrConfigEmpty},
		{name: "not json", data: `{"version":`, want: ErrConfigFormat},
		{name: "unknown field", data: `{"version": 1, "extra": true}`, want: ErrConfigFormat},
		{
			name: "schema 2",
			data: `{"version": 1, "config": {"schema_version": "2.0", "runtime": {"type": "docker"}}}`,
			want: ErrInvalidSchemaVersion,
		},
		{
			name: "missing system modules",
			data: `{"version": 1, "config": {"schema_version": "1.1", "runtime": {"type": "docker"}}}`,
			want: ErrConfigFormat,
		},
		{
			name: "module without image",
			data: `{"version": 1, "config": {"schema_version": "1.1", "runtime": {"type": "docker"},
				"system_modules": {"edge_agent": {"type": "docker", "image": "a"}, "edge_hub": {"type": "docker", "image": "h"}},
				"modules": {"m": {"type": "docker"}}}}`,
			want: ErrConfigFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want StatusCode
	}{
		{err: nil, want: StatusSuccessful},
		{err: ErrConfigEmpty, want: StatusConfigEmptyError},
		{err: fmt.Errorf("load: %w", ErrConfigFormat), want: StatusConfigFormatError},
		{err: ErrInvalidSchemaVersion, want: StatusInvalidSchemaVersion},
		{err: errors.New("runtime unreachable"), want: StatusFailed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFromError(tt.err).Code, "%v", tt.err)
	}

	assert.Equal(t, "runtime unreachable", StatusFromError(errors.New("runtime unreachable")).Description)
	assert.Equal(t, "ConfigEmptyError", StatusConfigEmptyError.String())
}

func TestEmptyModuleSet(t *testing.T) {
	var cfg *Config

	assert.Equal(t, 0, cfg.ModuleSet().Len())
	assert.True(t, Empty.IsEmpty())
}
