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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

type nestedSection struct {
	URL      string          `json:"url" validate:"required"`
	Timeout  models.Duration `json:"timeout"`
	Subjects []string        `json:"subjects"`
}

type testConfig struct {
	ServiceName string                 `json:"service_name" validate:"required"`
	MaxClients  int                    `json:"max_clients" validate:"gte=1"`
	Debug       bool                   `json:"debug"`
	Period      time.Duration          `json:"period"`
	NATS        nestedSection          `json:"nats"`
	Security    *models.SecurityConfig `json:"security,omitempty"`
	Optional    *nestedSection         `json:"optional,omitempty"`

	validated bool
}

var errNoName = errors.New("service name required")

func (c *testConfig) Validate() error {
	c.validated = true

	if c.ServiceName == "" {
		return errNoName
	}

	return nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadAndValidateFromFile(t *testing.T) {
	path := writeConfig(t, `{
		"service_name": "edge-agent",
		"max_clients": 101,
		"nats": {"url": "nats://localhost:4222", "timeout": "5s"},
		"security": {"mode": "mtls", "cert_dir": "/etc/edgecore/certs", "tls": {"cert_file": "agent.pem", "key_file": "/abs/agent-key.pem", "ca_file": "root.pem"}}
	}`)

	var cfg testConfig
	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.True(t, cfg.validated)
	assert.Equal(t, "edge-agent", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.NATS.Timeout))
	assert.Equal(t, "/etc/edgecore/certs/agent.pem", cfg.Security.TLS.CertFile)
	assert.Equal(t, "/abs/agent-key.pem", cfg.Security.TLS.KeyFile)
	assert.Equal(t, "/etc/edgecore/certs/root.pem", cfg.Security.TLS.ClientCAFile)
	assert.Nil(t, cfg.Optional)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"service_name": "edge-agent", "max_clients": 10, "nats": {"url": "nats://file:4222"}}`)

	t.Setenv("EDGECORE_MAX_CLIENTS", "42")
	t.Setenv("EDGECORE_DEBUG", "true")
	t.Setenv("EDGECORE_PERIOD", "90s")
	t.Setenv("EDGECORE_NATS_URL", "nats://env:4222")
	t.Setenv("EDGECORE_NATS_TIMEOUT", "2s")
	t.Setenv("EDGECORE_NATS_SUBJECTS", "a, b")

	var cfg testConfig
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, 42, cfg.MaxClients)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 90*time.Second, cfg.Period)
	assert.Equal(t, "nats://env:4222", cfg.NATS.URL)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.NATS.Timeout))
	assert.Equal(t, []string{"a", "b"}, cfg.NATS.Subjects)
	assert.Nil(t, cfg.Optional)
}

func TestInvalidOverrideIsIgnored(t *testing.T) {
	path := writeConfig(t, `{"service_name": "edge-agent", "max_clients": 10, "nats": {"url": "nats://file:4222"}}`)

	t.Setenv("EDGECORE_MAX_CLIENTS", "many")

	var cfg testConfig
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))
	assert.Equal(t, 10, cfg.MaxClients)
}

func TestEnvSourceSkipsFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "AGENT_")
	t.Setenv("AGENT_SERVICE_NAME", "from-env")
	t.Setenv("AGENT_MAX_CLIENTS", "3")
	t.Setenv("AGENT_NATS_URL", "nats://env:4222")
	t.Setenv("AGENT_OPTIONAL_URL", "nats://optional:4222")

	var cfg testConfig
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), "/does/not/exist.json", &cfg))

	assert.Equal(t, "from-env", cfg.ServiceName)
	require.NotNil(t, cfg.Optional)
	assert.Equal(t, "nats://optional:4222", cfg.Optional.URL)
}

func TestFileConfigLoaderIsStrict(t *testing.T) {
	loader := &FileConfigLoader{}
	ctx := context.Background()

	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "misspelled key", body: `{"service_name": "a", "max_client": 3}`},
		{name: "nested unknown key", body: `{"service_name": "a", "nats": {"url": "x", "timeot": "1s"}}`},
		{name: "trailing document", body: `{"service_name": "a"} {"service_name": "b"}`, want: errTrailingData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg testConfig

			err := loader.Load(ctx, writeConfig(t, tt.body), &cfg)
			require.Error(t, err)

			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
			}
		})
	}

	var cfg testConfig
	require.NoError(t, loader.Load(ctx, writeConfig(t, `{"service_name": "a"}`+"\n"), &cfg))
	assert.Equal(t, "a", cfg.ServiceName)

	err := loader.Load(ctx, filepath.Join(t.TempDir(), "missing.json"), &cfg)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAndValidateRejects(t *testing.T) {
	c := NewConfig(nil)
	ctx := context.Background()

	var cfg testConfig

	err := c.LoadAndValidate(ctx, writeConfig(t, `{"max_clients": 1, "nats": {"url": "x"}}`), &cfg)
	require.ErrorIs(t, err, errNoName)

	cfg = testConfig{}
	err = c.LoadAndValidate(ctx, writeConfig(t, `{"service_name": "a", "max_clients": 0, "nats": {"url": "x"}}`), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxClients")

	cfg = testConfig{}
	err = c.LoadAndValidate(ctx, writeConfig(t, `{not json`), &cfg)
	require.Error(t, err)

	t.Setenv("CONFIG_SOURCE", "consul")
	err = c.LoadAndValidate(ctx, "ignored", &cfg)
	require.ErrorIs(t, err, errInvalidConfigSource)
}

func TestNormalizeTLSPaths(t *testing.T) {
	tls := &models.TLSConfig{CertFile: "c.pem", KeyFile: "k.pem", CAFile: "ca.pem", ClientCAFile: "client-ca.pem"}
	NormalizeTLSPaths(tls, "/certs")

	assert.Equal(t, "/certs/c.pem", tls.CertFile)
	assert.Equal(t, "/certs/client-ca.pem", tls.ClientCAFile)

	empty := &models.TLSConfig{}
	NormalizeTLSPaths(empty, "/certs")
	assert.Empty(t, empty.CertFile)
}
