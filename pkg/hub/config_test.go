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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/edgecore/pkg/connection"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/models"
)

func TestConfigValidateDefaults(t *testing.T) {
	cfg := Config{
		DeviceID:    "edge-1",
		HubHostName: "hub.example.net",
		NATS:        models.NATSConfig{URL: "nats://127.0.0.1:4222"},
		Storage:     kv.BadgerConfig{InMemory: true},
	}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "edgecore", cfg.NATS.SubjectPrefix)
	assert.Equal(t, connection.DefaultMaxClients, cfg.Connections.MaxClients)
	assert.Positive(t, cfg.Reauthentication.Concurrency)
	assert.Equal(t, time.Hour, time.Duration(cfg.DeviceScope.RefreshRate))
	assert.Equal(t, 30*time.Second, time.Duration(cfg.StopTimeout))
	assert.NotNil(t, cfg.Logging)
	assert.Equal(t, "edge-1/edgeHub", cfg.Identity().ID)
}

func TestConfigValidateRequiredFields(t *testing.T) {
	nats := models.NATSConfig{URL: "nats://127.0.0.1:4222"}

	cfg := Config{HubHostName: "hub.example.net", NATS: nats}
	require.ErrorIs(t, cfg.Validate(), errDeviceIDRequired)

	cfg = Config{DeviceID: "edge-1", NATS: nats}
	require.ErrorIs(t, cfg.Validate(), errHubHostNameRequired)

	cfg = Config{DeviceID: "edge-1", HubHostName: "hub.example.net", Connections: connection.Config{MaxClients: -1},
		NATS: nats, Storage: kv.BadgerConfig{InMemory: true}}
	require.Error(t, cfg.Validate())
}

func writeCA(t *testing.T, path string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "edge root"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
}

func TestAuthConfigRoots(t *testing.T) {
	dir := t.TempDir()

	var empty AuthConfig

	roots, err := empty.Roots()
	require.NoError(t, err)
	assert.Nil(t, roots)

	bundle := filepath.Join(dir, "ca.pem")
	writeCA(t, bundle)

	withBundle := AuthConfig{TrustBundle: bundle}

	roots, err = withBundle.Roots()
	require.NoError(t, err)
	assert.NotNil(t, roots)

	garbage := filepath.Join(dir, "garbage.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a certificate"), 0o600))

	_, err = (&AuthConfig{TrustBundle: garbage}).Roots()
	require.ErrorIs(t, err, errNoTrustedCerts)
}

func TestAuthConfigOptions(t *testing.T) {
	cfg := AuthConfig{AllowDeviceAuthForModule: true, NestedEdgeEnabled: true}

	opts := cfg.Options()
	assert.True(t, opts.AllowDeviceAuthForModule)
	assert.False(t, opts.SyncServiceIdentityOnFailure)
	assert.True(t, opts.NestedEdgeEnabled)
}
