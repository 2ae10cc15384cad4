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

package credentials

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
)

func selfSigned(t *testing.T, cn string) *x509.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return cert
}

func TestCacheRoundTripsThroughStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	token := &identity.TokenCredentials{
		Identity:    identity.NewModuleIdentity("hub", "d1", "m1"),
		Token:       "SharedAccessSignature sr=x",
		IsUpdatable: true,
		AuthChain:   "d1/m1;d1;edge",
	}
	cert := selfSigned(t, "d2")
	x509Creds := &identity.X509Credentials{
		Identity:          identity.NewDeviceIdentity("hub", "d2"),
		ClientCertificate: cert,
		CertificateChain:  []*x509.Certificate{cert},
	}

	writer := NewCache(store, logger.NewTestLogger())
	require.NoError(t, writer.Add(ctx, token))
	require.NoError(t, writer.Add(ctx, x509Creds))

	// a fresh cache only sees the persisted copies
	reader := NewCache(store, logger.NewTestLogger())

	got, found, err := reader.Get(ctx, token.Identity)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, token, got)

	got, found, err = reader.Get(ctx, x509Creds.Identity)
	require.NoError(t, err)
	require.True(t, found)

	loaded, ok := got.(*identity.X509Credentials)
	require.True(t, ok)
	assert.True(t, cert.Equal(loaded.ClientCertificate))
	require.Len(t, loaded.CertificateChain, 1)

	_, found, err = reader.Get(ctx, identity.NewDeviceIdentity("hub", "missing"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheReplacesCredentials(t *testing.T) {
	ctx := context.Background()
	c := NewCache(kv.NewMemoryStore(), logger.NewTestLogger())
	id := identity.NewDeviceIdentity("hub", "d1")

	require.NoError(t, c.Add(ctx, &identity.TokenCredentials{Identity: id, Token: "old"}))
	require.NoError(t, c.Add(ctx, &identity.TokenCredentials{Identity: id, Token: "new"}))

	got, found, err := c.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", got.(*identity.TokenCredentials).Token)
}

func TestCacheReportsUndecodableRecord(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	require.NoError(t, store.Put(ctx, "d1", []byte{0xff, 0x00}))

	_, found, err := NewCache(store, logger.NewTestLogger()).Get(ctx, identity.NewDeviceIdentity("hub", "d1"))
	require.Error(t, err)
	assert.False(t, found)
}
