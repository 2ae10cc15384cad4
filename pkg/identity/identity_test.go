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

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    Identity
		wantErr error
	}{
		{name: "device", id: "d1", want: Identity{ID: "d1", DeviceID: "d1", HubHostName: "hub"}},
		{name: "module", id: "d1/m1", want: Identity{ID: "d1/m1", DeviceID: "d1", ModuleID: "m1", HubHostName: "hub"}},
		{name: "empty", id: "", wantErr: ErrEmptyID},
		{name: "too many parts", id: "d1/m1/x", wantErr: ErrMalformedID},
		{name: "empty module", id: "d1/", wantErr: ErrMalformedID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse("hub", tc.id)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.ModuleID != "", got.IsModule())
		})
	}
}

func TestIdentityEqualityUsesID(t *testing.T) {
	a := NewModuleIdentity("hub-a", "d1", "m1")
	b := NewModuleIdentity("hub-b", "d1", "m1")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewDeviceIdentity("hub-a", "d1")))
}

func TestCredentialsVariants(t *testing.T) {
	creds := []Credentials{
		&TokenCredentials{Identity: NewDeviceIdentity("hub", "d1"), Token: "t", AuthChain: "d1;edge"},
		&X509Credentials{Identity: NewDeviceIdentity("hub", "d2")},
	}

	kinds := make([]Kind, 0, len(creds))

	for _, c := range creds {
		switch v := c.(type) {
		case *TokenCredentials:
			chain, ok := v.GetAuthChain()
			assert.True(t, ok)
			assert.Equal(t, "d1;edge", chain)
		case *X509Credentials:
			_, ok := v.GetAuthChain()
			assert.False(t, ok)
		}

		kinds = append(kinds, c.Kind())
	}

	assert.Equal(t, []Kind{KindToken, KindX509}, kinds)
	assert.Equal(t, "X509Cert", KindX509.String())
}

func TestServiceIdentityEqual(t *testing.T) {
	base := &ServiceIdentity{
		ID:           "d1",
		DeviceID:     "d1",
		ParentScopes: []string{"scope-a", "scope-b"},
		Status:       StatusEnabled,
		Authentication: ServiceAuthentication{
			Type:         AuthTypeSasKey,
			SymmetricKey: &SymmetricKey{PrimaryKey: "p", SecondaryKey: "s"},
		},
	}

	reordered := base.Clone()
	reordered.ParentScopes = []string{"scope-b", "scope-a"}
	assert.True(t, base.Equal(reordered))

	rotated := base.Clone()
	rotated.Authentication.SymmetricKey.PrimaryKey = "p2"
	assert.False(t, base.Equal(rotated))
	assert.Equal(t, "p", base.Authentication.SymmetricKey.PrimaryKey)

	disabled := base.Clone()
	disabled.Status = StatusDisabled
	assert.False(t, base.Equal(disabled))

	assert.True(t, (*ServiceIdentity)(nil).Equal(nil))
	assert.False(t, base.Equal(nil))
}

func TestSplitAuthChain(t *testing.T) {
	ids, err := SplitAuthChain("leaf;parent;edge")
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf", "parent", "edge"}, ids)

	_, err = SplitAuthChain("leaf;;edge")
	require.ErrorIs(t, err, ErrInvalidChain)
}
