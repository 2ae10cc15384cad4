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

package cloud

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

func fastRetries() RetryConfig {
	return RetryConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRetryingProxyReResolvesAfterTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	stale := NewMockProxy(ctrl)
	fresh := NewMockProxy(ctrl)

	twin := &models.Twin{Desired: models.TwinCollection{"$version": int64(3)}}

	stale.EXPECT().GetTwin(gomock.Any()).Return(nil, fmt.Errorf("socket reset: %w", ErrTransient))
	fresh.EXPECT().GetTwin(gomock.Any()).Return(twin, nil)

	current := []Proxy{stale, fresh}
	resolves := 0

	p := NewRetryingProxy(func(context.Context) (Proxy, bool) {
		px := current[min(resolves, len(current)-1)]
		resolves++

		return px, true
	}, fastRetries(), logger.NewTestLogger())

	got, err := p.GetTwin(context.Background())
	require.NoError(t, err)
	assert.Same(t, twin, got)
	assert.Equal(t, 2, resolves)
}

func TestRetryingProxyDoesNotRetryPermanentErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	proxy := NewMockProxy(ctrl)

	denied := errors.New("unauthorized")
	proxy.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(denied).Times(1)

	p := NewRetryingProxy(func(context.Context) (Proxy, bool) { return proxy, true }, fastRetries(), logger.NewTestLogger())

	err := p.SendMessage(context.Background(), &models.Message{ID: "m1"})
	require.ErrorIs(t, err, denied)
}

func TestRetryingProxyGivesUpAfterMaxRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	proxy := NewMockProxy(ctrl)

	proxy.EXPECT().UpdateReportedProperties(gomock.Any(), gomock.Any()).Return(ErrTransient).Times(3)

	p := NewRetryingProxy(func(context.Context) (Proxy, bool) { return proxy, true }, fastRetries(), logger.NewTestLogger())

	err := p.UpdateReportedProperties(context.Background(), models.TwinCollection{"temp": 21})
	require.ErrorIs(t, err, ErrTransient)
}

func TestRetryingProxyWithoutConnection(t *testing.T) {
	p := NewRetryingProxy(func(context.Context) (Proxy, bool) { return nil, false }, fastRetries(), logger.NewTestLogger())

	require.ErrorIs(t, p.SetupCallMethod(context.Background()), ErrNoConnection)
	assert.False(t, p.IsActive())
	require.NoError(t, p.Close(context.Background()))
}

func TestRetryingProxyStopsOnCanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	proxy := NewMockProxy(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	proxy.EXPECT().StartListening(gomock.Any()).DoAndReturn(func(context.Context) error {
		cancel()

		return ErrTransient
	}).Times(1)

	p := NewRetryingProxy(func(context.Context) (Proxy, bool) { return proxy, true },
		RetryConfig{MaxRetries: 5, InitialInterval: time.Hour, MaxInterval: time.Hour}, logger.NewTestLogger())

	require.Error(t, p.StartListening(ctx))
}

func TestConnectionStatusString(t *testing.T) {
	assert.Equal(t, "TokenNearExpiry", TokenNearExpiry.String())
	assert.Equal(t, "Unknown", ConnectionStatus(0).String())
}
