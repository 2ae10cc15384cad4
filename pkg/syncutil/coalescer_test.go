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

package syncutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalescerSharesInFlightCall(t *testing.T) {
	var (
		c       Coalescer[string]
		calls   atomic.Int32
		release = make(chan struct{})
		wg      sync.WaitGroup
	)

	const callers = 8

	results := make([]string, callers)
	started := make(chan struct{}, callers)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			started <- struct{}{}

			v, _, err := c.Do(context.Background(), "device-1", func(context.Context) (string, error) {
				calls.Add(1)
				<-release

				return "conn", nil
			})
			assert.NoError(t, err)

			results[i] = v
		}()
	}

	for range callers {
		<-started
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// give late goroutines a chance to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	for _, r := range results {
		assert.Equal(t, "conn", r)
	}
}

func TestCoalescerCallerCancellationDoesNotCancelCall(t *testing.T) {
	var c Coalescer[int]

	release := make(chan struct{})
	done := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_, _, err := c.Do(ctx, "k", func(callCtx context.Context) (int, error) {
			<-release
			return 1, callCtx.Err()
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(release)

	v, _, err := c.Do(context.Background(), "k", func(context.Context) (int, error) {
		return 2, nil
	})

	require.NoError(t, err)
	assert.Contains(t, []int{1, 2}, v)
}

func TestCoalescerPropagatesError(t *testing.T) {
	var c Coalescer[*int]

	boom := errors.New("boom")

	v, _, err := c.Do(context.Background(), "k", func(context.Context) (*int, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, v)
}
