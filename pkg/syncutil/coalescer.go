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

// Package syncutil holds small concurrency primitives shared across the edge core.
package syncutil

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Coalescer collapses concurrent calls for the same key into one in-flight
// call whose result every caller receives.
type Coalescer[V any] struct {
	group singleflight.Group
}

// Do runs fn for key unless a call for key is already in flight, in which
// case it waits for that call. fn runs detached from the caller's
// cancellation so that one caller giving up does not fail the others.
// shared reports whether the result was delivered to more than one caller.
func (c *Coalescer[V]) Do(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (v V, shared bool, err error) {
	detached := context.WithoutCancel(ctx)

	ch := c.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return v, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return v, res.Shared, res.Err
		}

		out, ok := res.Val.(V)
		if !ok && res.Val != nil {
			return v, res.Shared, fmt.Errorf("coalescer: unexpected result type %T", res.Val)
		}

		return out, res.Shared, nil
	}
}

// Forget drops any in-flight call for key; the next Do starts a new one.
func (c *Coalescer[V]) Forget(key string) {
	c.group.Forget(key)
}
