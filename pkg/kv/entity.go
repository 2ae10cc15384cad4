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

package kv

import (
	"context"
	"fmt"

	"github.com/carverauto/edgecore/pkg/codec"
)

// EntityStore is a typed view over a Store that encodes values as CBOR.
type EntityStore[V any] struct {
	store Store
}

// NewEntityStore wraps store.
func NewEntityStore[V any](store Store) *EntityStore[V] {
	return &EntityStore[V]{store: store}
}

func (e *EntityStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V

	data, found, err := e.store.Get(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}

	var v V
	if err := codec.Unmarshal(data, &v); err != nil {
		return zero, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return v, true, nil
}

func (e *EntityStore[V]) Put(ctx context.Context, key string, v V) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return e.store.Put(ctx, key, data)
}

// Update loads the current value, applies fn and stores the result. fn
// receives the zero value and false when the key is absent.
func (e *EntityStore[V]) Update(ctx context.Context, key string, fn func(V, bool) (V, error)) (V, error) {
	current, found, err := e.Get(ctx, key)
	if err != nil {
		return current, err
	}

	next, err := fn(current, found)
	if err != nil {
		return current, err
	}

	return next, e.Put(ctx, key, next)
}

func (e *EntityStore[V]) Remove(ctx context.Context, key string) error {
	return e.store.Delete(ctx, key)
}

func (e *EntityStore[V]) Contains(ctx context.Context, key string) (bool, error) {
	_, found, err := e.store.Get(ctx, key)

	return found, err
}

// IterateBatch decodes and visits every entity in key order.
func (e *EntityStore[V]) IterateBatch(ctx context.Context, batchSize int, visit func(key string, v V) error) error {
	return e.store.IterateBatch(ctx, batchSize, func(key string, data []byte) error {
		var v V
		if err := codec.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}

		return visit(key, v)
	})
}
