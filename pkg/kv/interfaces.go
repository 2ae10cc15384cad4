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

// Package kv provides the ordered key/value stores that back the credentials
// cache, the identity mirror, the twin store and the agent's persisted config.
package kv

import (
	"context"
)

// Store is a keyed store with ordered batch iteration.
type Store interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// IterateBatch visits every entry in key order, loading at most batchSize
	// entries at a time. Returning an error from visit stops the iteration
	// and IterateBatch returns that error.
	IterateBatch(ctx context.Context, batchSize int, visit func(key string, value []byte) error) error

	// Close releases the resources held by the store.
	Close() error
}

// Watcher is implemented by stores that can stream changes to a key.
type Watcher interface {
	// Watch sends the new value (nil when deleted) every time key changes.
	// The channel is closed when ctx is canceled or the store is closed.
	Watch(ctx context.Context, key string) (<-chan []byte, error)
}
