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
	"maps"
	"slices"
	"sync"
)

// MemoryStore is a Store held entirely in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, ErrStoreClosed
	}

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	return slices.Clone(v), true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.data[key] = slices.Clone(value)

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, key)

	return nil
}

func (m *MemoryStore) IterateBatch(ctx context.Context, batchSize int, visit func(key string, value []byte) error) error {
	if batchSize <= 0 {
		return ErrInvalidBatchSize
	}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrStoreClosed
	}

	keys := slices.Sorted(maps.Keys(m.data))
	m.mu.RUnlock()

	for start := 0; start < len(keys); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+batchSize, len(keys))

		for _, key := range keys[start:end] {
			value, found, err := m.Get(ctx, key)
			if err != nil {
				return err
			}

			if !found {
				continue
			}

			if err := visit(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

var _ Store = (*MemoryStore)(nil)
