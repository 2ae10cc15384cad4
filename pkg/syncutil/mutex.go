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

	"golang.org/x/sync/semaphore"
)

// Mutex is a mutual exclusion lock whose Lock can be abandoned through ctx.
type Mutex struct {
	sem *semaphore.Weighted
}

func NewMutex() *Mutex {
	return &Mutex{sem: semaphore.NewWeighted(1)}
}

// Lock blocks until the lock is held or ctx is done.
func (m *Mutex) Lock(ctx context.Context) error {
	return m.sem.Acquire(ctx, 1)
}

// TryLock acquires the lock only if it is free.
func (m *Mutex) TryLock() bool {
	return m.sem.TryAcquire(1)
}

func (m *Mutex) Unlock() {
	m.sem.Release(1)
}
