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

// Package suspend lets an operator pause deployment updates without
// interrupting a reconcile cycle that is already running.
package suspend

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/syncutil"
)

// DefaultTimeout is how long a suspension lasts unless resumed earlier.
const DefaultTimeout = 10 * time.Minute

// Manager gates reconcile cycles. A cycle holds a lease for its whole run;
// SuspendUpdates waits for the lease before suspending.
type Manager struct {
	timeout time.Duration
	clock   clock.Clock
	logger  logger.Logger
	cycle   *syncutil.Mutex

	mu        sync.Mutex
	suspended bool
	since     time.Time
}

// NewManager returns a Manager. Suspensions expire after timeout, or
// DefaultTimeout when timeout is zero.
func NewManager(timeout time.Duration, clk clock.Clock, log logger.Logger) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if clk == nil {
		clk = clock.New()
	}

	return &Manager{
		timeout: timeout,
		clock:   clk,
		logger:  log,
		cycle:   syncutil.NewMutex(),
	}
}

// IsSuspended reports whether updates are suspended. An expired suspension
// is cleared by the call.
func (m *Manager) IsSuspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.suspended && m.clock.Since(m.since) >= m.timeout {
		m.logger.Info().Dur("timeout", m.timeout).Msg("Update suspension expired")
		m.suspended = false
	}

	return m.suspended
}

// SuspendUpdates waits for the running cycle, if any, and suspends updates.
func (m *Manager) SuspendUpdates(ctx context.Context) error {
	return m.withCycle(ctx, func() {
		m.suspended = true
		m.since = m.clock.Now()

		m.logger.Info().Msg("Updates suspended")
	})
}

// ResumeUpdates waits for the running cycle, if any, and resumes updates.
func (m *Manager) ResumeUpdates(ctx context.Context) error {
	return m.withCycle(ctx, func() {
		if m.suspended {
			m.logger.Info().Msg("Updates resumed")
		}

		m.suspended = false
	})
}

func (m *Manager) withCycle(ctx context.Context, fn func()) error {
	if err := m.cycle.Lock(ctx); err != nil {
		return err
	}
	defer m.cycle.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	fn()

	return nil
}

// Lease is held for the duration of a reconcile cycle.
type Lease struct {
	once    sync.Once
	release func()
}

// Release ends the cycle. It is safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(l.release)
}

// BeginUpdateCycle waits for any other cycle or pending suspend/resume and
// returns the lease for a new cycle.
func (m *Manager) BeginUpdateCycle(ctx context.Context) (*Lease, error) {
	if err := m.cycle.Lock(ctx); err != nil {
		return nil, err
	}

	return &Lease{release: m.cycle.Unlock}, nil
}
