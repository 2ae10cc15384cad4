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

package agent

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/suspend"
)

// Reconciler runs one reconcile cycle.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

// Gate decides whether a cycle may run.
type Gate interface {
	IsSuspended() bool
	BeginUpdateCycle(ctx context.Context) (*suspend.Lease, error)
}

// Loop runs reconcile cycles on an interval and whenever Trigger is called.
type Loop struct {
	reconciler Reconciler
	gate       Gate
	interval   time.Duration
	clock      clock.Clock
	logger     logger.Logger
	trigger    chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

// NewLoop returns a Loop running r every interval.
func NewLoop(r Reconciler, gate Gate, interval time.Duration, clk clock.Clock, log logger.Logger) (*Loop, error) {
	if interval <= 0 {
		return nil, errInvalidInterval
	}

	if clk == nil {
		clk = clock.New()
	}

	return &Loop{
		reconciler: r,
		gate:       gate,
		interval:   interval,
		clock:      clk,
		logger:     log,
		trigger:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}, nil
}

func (*Loop) Name() string { return "reconcile-loop" }

// Trigger asks for a cycle as soon as possible. Triggers that arrive while
// one is pending are merged.
func (l *Loop) Trigger() {
	select {
	case l.trigger <- struct{}{}:
	default:
	}
}

// Start runs a cycle immediately and then on every tick or trigger until
// ctx is canceled or Stop is called.
func (l *Loop) Start(ctx context.Context) error {
	l.logger.Info().Dur("interval", l.interval).Msg("Starting reconcile loop")

	ticker := l.clock.Ticker(l.interval)
	defer ticker.Stop()

	l.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-ticker.C:
			l.runCycle(ctx)
		case <-l.trigger:
			l.runCycle(ctx)
		}
	}
}

func (l *Loop) Stop(context.Context) error {
	l.stopOnce.Do(func() { close(l.done) })

	return nil
}

func (l *Loop) runCycle(ctx context.Context) {
	lease, err := l.gate.BeginUpdateCycle(ctx)
	if err != nil {
		return
	}
	defer lease.Release()

	if l.gate.IsSuspended() {
		l.logger.Debug().Msg("Updates suspended, skipping reconcile")
		return
	}

	if err := l.reconciler.Reconcile(ctx); err != nil {
		l.logger.Warn().Err(err).Msg("Reconcile failed")
	}
}
