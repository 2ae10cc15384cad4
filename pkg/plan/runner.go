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

package plan

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/edgecore/pkg/logger"
)

// OrderedRunner executes the commands of a plan one after another. Every
// command runs even when an earlier one failed; cancellation is checked
// before each command and stops the run.
type OrderedRunner struct {
	logger logger.Logger
}

// NewOrderedRunner returns an OrderedRunner.
func NewOrderedRunner(log logger.Logger) *OrderedRunner {
	return &OrderedRunner{logger: log}
}

// Execute runs p. The returned error is an *ExecutionError when commands
// failed. A cancelled ctx stops the run without an error of its own; only
// the failures of commands started before it are reported.
func (r *OrderedRunner) Execute(ctx context.Context, version int64, p *Plan) error {
	if p.IsEmpty() {
		return nil
	}

	r.logger.Info().Int64("version", version).Int("commands", len(p.Commands)).Msg("Executing plan")

	var failures []*CommandError

	for _, cmd := range p.Commands {
		if ctx.Err() != nil {
			break
		}

		if err := run(ctx, r.logger, cmd); err != nil {
			failures = append(failures, &CommandError{CommandID: cmd.ID(), Err: err})
		}
	}

	return executionError(failures)
}

func run(ctx context.Context, log logger.Logger, cmd Command) error {
	log.Debug().Str("command", cmd.Show()).Msg("Executing command")

	if err := cmd.Execute(ctx); err != nil {
		log.Warn().Err(err).Str("command", cmd.Show()).Msg("Command failed")

		return err
	}

	return nil
}

// RetryConfig configures an OrderedRetryRunner.
type RetryConfig struct {
	// MaxRunCount is how many consecutive failures a command may have
	// before it is no longer attempted for the same deployment version.
	MaxRunCount int
	CoolOffUnit time.Duration
	MaxCoolOff  time.Duration
}

// DefaultRetryConfig returns the retry settings used by the agent.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRunCount: 3,
		CoolOffUnit: 10 * time.Second,
		MaxCoolOff:  5 * time.Minute,
	}
}

type attempt struct {
	failures    int
	lastAttempt time.Time
}

// OrderedRetryRunner is an OrderedRunner that remembers failed commands
// between executions. A failed command is skipped until its cool-off has
// passed and is dropped after MaxRunCount consecutive failures. Executing
// a different version forgets all history.
type OrderedRetryRunner struct {
	cfg    RetryConfig
	clock  clock.Clock
	logger logger.Logger

	mu      sync.Mutex
	version int64
	history map[string]*attempt
}

// NewOrderedRetryRunner validates cfg and returns an OrderedRetryRunner.
func NewOrderedRetryRunner(cfg RetryConfig, clk clock.Clock, log logger.Logger) (*OrderedRetryRunner, error) {
	if cfg.MaxRunCount <= 0 {
		return nil, errInvalidMaxRunCount
	}

	if cfg.CoolOffUnit < 0 {
		return nil, errInvalidCoolOffUnit
	}

	if cfg.MaxCoolOff < cfg.CoolOffUnit {
		cfg.MaxCoolOff = cfg.CoolOffUnit
	}

	if clk == nil {
		clk = clock.New()
	}

	return &OrderedRetryRunner{
		cfg:     cfg,
		clock:   clk,
		logger:  log,
		history: make(map[string]*attempt),
	}, nil
}

// CoolOffPeriod returns the wait after count+1 consecutive failures.
func (r *OrderedRetryRunner) CoolOffPeriod(count int) time.Duration {
	return CoolOffPeriod(r.cfg.CoolOffUnit, r.cfg.MaxCoolOff, count)
}

// Execute runs the eligible commands of p in order. Cancellation and
// failures are reported as by OrderedRunner.Execute.
func (r *OrderedRetryRunner) Execute(ctx context.Context, version int64, p *Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if version != r.version {
		clear(r.history)
		r.version = version
	}

	if p.IsEmpty() {
		return nil
	}

	r.logger.Info().Int64("version", version).Int("commands", len(p.Commands)).Msg("Executing plan")

	var failures []*CommandError

	for _, cmd := range p.Commands {
		if ctx.Err() != nil {
			break
		}

		id := cmd.ID()
		if !r.eligible(id) {
			continue
		}

		now := r.clock.Now()

		if err := run(ctx, r.logger, cmd); err != nil {
			a := r.history[id]
			if a == nil {
				a = &attempt{}
				r.history[id] = a
			}

			a.failures++
			a.lastAttempt = now

			failures = append(failures, &CommandError{CommandID: id, Err: err})

			continue
		}

		delete(r.history, id)
	}

	return executionError(failures)
}

func (r *OrderedRetryRunner) eligible(id string) bool {
	a, ok := r.history[id]
	if !ok {
		return true
	}

	if a.failures >= r.cfg.MaxRunCount {
		r.logger.Debug().Str("command", id).Int("failures", a.failures).Msg("Command exceeded max run count, skipping")
		return false
	}

	return r.clock.Since(a.lastAttempt) >= r.CoolOffPeriod(a.failures-1)
}
