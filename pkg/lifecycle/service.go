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

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/carverauto/edgecore/pkg/logger"
)

const defaultStopTimeout = 30 * time.Second

// Service is a long-lived component owned by the process.
// Start blocks until ctx is canceled or the service stops on its own.
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// RunOptions configures Run.
type RunOptions struct {
	Services    []Service
	StopTimeout time.Duration
	Logger      logger.Logger
	// OnShutdown runs after the signal is received and before services are stopped.
	OnShutdown func(ctx context.Context) error
}

// Run starts every service, waits for SIGINT/SIGTERM or ctx cancellation and then
// stops the services in reverse order.
func Run(ctx context.Context, opts *RunOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	stopTimeout := opts.StopTimeout
	if stopTimeout == 0 {
		stopTimeout = defaultStopTimeout
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, len(opts.Services))

	var wg sync.WaitGroup

	for _, svc := range opts.Services {
		wg.Add(1)

		go func(s Service) {
			defer wg.Done()

			log.Info().Str("service", s.Name()).Msg("Starting service")

			if err := s.Start(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("service %s: %w", s.Name(), err)
			}
		}(svc)
	}

	var runErr error

	select {
	case <-sigCtx.Done():
		log.Info().Msg("Shutdown signal received")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("Service failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	var errs []error

	if runErr != nil {
		errs = append(errs, runErr)
	}

	if opts.OnShutdown != nil {
		if err := opts.OnShutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown hook: %w", err))
		}
	}

	for i := len(opts.Services) - 1; i >= 0; i-- {
		svc := opts.Services[i]
		if err := svc.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Str("service", svc.Name()).Msg("Error stopping service")
			errs = append(errs, fmt.Errorf("stop %s: %w", svc.Name(), err))
		}
	}

	stop()
	wg.Wait()

	return errors.Join(errs...)
}
