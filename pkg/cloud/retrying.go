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

package cloud

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

// Resolver returns the current proxy for an identity.
type Resolver func(ctx context.Context) (Proxy, bool)

// RetryConfig bounds the retries of a RetryingProxy.
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// RetryingProxy resolves the underlying proxy on every attempt, so a
// connection replaced after a transient failure is picked up by the retry.
type RetryingProxy struct {
	resolve Resolver
	cfg     RetryConfig
	log     logger.Logger
}

var _ Proxy = (*RetryingProxy)(nil)

func NewRetryingProxy(resolve Resolver, cfg RetryConfig, log logger.Logger) *RetryingProxy {
	return &RetryingProxy{resolve: resolve, cfg: cfg, log: log}
}

func (r *RetryingProxy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, r.cfg.MaxRetries), ctx)
}

func retry[T any](ctx context.Context, r *RetryingProxy, op string, fn func(Proxy) (T, error)) (T, error) {
	var result T

	attempt := func() error {
		p, ok := r.resolve(ctx)
		if !ok {
			return ErrNoConnection
		}

		v, err := fn(p)
		if err == nil {
			result = v

			return nil
		}

		if errors.Is(err, ErrTransient) {
			return err
		}

		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		r.log.Debug().Err(err).Str("op", op).Dur("wait", wait).Msg("Retrying cloud operation")
	}

	err := backoff.RetryNotify(attempt, r.backOff(ctx), notify)

	return result, err
}

func do(ctx context.Context, r *RetryingProxy, op string, fn func(Proxy) error) error {
	_, err := retry(ctx, r, op, func(p Proxy) (struct{}, error) {
		return struct{}{}, fn(p)
	})

	return err
}

func (r *RetryingProxy) IsActive() bool {
	p, ok := r.resolve(context.Background())

	return ok && p.IsActive()
}

// Close closes the proxy currently resolved, without retrying.
func (r *RetryingProxy) Close(ctx context.Context) error {
	p, ok := r.resolve(ctx)
	if !ok {
		return nil
	}

	return p.Close(ctx)
}

func (r *RetryingProxy) SendMessage(ctx context.Context, msg *models.Message) error {
	return do(ctx, r, "send_message", func(p Proxy) error { return p.SendMessage(ctx, msg) })
}

func (r *RetryingProxy) GetTwin(ctx context.Context) (*models.Twin, error) {
	return retry(ctx, r, "get_twin", func(p Proxy) (*models.Twin, error) { return p.GetTwin(ctx) })
}

func (r *RetryingProxy) UpdateReportedProperties(ctx context.Context, patch models.TwinCollection) error {
	return do(ctx, r, "update_reported", func(p Proxy) error { return p.UpdateReportedProperties(ctx, patch) })
}

func (r *RetryingProxy) SetupDesiredPropertyUpdates(ctx context.Context) error {
	return do(ctx, r, "setup_desired", func(p Proxy) error { return p.SetupDesiredPropertyUpdates(ctx) })
}

func (r *RetryingProxy) RemoveDesiredPropertyUpdates(ctx context.Context) error {
	return do(ctx, r, "remove_desired", func(p Proxy) error { return p.RemoveDesiredPropertyUpdates(ctx) })
}

func (r *RetryingProxy) SetupCallMethod(ctx context.Context) error {
	return do(ctx, r, "setup_call_method", func(p Proxy) error { return p.SetupCallMethod(ctx) })
}

func (r *RetryingProxy) RemoveCallMethod(ctx context.Context) error {
	return do(ctx, r, "remove_call_method", func(p Proxy) error { return p.RemoveCallMethod(ctx) })
}

func (r *RetryingProxy) StartListening(ctx context.Context) error {
	return do(ctx, r, "start_listening", func(p Proxy) error { return p.StartListening(ctx) })
}
