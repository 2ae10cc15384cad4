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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"

	"github.com/carverauto/edgecore/pkg/logger"
)

// ErrRemote wraps errors reported by the responder.
var ErrRemote = errors.New("remote error")

const requestAttempts = 3

// Reply is the envelope of request/reply responses.
type Reply[T any] struct {
	Result T      `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Requester sends JSON requests and decodes Reply envelopes.
type Requester struct {
	nc      *nats.Conn
	timeout time.Duration
	log     logger.Logger
}

// NewRequester returns a Requester whose requests each wait at most timeout.
func NewRequester(nc *nats.Conn, timeout time.Duration, log logger.Logger) *Requester {
	return &Requester{nc: nc, timeout: timeout, log: log}
}

// Request sends body to subject and returns the decoded result. Requests
// nobody answered are retried a few times since responders may be
// restarting.
func Request[T any](ctx context.Context, r *Requester, subject string, body any) (T, error) {
	var zero T

	var data []byte

	if body != nil {
		var err error

		if data, err = json.Marshal(body); err != nil {
			return zero, fmt.Errorf("marshal %s request: %w", subject, err)
		}
	}

	var msg *nats.Msg

	attempt := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		var err error

		msg, err = r.nc.RequestWithContext(reqCtx, subject, data)
		if errors.Is(err, nats.ErrNoResponders) {
			return err
		}

		if err != nil {
			return backoff.Permanent(err)
		}

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond

	notify := func(err error, wait time.Duration) {
		r.log.Debug().Err(err).Str("subject", subject).Dur("wait", wait).Msg("No responders, retrying request")
	}

	err := backoff.RetryNotify(attempt, backoff.WithContext(backoff.WithMaxRetries(b, requestAttempts-1), ctx), notify)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", subject, err)
	}

	var reply Reply[T]
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return zero, fmt.Errorf("decode %s reply: %w", subject, err)
	}

	if reply.Error != "" {
		return zero, fmt.Errorf("%w: %s: %s", ErrRemote, subject, reply.Error)
	}

	return reply.Result, nil
}

// Respond encodes result, or err when it is not nil, as a Reply to msg.
func Respond[T any](msg *nats.Msg, result T, err error) error {
	reply := Reply[T]{Result: result}
	if err != nil {
		reply = Reply[T]{Error: err.Error()}
	}

	data, marshalErr := json.Marshal(reply)
	if marshalErr != nil {
		return marshalErr
	}

	return msg.Respond(data)
}
