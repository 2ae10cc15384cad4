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

package suspend

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/edgecore/pkg/natsutil"
)

const controlTimeout = 5 * time.Minute

// ControlState is the reply of the suspend control subjects.
type ControlState struct {
	Suspended bool `json:"suspended"`
}

// Serve answers requests on <prefix>.suspend, <prefix>.resume and
// <prefix>.status. Unsubscribe the returned subscriptions to stop.
func Serve(nc *nats.Conn, prefix string, m *Manager) ([]*nats.Subscription, error) {
	handlers := map[string]func(ctx context.Context) error{
		"suspend": m.SuspendUpdates,
		"resume":  m.ResumeUpdates,
		"status":  func(context.Context) error { return nil },
	}

	subs := make([]*nats.Subscription, 0, len(handlers))

	for name, fn := range handlers {
		sub, err := nc.Subscribe(prefix+"."+name, func(msg *nats.Msg) {
			// suspend waits for the running cycle; don't block the
			// connection's dispatcher meanwhile
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
				defer cancel()

				err := fn(ctx)

				if respondErr := natsutil.Respond(msg, ControlState{Suspended: m.IsSuspended()}, err); respondErr != nil {
					m.logger.Warn().Err(respondErr).Str("subject", msg.Subject).Msg("Failed to answer control request")
				}
			}()
		})
		if err != nil {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}

			return nil, err
		}

		subs = append(subs, sub)
	}

	return subs, nil
}
