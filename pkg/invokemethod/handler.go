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

// Package invokemethod routes direct method calls to connected clients.
package invokemethod

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/carverauto/edgecore/pkg/connection"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

// ErrClientNotSubscribed is reported when the target did not subscribe to
// methods before the request timed out.
var ErrClientNotSubscribed = errors.New("client is not connected or not subscribed to methods")

const defaultWait = 30 * time.Second

// Connections is the part of connection.Manager the handler uses.
type Connections interface {
	GetDeviceConnection(id string) (connection.DeviceProxy, bool)
	CheckClientSubscription(id string, s models.DeviceSubscription) bool
}

type parked struct {
	req   *models.DirectMethodRequest
	ready chan struct{}
}

// Handler delivers direct method calls, parking calls for clients that are
// not yet able to receive them.
type Handler struct {
	connections Connections
	clock       clock.Clock
	log         logger.Logger

	mu     sync.Mutex
	parked map[string][]*parked
}

func NewHandler(connections Connections, clk clock.Clock, log logger.Logger) *Handler {
	if clk == nil {
		clk = clock.New()
	}

	return &Handler{
		connections: connections,
		clock:       clk,
		log:         log,
		parked:      make(map[string][]*parked),
	}
}

func (h *Handler) target(id string) (connection.DeviceProxy, bool) {
	proxy, ok := h.connections.GetDeviceConnection(id)
	if !ok || !h.connections.CheckClientSubscription(id, models.SubscriptionMethods) {
		return nil, false
	}

	return proxy, true
}

// InvokeMethod sends req to its target. When the target cannot receive
// methods yet the call waits for ConnectTimeout, or ResponseTimeout when no
// connect timeout is set, and then fails with a 404 response.
func (h *Handler) InvokeMethod(ctx context.Context, req *models.DirectMethodRequest) (*models.DirectMethodResponse, error) {
	if proxy, ok := h.target(req.ID); ok {
		return h.send(ctx, proxy, req)
	}

	wait := req.ConnectTimeout
	if wait <= 0 {
		wait = req.ResponseTimeout
	}

	if wait <= 0 {
		wait = defaultWait
	}

	timer := h.clock.Timer(wait)
	defer timer.Stop()

	h.log.Debug().Str("id", req.ID).Str("method", req.Name).Dur("wait", wait).Msg("Parking direct method call")

	for {
		p := &parked{req: req, ready: make(chan struct{})}
		h.park(p)

		// The subscription may have arrived before the call was parked.
		if proxy, ok := h.target(req.ID); ok {
			h.unpark(p)

			return h.send(ctx, proxy, req)
		}

		// A release whose target is still unreachable parks the call again
		// for the rest of its wait.
		select {
		case <-p.ready:
		case <-timer.C:
			h.unpark(p)

			return models.NewMethodNotFoundResponse(req.CorrelationID, ErrClientNotSubscribed), nil
		case <-ctx.Done():
			h.unpark(p)

			return nil, ctx.Err()
		}
	}
}

func (h *Handler) send(ctx context.Context, proxy connection.DeviceProxy, req *models.DirectMethodRequest) (*models.DirectMethodResponse, error) {
	if req.ResponseTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, req.ResponseTimeout)
		defer cancel()
	}

	resp, err := proxy.InvokeMethod(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("direct method %s on %s: %w", req.Name, req.ID, err)
	}

	return resp, nil
}

func (h *Handler) park(p *parked) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.parked[p.req.ID] = append(h.parked[p.req.ID], p)
}

func (h *Handler) unpark(p *parked) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := p.req.ID

	h.parked[id] = slices.DeleteFunc(h.parked[id], func(q *parked) bool { return q == p })
	if len(h.parked[id]) == 0 {
		delete(h.parked, id)
	}
}

// ProcessInvokeMethodSubscription releases calls parked for id.
func (h *Handler) ProcessInvokeMethodSubscription(id string) {
	h.mu.Lock()
	waiting := h.parked[id]
	delete(h.parked, id)
	h.mu.Unlock()

	for _, p := range waiting {
		close(p.ready)
	}
}

// Parked returns the number of calls waiting for id.
func (h *Handler) Parked(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.parked[id])
}
