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

// Package reporter publishes the agent's reported state as CloudEvents.
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/edgecore/pkg/deployment"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
	"github.com/carverauto/edgecore/pkg/module"
)

const (
	SubjectReported = "events.agent.reported"
	SubjectShutdown = "events.agent.shutdown"

	EventTypeReported = "com.carverauto.edgecore.agent.reported"
	EventTypeShutdown = "com.carverauto.edgecore.agent.shutdown"
)

// Publisher is satisfied by natsutil.EventPublisher.
type Publisher interface {
	Publish(ctx context.Context, subject, eventType, source string, data interface{}) (*models.CloudEvent, error)
}

// ModuleState is the reported state of one module.
type ModuleState struct {
	Type          string               `json:"type"`
	Image         string               `json:"image"`
	Version       string               `json:"version,omitempty"`
	RestartPolicy module.RestartPolicy `json:"restart_policy"`
	Status        module.Status        `json:"runtime_status"`
	ExitCode      int                  `json:"exit_code,omitempty"`
	RestartCount  int                  `json:"restart_count,omitempty"`
	LastStartTime time.Time            `json:"last_start_time,omitzero"`
	LastExitTime  time.Time            `json:"last_exit_time,omitzero"`
}

// State is the payload of a reported event.
type State struct {
	Version int64                  `json:"version"`
	Status  deployment.Status      `json:"status"`
	Runtime *module.RuntimeInfo    `json:"runtime,omitempty"`
	Modules map[string]ModuleState `json:"modules,omitempty"`
}

// ShutdownState is the payload of a shutdown event.
type ShutdownState struct {
	Status deployment.Status `json:"status"`
}

// Reporter publishes reported state. A report identical to the last one
// that was published is dropped.
type Reporter struct {
	publisher Publisher
	source    string
	logger    logger.Logger

	mu   sync.Mutex
	last []byte
}

// New returns a Reporter publishing events with the given source.
func New(publisher Publisher, source string, log logger.Logger) *Reporter {
	return &Reporter{publisher: publisher, source: source, logger: log}
}

// Report publishes the state of the modules and the outcome of a cycle.
func (r *Reporter) Report(
	ctx context.Context,
	current module.Set,
	runtimeInfo *module.RuntimeInfo,
	version int64,
	status deployment.Status,
) error {
	state := buildState(current, runtimeInfo, version, status)

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal reported state: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if bytes.Equal(data, r.last) {
		return nil
	}

	if _, err := r.publisher.Publish(ctx, SubjectReported, EventTypeReported, r.source, state); err != nil {
		return err
	}

	r.last = data

	r.logger.Debug().
		Int64("version", version).
		Int("status", int(status.Code)).
		Int("modules", len(state.Modules)).
		Msg("Reported state")

	return nil
}

// ReportShutdown publishes the outcome of the shutdown.
func (r *Reporter) ReportShutdown(ctx context.Context, status deployment.Status) error {
	_, err := r.publisher.Publish(ctx, SubjectShutdown, EventTypeShutdown, r.source, ShutdownState{Status: status})

	return err
}

func buildState(current module.Set, runtimeInfo *module.RuntimeInfo, version int64, status deployment.Status) State {
	state := State{Version: version, Status: status, Runtime: runtimeInfo}

	if current.Len() == 0 {
		return state
	}

	state.Modules = make(map[string]ModuleState, current.Len())

	for _, m := range current.Modules() {
		ms := ModuleState{
			Type:          m.Type,
			Image:         m.Image,
			Version:       m.Version,
			RestartPolicy: m.RestartPolicy,
			Status:        m.RuntimeStatus(),
		}

		if rt := m.Runtime; rt != nil {
			ms.ExitCode = rt.ExitCode
			ms.RestartCount = rt.RestartCount
			ms.LastStartTime = rt.LastStartTime
			ms.LastExitTime = rt.LastExitTime
		}

		state.Modules[m.Name] = ms
	}

	return state
}
