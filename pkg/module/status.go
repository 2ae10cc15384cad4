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

package module

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the state of a module as reported by the runtime, or the state
// the deployment wants it in.
type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusRunning   Status = "running"
	StatusBackoff   Status = "backoff"
	StatusStopped   Status = "stopped"
	StatusFailed    Status = "failed"
	StatusUnhealthy Status = "unhealthy"
)

// RestartPolicy says when a module that stopped running is restarted.
// Policies are ordered: each one restarts in every case the previous does.
type RestartPolicy int

const (
	RestartNever RestartPolicy = iota
	RestartOnFailure
	RestartOnUnhealthy
	RestartAlways
)

var restartPolicyNames = map[RestartPolicy]string{
	RestartNever:       "never",
	RestartOnFailure:   "on-failure",
	RestartOnUnhealthy: "on-unhealthy",
	RestartAlways:      "always",
}

func (p RestartPolicy) String() string {
	if name, ok := restartPolicyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("RestartPolicy(%d)", int(p))
}

func (p RestartPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *RestartPolicy) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %s", errInvalidRestartPolicy, data)
	}

	for policy, n := range restartPolicyNames {
		if strings.EqualFold(n, name) {
			*p = policy

			return nil
		}
	}

	return fmt.Errorf("%w: %q", errInvalidRestartPolicy, name)
}
