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

package models

import "maps"

// Message is a device-to-cloud or cloud-to-device payload with its
// application and system properties.
type Message struct {
	ID               string            `json:"id,omitempty"`
	Body             []byte            `json:"body"`
	Properties       map[string]string `json:"properties,omitempty"`
	SystemProperties map[string]string `json:"system_properties,omitempty"`
}

// Well-known system property keys.
const (
	SysPropMessageID       = "message-id"
	SysPropCorrelationID   = "correlation-id"
	SysPropConnectionDevID = "connection-device-id"
	SysPropConnectionModID = "connection-module-id"
	SysPropOutputName      = "output-name"
	SysPropEnqueuedTime    = "enqueued-time"
)

// Clone returns a copy whose property maps may be mutated independently.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}

	out := &Message{
		ID:               m.ID,
		Body:             append([]byte(nil), m.Body...),
		Properties:       maps.Clone(m.Properties),
		SystemProperties: maps.Clone(m.SystemProperties),
	}

	return out
}
