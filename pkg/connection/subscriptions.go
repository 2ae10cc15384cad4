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

package connection

import (
	"maps"

	"github.com/carverauto/edgecore/pkg/models"
)

func (m *Manager) AddSubscription(id string, s models.DeviceSubscription) error {
	return m.setSubscription(id, s, true)
}

func (m *Manager) RemoveSubscription(id string, s models.DeviceSubscription) error {
	return m.setSubscription(id, s, false)
}

func (m *Manager) setSubscription(id string, s models.DeviceSubscription, enabled bool) error {
	d, ok := m.lookup(id)
	if !ok {
		return ErrUnknownIdentity
	}

	d.mu.Lock()
	d.subscriptions[s] = enabled
	d.mu.Unlock()

	return nil
}

// GetSubscriptions returns a copy of the subscription flags of id.
func (m *Manager) GetSubscriptions(id string) (map[models.DeviceSubscription]bool, bool) {
	d, ok := m.lookup(id)
	if !ok {
		return nil, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return maps.Clone(d.subscriptions), true
}

func (m *Manager) CheckClientSubscription(id string, s models.DeviceSubscription) bool {
	d, ok := m.lookup(id)
	if !ok {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.subscriptions[s]
}
