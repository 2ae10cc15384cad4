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

// ConnectionStatus is a lifecycle notification raised by an upstream connection.
type ConnectionStatus int

const (
	ConnectionEstablished ConnectionStatus = iota + 1
	Disconnected
	DisconnectedTokenExpired
	TokenNearExpiry
)

func (s ConnectionStatus) String() string {
	switch s {
	case ConnectionEstablished:
		return "ConnectionEstablished"
	case Disconnected:
		return "Disconnected"
	case DisconnectedTokenExpired:
		return "DisconnectedTokenExpired"
	case TokenNearExpiry:
		return "TokenNearExpiry"
	default:
		return "Unknown"
	}
}

// StatusCallback receives status changes for the connection of identity id.
type StatusCallback func(id string, status ConnectionStatus)
