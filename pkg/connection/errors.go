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

import "errors"

var (
	ErrMaxClientsExceeded  = errors.New("maximum number of connected clients reached")
	ErrUnknownIdentity     = errors.New("identity has never connected")
	ErrMultipleConnections = errors.New("a new connection for the same identity was established")
	ErrConnectionClosed    = errors.New("connection closed")
	ErrNoCredentials       = errors.New("no cached credentials for identity")
	errInvalidMaxClients   = errors.New("max clients must be positive")
	errInvalidPeriod       = errors.New("reauthenticate period must be positive")
)
