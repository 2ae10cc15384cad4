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

// Package identity defines the principals known to the edge hub: client
// identities, the credentials they present and the authorization records
// fetched from the directory service.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyID      = errors.New("identity id must not be empty")
	ErrMalformedID  = errors.New("identity id must be <device> or <device>/<module>")
	ErrInvalidChain = errors.New("malformed auth chain")
)

// Identity names a device or a module. Two identities are equal when their
// IDs are equal.
type Identity struct {
	ID          string `json:"id"`
	DeviceID    string `json:"device_id"`
	ModuleID    string `json:"module_id,omitempty"`
	HubHostName string `json:"hub_host_name,omitempty"`
}

// IDFor builds the identity id for a device or, when moduleID is set, a module.
func IDFor(deviceID, moduleID string) string {
	if moduleID == "" {
		return deviceID
	}

	return deviceID + "/" + moduleID
}

func NewDeviceIdentity(hubHostName, deviceID string) Identity {
	return Identity{ID: deviceID, DeviceID: deviceID, HubHostName: hubHostName}
}

func NewModuleIdentity(hubHostName, deviceID, moduleID string) Identity {
	return Identity{
		ID:          IDFor(deviceID, moduleID),
		DeviceID:    deviceID,
		ModuleID:    moduleID,
		HubHostName: hubHostName,
	}
}

// Parse splits id into its device and module parts.
func Parse(hubHostName, id string) (Identity, error) {
	if id == "" {
		return Identity{}, ErrEmptyID
	}

	parts := strings.Split(id, "/")

	switch {
	case len(parts) == 1:
		return NewDeviceIdentity(hubHostName, parts[0]), nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return NewModuleIdentity(hubHostName, parts[0], parts[1]), nil
	default:
		return Identity{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
}

func (i Identity) IsModule() bool {
	return i.ModuleID != ""
}

func (i Identity) Equal(other Identity) bool {
	return i.ID == other.ID
}

func (i Identity) String() string {
	return i.ID
}

// SplitAuthChain splits "leaf;parent;...;actor" into its ids.
func SplitAuthChain(chain string) ([]string, error) {
	if chain == "" {
		return nil, ErrInvalidChain
	}

	ids := strings.Split(chain, ";")
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidChain, chain)
		}
	}

	return ids, nil
}
