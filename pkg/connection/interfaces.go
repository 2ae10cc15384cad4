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
	"context"

	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/models"
)

//go:generate mockgen -destination=mock_connection.go -package=connection github.com/carverauto/edgecore/pkg/connection DeviceProxy,CredentialsCache

// DeviceProxy is the downstream side of a client connection.
type DeviceProxy interface {
	IsActive() bool
	Identity() identity.Identity
	// Close ends the connection, reporting reason to the client.
	Close(ctx context.Context, reason error) error
	SendMessage(ctx context.Context, msg *models.Message) error
	OnDesiredPropertyUpdates(ctx context.Context, patch models.TwinCollection) error
	InvokeMethod(ctx context.Context, req *models.DirectMethodRequest) (*models.DirectMethodResponse, error)
}

// CredentialsCache returns credentials a client authenticated with earlier.
type CredentialsCache interface {
	Get(ctx context.Context, id identity.Identity) (identity.Credentials, bool, error)
}
