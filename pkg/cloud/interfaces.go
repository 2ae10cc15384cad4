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

// Package cloud defines the upstream side of a client connection: the cloud
// proxy that acts on behalf of a device, and the provider that opens it.
package cloud

import (
	"context"

	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/models"
)

//go:generate mockgen -destination=mock_cloud.go -package=cloud github.com/carverauto/edgecore/pkg/cloud Proxy,Connection,ConnectionProvider,TokenUpdater

// Proxy performs cloud operations for one identity.
type Proxy interface {
	IsActive() bool
	Close(ctx context.Context) error
	SendMessage(ctx context.Context, msg *models.Message) error
	GetTwin(ctx context.Context) (*models.Twin, error)
	UpdateReportedProperties(ctx context.Context, patch models.TwinCollection) error
	SetupDesiredPropertyUpdates(ctx context.Context) error
	RemoveDesiredPropertyUpdates(ctx context.Context) error
	SetupCallMethod(ctx context.Context) error
	RemoveCallMethod(ctx context.Context) error
	// StartListening begins delivery of cloud-to-device messages.
	StartListening(ctx context.Context) error
}

// Connection is an open upstream session. Its proxy is absent once the
// session is closed.
type Connection interface {
	Proxy() (Proxy, bool)
	IsActive() bool
	Close(ctx context.Context) error
}

// TokenUpdater is implemented by connections that can swap their token in place.
type TokenUpdater interface {
	UpdateToken(ctx context.Context, creds *identity.TokenCredentials) (Proxy, error)
}

// ConnectionProvider opens upstream connections. onStatus is invoked for
// every status change of the returned connection, possibly from another
// goroutine and possibly before Connect has returned.
type ConnectionProvider interface {
	Connect(ctx context.Context, creds identity.Credentials, onStatus StatusCallback) (Connection, error)
}
