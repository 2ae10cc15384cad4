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

package devicescope

import (
	"context"

	"github.com/carverauto/edgecore/pkg/identity"
)

// ServiceProxy reaches the remote identity directory.
type ServiceProxy interface {
	// GetServiceIdentity fetches one record. found is false when the
	// directory has no record for id.
	GetServiceIdentity(ctx context.Context, id string) (si *identity.ServiceIdentity, found bool, err error)

	// ServiceIdentities pages through every record in scope of the edge device.
	ServiceIdentities(ctx context.Context) Iterator
}

// Iterator is a paged cursor over directory records.
type Iterator interface {
	HasNext() bool
	GetNext(ctx context.Context) ([]*identity.ServiceIdentity, error)
}
