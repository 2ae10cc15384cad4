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

package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/carverauto/edgecore/pkg/agent"
	"github.com/carverauto/edgecore/pkg/deployment"
)

// Provider hands out the client when a deployment asks for the runtime type
// it serves.
type Provider struct {
	client      *Client
	runtimeType string
}

func NewProvider(client *Client, runtimeType string) *Provider {
	return &Provider{client: client, runtimeType: runtimeType}
}

func (p *Provider) Create(_ context.Context, cfg *deployment.Config) (agent.Environment, error) {
	if cfg != nil && !strings.EqualFold(cfg.Runtime.Type, p.runtimeType) {
		return nil, fmt.Errorf("%w: %q", errUnsupportedRuntime, cfg.Runtime.Type)
	}

	return p.client, nil
}
