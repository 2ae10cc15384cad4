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

// Package runtime talks to the module runtime's management API over NATS
// request/reply.
package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/module"
	"github.com/carverauto/edgecore/pkg/natsutil"
)

var (
	errUnsupportedRuntime  = errors.New("unsupported runtime type")
	errMissingRuntimeReply = errors.New("empty runtime reply")
)

const (
	subjectList    = "modules.list"
	subjectInfo    = "runtime.info"
	defaultTimeout = 30 * time.Second
)

// ModuleRequest is the body of the module lifecycle requests.
type ModuleRequest struct {
	Module   *module.Module         `json:"module"`
	Identity *module.ModuleIdentity `json:"identity,omitempty"`
}

// Client calls the management API served under prefix.
type Client struct {
	requester *natsutil.Requester
	prefix    string
}

// NewClient returns a Client. Each request waits at most timeout, or 30s
// when timeout is zero.
func NewClient(nc *nats.Conn, prefix string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{requester: natsutil.NewRequester(nc, timeout, log), prefix: prefix}
}

func (c *Client) subject(name string) string {
	return c.prefix + "." + name
}

// GetModules lists the modules known to the runtime.
func (c *Client) GetModules(ctx context.Context) (module.Set, error) {
	mods, err := call[[]*module.Module](ctx, c, subjectList, nil)
	if err != nil {
		return module.Set{}, err
	}

	return module.NewSet(mods...), nil
}

// GetRuntimeInfo describes the runtime and its host.
func (c *Client) GetRuntimeInfo(ctx context.Context) (*module.RuntimeInfo, error) {
	info, err := call[*module.RuntimeInfo](ctx, c, subjectInfo, nil)
	if err != nil {
		return nil, err
	}

	if info == nil {
		return nil, errMissingRuntimeReply
	}

	return info, nil
}

func call[T any](ctx context.Context, c *Client, name string, body any) (T, error) {
	return natsutil.Request[T](ctx, c.requester, c.subject(name), body)
}
