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

// Package directory is the NATS client of the identity directory. It feeds
// the device scope cache and issues module identities for the agent.
package directory

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/edgecore/pkg/devicescope"
	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/module"
	"github.com/carverauto/edgecore/pkg/natsutil"
)

const (
	subjectGet        = "identity.get"
	subjectPage       = "identity.page"
	subjectIdentities = "modules.identities"

	// DefaultPageSize is the number of records requested per page.
	DefaultPageSize = 100
)

// GetRequest asks for one identity record.
type GetRequest struct {
	ID string `json:"id"`
}

// PageRequest asks for the page of records after Cursor.
type PageRequest struct {
	DeviceID string `json:"device_id"`
	Cursor   string `json:"cursor,omitempty"`
	Limit    int    `json:"limit"`
}

// Page is one page of records. An empty NextCursor ends the listing.
type Page struct {
	Identities []*identity.ServiceIdentity `json:"identities"`
	NextCursor string                      `json:"next_cursor,omitempty"`
}

// IdentitiesRequest asks for the identities of Modules and retires those of
// Removed.
type IdentitiesRequest struct {
	DeviceID string   `json:"device_id"`
	Modules  []string `json:"modules"`
	Removed  []string `json:"removed,omitempty"`
}

// Client talks to the directory served under prefix on behalf of one edge
// device.
type Client struct {
	requester *natsutil.Requester
	prefix    string
	deviceID  string
	pageSize  int
	logger    logger.Logger
}

var (
	_ devicescope.ServiceProxy = (*Client)(nil)
)

// NewClient returns a Client for deviceID.
func NewClient(nc *nats.Conn, prefix, deviceID string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		requester: natsutil.NewRequester(nc, timeout, log),
		prefix:    prefix,
		deviceID:  deviceID,
		pageSize:  DefaultPageSize,
		logger:    log,
	}
}

func (c *Client) subject(name string) string {
	return c.prefix + "." + name
}

// GetServiceIdentity fetches the record for id.
func (c *Client) GetServiceIdentity(ctx context.Context, id string) (*identity.ServiceIdentity, bool, error) {
	si, err := natsutil.Request[*identity.ServiceIdentity](ctx, c.requester, c.subject(subjectGet), GetRequest{ID: id})
	if err != nil {
		return nil, false, err
	}

	return si, si != nil, nil
}

// ServiceIdentities pages through the records in scope of the device.
func (c *Client) ServiceIdentities(context.Context) devicescope.Iterator {
	return &iterator{client: c, more: true}
}

type iterator struct {
	client *Client
	cursor string
	more   bool
}

func (it *iterator) HasNext() bool { return it.more }

func (it *iterator) GetNext(ctx context.Context) ([]*identity.ServiceIdentity, error) {
	c := it.client

	page, err := natsutil.Request[Page](ctx, c.requester, c.subject(subjectPage), PageRequest{
		DeviceID: c.deviceID,
		Cursor:   it.cursor,
		Limit:    c.pageSize,
	})
	if err != nil {
		return nil, err
	}

	it.cursor = page.NextCursor
	it.more = page.NextCursor != ""

	return page.Identities, nil
}

// GetModuleIdentities returns the identities of the desired modules and
// retires the identities of modules that are no longer desired.
func (c *Client) GetModuleIdentities(ctx context.Context, desired, current module.Set) (map[string]module.ModuleIdentity, error) {
	req := IdentitiesRequest{DeviceID: c.deviceID, Modules: desired.Names()}

	for _, name := range current.Names() {
		if _, ok := desired.Get(name); !ok {
			req.Removed = append(req.Removed, name)
		}
	}

	ids, err := natsutil.Request[map[string]module.ModuleIdentity](ctx, c.requester, c.subject(subjectIdentities), req)
	if err != nil {
		return nil, err
	}

	if len(req.Removed) > 0 {
		c.logger.Info().Strs("modules", req.Removed).Msg("Retired module identities")
	}

	return ids, nil
}
