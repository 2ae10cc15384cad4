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

	"github.com/carverauto/edgecore/pkg/module"
	"github.com/carverauto/edgecore/pkg/plan"
)

// Module lifecycle operations of the management API.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpRemove  = "remove"
	OpStart   = "start"
	OpStop    = "stop"
	OpRestart = "restart"
)

var undoOps = map[string]string{
	OpCreate: OpRemove,
	OpStart:  OpStop,
	OpStop:   OpStart,
}

type command struct {
	client   *Client
	op       string
	module   *module.Module
	identity *module.ModuleIdentity
}

func (c *command) ID() string { return c.op + ":" + c.module.Name }

func (c *command) Show() string {
	switch c.op {
	case OpCreate, OpUpdate:
		return fmt.Sprintf("%s %s (%s)", c.op, c.module.Name, c.module.Image)
	default:
		return c.op + " " + c.module.Name
	}
}

func (c *command) Execute(ctx context.Context) error {
	return c.client.send(ctx, c.op, c.module, c.identity)
}

func (c *command) Undo(ctx context.Context) error {
	op, ok := undoOps[c.op]
	if !ok {
		return nil
	}

	return c.client.send(ctx, op, c.module, nil)
}

func (c *Client) send(ctx context.Context, op string, m *module.Module, id *module.ModuleIdentity) error {
	_, err := call[struct{}](ctx, c, "modules."+op, ModuleRequest{Module: m, Identity: id})

	return err
}

// CommandFactory builds commands executed through the client.
type CommandFactory struct {
	client *Client
}

var _ plan.CommandFactory = (*CommandFactory)(nil)

func NewCommandFactory(client *Client) *CommandFactory {
	return &CommandFactory{client: client}
}

func (f *CommandFactory) command(op string, m *module.Module, id *module.ModuleIdentity) plan.Command {
	return &command{client: f.client, op: op, module: m.Clone(), identity: id}
}

func (f *CommandFactory) Create(m *module.Module, id *module.ModuleIdentity) plan.Command {
	return f.command(OpCreate, m, id)
}

// Update replaces current with desired. The runtime keeps the module's
// restart history.
func (f *CommandFactory) Update(_, desired *module.Module, id *module.ModuleIdentity) plan.Command {
	return f.command(OpUpdate, desired, id)
}

func (f *CommandFactory) Remove(m *module.Module) plan.Command  { return f.command(OpRemove, m, nil) }
func (f *CommandFactory) Start(m *module.Module) plan.Command   { return f.command(OpStart, m, nil) }
func (f *CommandFactory) Stop(m *module.Module) plan.Command    { return f.command(OpStop, m, nil) }
func (f *CommandFactory) Restart(m *module.Module) plan.Command { return f.command(OpRestart, m, nil) }
