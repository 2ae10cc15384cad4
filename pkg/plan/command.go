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

// Package plan holds the commands the agent runs to converge the runtime on
// a deployment and the runners that execute them.
package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/carverauto/edgecore/pkg/module"
)

// Command is one step of a plan. ID must be stable across plans so the
// retry runner can track failures of the same step between cycles.
type Command interface {
	ID() string
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
	Show() string
}

// CommandFactory builds runtime commands for modules.
type CommandFactory interface {
	Create(m *module.Module, id *module.ModuleIdentity) Command
	Update(current, desired *module.Module, id *module.ModuleIdentity) Command
	Remove(m *module.Module) Command
	Start(m *module.Module) Command
	Stop(m *module.Module) Command
	Restart(m *module.Module) Command
}

// Plan is an ordered list of commands.
type Plan struct {
	Commands []Command
}

// New returns a plan running cmds in order.
func New(cmds ...Command) *Plan {
	return &Plan{Commands: cmds}
}

// IsEmpty reports whether the plan has nothing to run.
func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.Commands) == 0
}

func (p *Plan) String() string {
	if p.IsEmpty() {
		return "(empty plan)"
	}

	parts := make([]string, 0, len(p.Commands))
	for _, c := range p.Commands {
		parts = append(parts, c.Show())
	}

	return strings.Join(parts, "; ")
}

// Group runs several commands as one. Execution stops at the first error;
// Undo runs in reverse order.
type Group struct {
	id   string
	cmds []Command
}

// NewGroup returns a command running cmds in order under id.
func NewGroup(id string, cmds ...Command) *Group {
	return &Group{id: id, cmds: cmds}
}

func (g *Group) ID() string { return g.id }

func (g *Group) Execute(ctx context.Context) error {
	for _, c := range g.cmds {
		if err := c.Execute(ctx); err != nil {
			return fmt.Errorf("%s: %w", c.Show(), err)
		}
	}

	return nil
}

func (g *Group) Undo(ctx context.Context) error {
	for i := len(g.cmds) - 1; i >= 0; i-- {
		if err := g.cmds[i].Undo(ctx); err != nil {
			return fmt.Errorf("%s: %w", g.cmds[i].Show(), err)
		}
	}

	return nil
}

func (g *Group) Show() string {
	parts := make([]string, 0, len(g.cmds))
	for _, c := range g.cmds {
		parts = append(parts, c.Show())
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
