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

// Package planner turns the difference between the desired and the running
// module sets into a plan.
package planner

import (
	"cmp"
	"context"
	"slices"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/module"
	"github.com/carverauto/edgecore/pkg/plan"
)

// RestartPolicy picks the running modules that are due for a restart.
type RestartPolicy interface {
	ApplyRestartPolicy(mods []*module.Module) []*module.Module
}

// OrderedPlanner removes modules first, then creates or updates modules in
// startup order, then restarts unchanged modules that are due.
type OrderedPlanner struct {
	factory plan.CommandFactory
	restart RestartPolicy
	logger  logger.Logger
}

// NewOrderedPlanner returns an OrderedPlanner.
func NewOrderedPlanner(factory plan.CommandFactory, restart RestartPolicy, log logger.Logger) *OrderedPlanner {
	return &OrderedPlanner{factory: factory, restart: restart, logger: log}
}

// Plan returns the commands that move current to desired.
func (p *OrderedPlanner) Plan(
	_ context.Context,
	desired, current module.Set,
	_ *module.RuntimeInfo,
	identities map[string]module.ModuleIdentity,
) (*plan.Plan, error) {
	diff := desired.Diff(current)

	var cmds []plan.Command

	for _, name := range diff.Removed {
		m, _ := current.Get(name)
		cmds = append(cmds, p.factory.Stop(m), p.factory.Remove(m))
	}

	changed := make(map[string]bool, len(diff.Updated))

	for _, m := range byStartupOrder(diff.Updated) {
		changed[m.Name] = true
		id := identityFor(identities, m.Name)

		if cur, ok := current.Get(m.Name); ok {
			cmds = append(cmds, p.factory.Update(cur, m, id))
		} else {
			cmds = append(cmds, p.factory.Create(m, id))
		}

		if m.WantsRunning() {
			cmds = append(cmds, p.factory.Start(m))
		}
	}

	var unchanged []*module.Module

	for _, m := range current.Modules() {
		if changed[m.Name] {
			continue
		}

		if want, ok := desired.Get(m.Name); ok && want.WantsRunning() {
			unchanged = append(unchanged, m)
		}
	}

	for _, m := range byStartupOrder(p.restart.ApplyRestartPolicy(unchanged)) {
		cmds = append(cmds, p.factory.Restart(m))
	}

	out := plan.New(cmds...)

	if !out.IsEmpty() {
		p.logger.Debug().Str("plan", out.String()).Msg("Planned deployment")
	}

	return out, nil
}

// CreateShutdownPlan stops every running module except the agent itself,
// in reverse startup order.
func (p *OrderedPlanner) CreateShutdownPlan(_ context.Context, current module.Set) (*plan.Plan, error) {
	var running []*module.Module

	for _, m := range current.Modules() {
		if m.Name != module.EdgeAgentName && m.RuntimeStatus() == module.StatusRunning {
			running = append(running, m)
		}
	}

	running = byStartupOrder(running)
	slices.Reverse(running)

	cmds := make([]plan.Command, 0, len(running))
	for _, m := range running {
		cmds = append(cmds, p.factory.Stop(m))
	}

	return plan.New(cmds...), nil
}

func identityFor(identities map[string]module.ModuleIdentity, name string) *module.ModuleIdentity {
	id, ok := identities[name]
	if !ok {
		return nil
	}

	return &id
}

func byStartupOrder(mods []*module.Module) []*module.Module {
	out := slices.Clone(mods)

	slices.SortStableFunc(out, func(a, b *module.Module) int {
		return cmp.Or(cmp.Compare(a.StartupOrder, b.StartupOrder), cmp.Compare(a.Name, b.Name))
	})

	return out
}
