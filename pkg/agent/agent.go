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

// Package agent reconciles the module runtime with the published deployment.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/carverauto/edgecore/pkg/deployment"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/module"
)

// DeploymentKey is where the last applied deployment is persisted.
const DeploymentKey = "deployment/current"

// Dependencies are the collaborators of an Agent. All of them are required.
type Dependencies struct {
	ConfigSource ConfigSource
	Environments EnvironmentProvider
	Planner      Planner
	Runner       PlanRunner
	Reporter     Reporter
	Identities   ModuleIdentityLifecycleManager
	Encryption   EncryptionProvider
	Store        kv.Store
}

func (d *Dependencies) validate() error {
	switch {
	case d.ConfigSource == nil:
		return fmt.Errorf("%w: config source", errMissingDependency)
	case d.Environments == nil:
		return fmt.Errorf("%w: environment provider", errMissingDependency)
	case d.Planner == nil:
		return fmt.Errorf("%w: planner", errMissingDependency)
	case d.Runner == nil:
		return fmt.Errorf("%w: plan runner", errMissingDependency)
	case d.Reporter == nil:
		return fmt.Errorf("%w: reporter", errMissingDependency)
	case d.Identities == nil:
		return fmt.Errorf("%w: module identity manager", errMissingDependency)
	case d.Encryption == nil:
		return fmt.Errorf("%w: encryption provider", errMissingDependency)
	case d.Store == nil:
		return fmt.Errorf("%w: config store", errMissingDependency)
	}

	return nil
}

// Agent runs reconcile cycles. Cycles are serialized.
type Agent struct {
	deps   Dependencies
	logger logger.Logger

	mu          sync.Mutex
	current     deployment.ConfigInfo
	lastModules module.Set
}

// New returns an Agent starting from the deployment persisted in the store.
// A persisted deployment that cannot be read is logged and ignored.
func New(ctx context.Context, deps Dependencies, log logger.Logger) (*Agent, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	a := &Agent{deps: deps, logger: log, current: deployment.Empty}

	info, err := a.loadPersisted(ctx)

	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Ignoring persisted deployment")
	case info != nil:
		a.current = *info
		log.Info().Int64("version", info.Version).Msg("Loaded persisted deployment")
	}

	return a, nil
}

// CurrentVersion returns the version of the last deployment that was planned.
func (a *Agent) CurrentVersion() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.current.Version
}

// Reconcile runs one cycle: fetch the deployment, read the runtime, plan,
// persist, execute and report. Exactly one report is sent per cycle. The
// returned error is the one that aborted the cycle.
func (a *Agent) Reconcile(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	version := a.current.Version

	info, err := a.deps.ConfigSource.GetDeploymentConfigInfo(ctx)
	if err != nil {
		return a.abort(ctx, module.Set{}, nil, version, fmt.Errorf("fetch deployment: %w", err))
	}

	version = info.Version

	env, err := a.deps.Environments.Create(ctx, info.Config)
	if err != nil {
		return a.abort(ctx, module.Set{}, nil, version, fmt.Errorf("open runtime: %w", err))
	}

	current, err := env.GetModules(ctx)
	if err != nil {
		return a.abort(ctx, module.Set{}, nil, version, fmt.Errorf("list modules: %w", err))
	}

	a.lastModules = current

	runtimeInfo, err := env.GetRuntimeInfo(ctx)
	if err != nil {
		return a.abort(ctx, current, nil, version, fmt.Errorf("runtime info: %w", err))
	}

	desired := info.Config.ModuleSet()

	identities, err := a.deps.Identities.GetModuleIdentities(ctx, desired, current)
	if err != nil {
		return a.abort(ctx, current, runtimeInfo, version, fmt.Errorf("module identities: %w", err))
	}

	p, err := a.deps.Planner.Plan(ctx, desired, current, runtimeInfo, identities)
	if err != nil {
		return a.abort(ctx, current, runtimeInfo, version, fmt.Errorf("plan: %w", err))
	}

	status := deployment.Success

	if err := a.persist(ctx, info); err != nil {
		a.logger.Error().Err(err).Int64("version", version).Msg("Failed to persist deployment")
		status = deployment.StatusFromError(fmt.Errorf("persist deployment: %w", err))
	}

	a.current = *info

	if !p.IsEmpty() {
		if err := a.deps.Runner.Execute(ctx, version, p); err != nil {
			a.logger.Warn().Err(err).Int64("version", version).Msg("Plan execution reported failures")
		}

		if refreshed, err := env.GetModules(ctx); err == nil {
			current = refreshed
			a.lastModules = refreshed
		} else {
			a.logger.Warn().Err(err).Msg("Failed to read modules after plan execution")
		}
	}

	a.report(ctx, current, runtimeInfo, version, status)

	return nil
}

func (a *Agent) abort(ctx context.Context, current module.Set, runtimeInfo *module.RuntimeInfo, version int64, err error) error {
	a.logger.Error().Err(err).Int64("version", version).Msg("Reconcile cycle aborted")
	a.report(ctx, current, runtimeInfo, version, deployment.StatusFromError(err))

	return err
}

func (a *Agent) report(ctx context.Context, current module.Set, runtimeInfo *module.RuntimeInfo, version int64, status deployment.Status) {
	if err := a.deps.Reporter.Report(ctx, current, runtimeInfo, version, status); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to report deployment status")
	}
}

// HandleShutdown stops the modules the agent last saw running and reports
// the outcome.
func (a *Agent) HandleShutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	status := deployment.Success

	p, err := a.deps.Planner.CreateShutdownPlan(ctx, a.lastModules)

	switch {
	case err != nil:
		err = fmt.Errorf("shutdown plan: %w", err)
	case !p.IsEmpty():
		a.logger.Info().Int("commands", len(p.Commands)).Msg("Stopping modules")

		if execErr := a.deps.Runner.Execute(ctx, a.current.Version, p); execErr != nil {
			err = fmt.Errorf("shutdown: %w", execErr)
		}
	}

	if err != nil {
		a.logger.Error().Err(err).Msg("Shutdown did not complete cleanly")
		status = deployment.StatusFromError(err)
	}

	if reportErr := a.deps.Reporter.ReportShutdown(ctx, status); reportErr != nil {
		a.logger.Warn().Err(reportErr).Msg("Failed to report shutdown")
	}

	return err
}

func (a *Agent) persist(ctx context.Context, info *deployment.ConfigInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}

	sealed, err := a.deps.Encryption.Encrypt(ctx, data)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	return a.deps.Store.Put(ctx, DeploymentKey, sealed)
}

func (a *Agent) loadPersisted(ctx context.Context) (*deployment.ConfigInfo, error) {
	sealed, found, err := a.deps.Store.Get(ctx, DeploymentKey)
	if err != nil || !found {
		return nil, err
	}

	data, err := a.deps.Encryption.Decrypt(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	var info deployment.ConfigInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}

	return &info, nil
}
