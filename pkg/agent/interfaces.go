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

package agent

import (
	"context"

	"github.com/carverauto/edgecore/pkg/deployment"
	"github.com/carverauto/edgecore/pkg/module"
	"github.com/carverauto/edgecore/pkg/plan"
)

//go:generate mockgen -destination=mock_agent.go -package=agent github.com/carverauto/edgecore/pkg/agent ConfigSource,Environment,EnvironmentProvider,Planner,PlanRunner,Reporter,EncryptionProvider,ModuleIdentityLifecycleManager

// ConfigSource returns the deployment the agent should converge on.
type ConfigSource interface {
	// GetDeploymentConfigInfo fails with deployment.ErrConfigEmpty,
	// deployment.ErrConfigFormat or deployment.ErrInvalidSchemaVersion for
	// known bad deployments.
	GetDeploymentConfigInfo(ctx context.Context) (*deployment.ConfigInfo, error)
}

// Environment is a view of the module runtime.
type Environment interface {
	GetModules(ctx context.Context) (module.Set, error)
	GetRuntimeInfo(ctx context.Context) (*module.RuntimeInfo, error)
}

// EnvironmentProvider opens the runtime a deployment asks for.
type EnvironmentProvider interface {
	Create(ctx context.Context, cfg *deployment.Config) (Environment, error)
}

// Planner computes the commands that converge the runtime.
type Planner interface {
	Plan(ctx context.Context, desired, current module.Set, runtime *module.RuntimeInfo, identities map[string]module.ModuleIdentity) (*plan.Plan, error)
	CreateShutdownPlan(ctx context.Context, current module.Set) (*plan.Plan, error)
}

// PlanRunner executes plans. version identifies the deployment the plan
// was computed for.
type PlanRunner interface {
	Execute(ctx context.Context, version int64, p *plan.Plan) error
}

// Reporter publishes the outcome of reconcile cycles.
type Reporter interface {
	Report(ctx context.Context, current module.Set, runtime *module.RuntimeInfo, version int64, status deployment.Status) error
	ReportShutdown(ctx context.Context, status deployment.Status) error
}

// EncryptionProvider protects the deployment persisted on disk.
type EncryptionProvider interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// ModuleIdentityLifecycleManager issues identities for desired modules and
// retires those of removed ones.
type ModuleIdentityLifecycleManager interface {
	GetModuleIdentities(ctx context.Context, desired, current module.Set) (map[string]module.ModuleIdentity, error)
}
