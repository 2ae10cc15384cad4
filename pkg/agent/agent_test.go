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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/edgecore/pkg/deployment"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/module"
	"github.com/carverauto/edgecore/pkg/plan"
)

type harness struct {
	source     *MockConfigSource
	envs       *MockEnvironmentProvider
	env        *MockEnvironment
	planner    *MockPlanner
	runner     *MockPlanRunner
	reporter   *MockReporter
	identities *MockModuleIdentityLifecycleManager
	encryption *MockEncryptionProvider
	store      *kv.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := &harness{
		source:     NewMockConfigSource(ctrl),
		envs:       NewMockEnvironmentProvider(ctrl),
		env:        NewMockEnvironment(ctrl),
		planner:    NewMockPlanner(ctrl),
		runner:     NewMockPlanRunner(ctrl),
		reporter:   NewMockReporter(ctrl),
		identities: NewMockModuleIdentityLifecycleManager(ctrl),
		encryption: NewMockEncryptionProvider(ctrl),
		store:      kv.NewMemoryStore(),
	}

	passthrough := func(_ context.Context, data []byte) ([]byte, error) { return data, nil }
	h.encryption.EXPECT().Encrypt(gomock.Any(), gomock.Any()).DoAndReturn(passthrough).AnyTimes()
	h.encryption.EXPECT().Decrypt(gomock.Any(), gomock.Any()).DoAndReturn(passthrough).AnyTimes()

	return h
}

func (h *harness) deps() Dependencies {
	return Dependencies{
		ConfigSource: h.source,
		Environments: h.envs,
		Planner:      h.planner,
		Runner:       h.runner,
		Reporter:     h.reporter,
		Identities:   h.identities,
		Encryption:   h.encryption,
		Store:        h.store,
	}
}

func (h *harness) agent(t *testing.T) *Agent {
	t.Helper()

	a, err := New(context.Background(), h.deps(), logger.NewTestLogger())
	require.NoError(t, err)

	return a
}

// expectRuntime wires the environment for a deployment that reached the runtime.
func (h *harness) expectRuntime(current module.Set, info *module.RuntimeInfo) {
	h.envs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(h.env, nil)
	h.env.EXPECT().GetModules(gomock.Any()).Return(current, nil).AnyTimes()
	h.env.EXPECT().GetRuntimeInfo(gomock.Any()).Return(info, nil)
	h.identities.EXPECT().GetModuleIdentities(gomock.Any(), gomock.Any(), gomock.Any()).Return(map[string]module.ModuleIdentity{}, nil)
}

type statusCode deployment.StatusCode

func (c statusCode) Matches(x any) bool {
	s, ok := x.(deployment.Status)
	return ok && s.Code == deployment.StatusCode(c)
}

func (c statusCode) String() string {
	return "has status " + deployment.StatusCode(c).String()
}

func sampleDeployment(version int64) *deployment.ConfigInfo {
	return &deployment.ConfigInfo{
		Version: version,
		Config: &deployment.Config{
			SchemaVersion: deployment.SchemaVersion,
			Runtime:       deployment.RuntimeConfig{Type: "docker"},
			SystemModules: deployment.SystemModules{
				EdgeAgent: &module.Module{Type: "docker", Image: "agent:1"},
				EdgeHub:   &module.Module{Type: "docker", Image: "hub:1"},
			},
		},
	}
}

type noopCommand struct{}

func (noopCommand) ID() string                    { return "noop" }
func (noopCommand) Show() string                  { return "noop" }
func (noopCommand) Execute(context.Context) error { return nil }
func (noopCommand) Undo(context.Context) error    { return nil }

func TestReconcileConfigEmptySkipsPlanning(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	h.source.EXPECT().GetDeploymentConfigInfo(gomock.Any()).Return(nil, deployment.ErrConfigEmpty)
	h.reporter.EXPECT().
		Report(gomock.Any(), gomock.Any(), gomock.Nil(), int64(0), statusCode(deployment.StatusConfigEmptyError)).
		Return(nil)

	err := a.Reconcile(context.Background())
	require.ErrorIs(t, err, deployment.ErrConfigEmpty)
}

func TestReconcileEmptyPlanReportsOnce(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	current := module.NewSet(&module.Module{Name: module.EdgeHubName, Type: "docker", Image: "hub:1"})
	runtimeInfo := &module.RuntimeInfo{Type: "docker"}

	h.source.EXPECT().GetDeploymentConfigInfo(gomock.Any()).Return(sampleDeployment(4), nil)
	h.expectRuntime(current, runtimeInfo)
	h.planner.EXPECT().Plan(gomock.Any(), gomock.Any(), current, runtimeInfo, gomock.Any()).Return(plan.New(), nil)
	h.reporter.EXPECT().
		Report(gomock.Any(), current, runtimeInfo, int64(4), statusCode(deployment.StatusSuccessful)).
		Return(nil).
		Times(1)

	require.NoError(t, a.Reconcile(context.Background()))
	assert.Equal(t, int64(4), a.CurrentVersion())

	_, found, err := h.store.Get(context.Background(), DeploymentKey)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestReconcileExecutesPlan(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	p := plan.New(noopCommand{})

	h.source.EXPECT().GetDeploymentConfigInfo(gomock.Any()).Return(sampleDeployment(9), nil)
	h.expectRuntime(module.NewSet(), &module.RuntimeInfo{Type: "docker"})
	h.planner.EXPECT().Plan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(p, nil)
	h.runner.EXPECT().Execute(gomock.Any(), int64(9), p).Return(&plan.ExecutionError{})

	// execution failures are logged, not reported
	h.reporter.EXPECT().
		Report(gomock.Any(), gomock.Any(), gomock.Any(), int64(9), statusCode(deployment.StatusSuccessful)).
		Return(nil)

	require.NoError(t, a.Reconcile(context.Background()))
}

func TestReconcilePlanFailureKeepsVersion(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	h.source.EXPECT().GetDeploymentConfigInfo(gomock.Any()).Return(sampleDeployment(2), nil)
	h.expectRuntime(module.NewSet(), &module.RuntimeInfo{})
	h.planner.EXPECT().Plan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("cycle"))
	h.reporter.EXPECT().
		Report(gomock.Any(), gomock.Any(), gomock.Any(), int64(2), statusCode(deployment.StatusFailed)).
		Return(nil)

	require.Error(t, a.Reconcile(context.Background()))
	assert.Zero(t, a.CurrentVersion())
}

func TestReconcileRuntimeFailure(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	h.source.EXPECT().GetDeploymentConfigInfo(gomock.Any()).Return(sampleDeployment(3), nil)
	h.envs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(h.env, nil)
	h.env.EXPECT().GetModules(gomock.Any()).Return(module.Set{}, errors.New("runtime down"))
	h.reporter.EXPECT().
		Report(gomock.Any(), module.Set{}, gomock.Nil(), int64(3), statusCode(deployment.StatusFailed)).
		Return(nil)

	require.Error(t, a.Reconcile(context.Background()))
	assert.Zero(t, a.CurrentVersion())
}

func TestReconcileEncryptionFailureStillExecutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t)

	failing := NewMockEncryptionProvider(ctrl)
	failing.EXPECT().Encrypt(gomock.Any(), gomock.Any()).Return(nil, errors.New("no key"))

	deps := h.deps()
	deps.Encryption = failing

	a, err := New(context.Background(), deps, logger.NewTestLogger())
	require.NoError(t, err)

	p := plan.New(noopCommand{})

	h.source.EXPECT().GetDeploymentConfigInfo(gomock.Any()).Return(sampleDeployment(5), nil)
	h.expectRuntime(module.NewSet(), &module.RuntimeInfo{})
	h.planner.EXPECT().Plan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(p, nil)
	h.runner.EXPECT().Execute(gomock.Any(), int64(5), p).Return(nil)
	h.reporter.EXPECT().
		Report(gomock.Any(), gomock.Any(), gomock.Any(), int64(5), statusCode(deployment.StatusFailed)).
		Return(nil)

	require.NoError(t, a.Reconcile(context.Background()))
}

func TestNewLoadsPersistedDeployment(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	h.source.EXPECT().GetDeploymentConfigInfo(gomock.Any()).Return(sampleDeployment(11), nil)
	h.expectRuntime(module.NewSet(), &module.RuntimeInfo{})
	h.planner.EXPECT().Plan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(plan.New(), nil)
	h.reporter.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, a.Reconcile(context.Background()))

	restarted := h.agent(t)
	assert.Equal(t, int64(11), restarted.CurrentVersion())
}

func TestNewToleratesUnreadableDeployment(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t)

	require.NoError(t, h.store.Put(context.Background(), DeploymentKey, []byte("sealed")))

	broken := NewMockEncryptionProvider(ctrl)
	broken.EXPECT().Decrypt(gomock.Any(), []byte("sealed")).Return(nil, errors.New("key rotated"))

	deps := h.deps()
	deps.Encryption = broken

	a, err := New(context.Background(), deps, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Zero(t, a.CurrentVersion())
}

func TestNewRequiresDependencies(t *testing.T) {
	h := newHarness(t)

	deps := h.deps()
	deps.Reporter = nil

	_, err := New(context.Background(), deps, logger.NewTestLogger())
	require.ErrorIs(t, err, errMissingDependency)
}

func TestHandleShutdown(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	current := module.NewSet(&module.Module{
		Name:    "sensor",
		Type:    "docker",
		Image:   "sensor:1",
		Runtime: &module.RuntimeState{Status: module.StatusRunning},
	})

	h.source.EXPECT().GetDeploymentConfigInfo(gomock.Any()).Return(sampleDeployment(6), nil)
	h.expectRuntime(current, &module.RuntimeInfo{})
	h.planner.EXPECT().Plan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(plan.New(), nil)
	h.reporter.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, a.Reconcile(context.Background()))

	shutdown := plan.New(noopCommand{})

	h.planner.EXPECT().CreateShutdownPlan(gomock.Any(), current).Return(shutdown, nil)
	h.runner.EXPECT().Execute(gomock.Any(), int64(6), shutdown).Return(nil)
	h.reporter.EXPECT().ReportShutdown(gomock.Any(), statusCode(deployment.StatusSuccessful)).Return(nil)

	require.NoError(t, a.HandleShutdown(context.Background()))
}

func TestHandleShutdownReportsFailure(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	shutdown := plan.New(noopCommand{})

	h.planner.EXPECT().CreateShutdownPlan(gomock.Any(), gomock.Any()).Return(shutdown, nil)
	h.runner.EXPECT().Execute(gomock.Any(), int64(0), shutdown).Return(errors.New("stop timed out"))
	h.reporter.EXPECT().ReportShutdown(gomock.Any(), statusCode(deployment.StatusFailed)).Return(nil)

	require.Error(t, a.HandleShutdown(context.Background()))
}
