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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/edgecore/pkg/agent"
	"github.com/carverauto/edgecore/pkg/config"
	"github.com/carverauto/edgecore/pkg/configsource"
	"github.com/carverauto/edgecore/pkg/directory"
	"github.com/carverauto/edgecore/pkg/encryption"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/lifecycle"
	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/natsutil"
	"github.com/carverauto/edgecore/pkg/plan"
	"github.com/carverauto/edgecore/pkg/planner"
	"github.com/carverauto/edgecore/pkg/reporter"
	"github.com/carverauto/edgecore/pkg/restart"
	"github.com/carverauto/edgecore/pkg/runtime"
	"github.com/carverauto/edgecore/pkg/suspend"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/edgecore/edge-agent.json", "Path to edge agent config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cfg agent.Config
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := lifecycle.InitializeLogger(cfg.Logging); err != nil {
		return err
	}

	agentLogger, err := lifecycle.CreateComponentLogger("edge-agent", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := kv.OpenBadger(&cfg.Storage, agentLogger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	go kv.RunValueLogGC(ctx, db, time.Duration(cfg.Storage.GCInterval), cfg.Storage.GCDiscardRatio, agentLogger)

	nc, err := natsutil.Connect(&cfg.NATS, "edge-agent-"+cfg.DeviceID, agentLogger)
	if err != nil {
		return err
	}
	defer nc.Close()

	sealer, err := encryption.LoadOrCreate(cfg.KeyFile)
	if err != nil {
		return err
	}

	source, watch, err := deploymentSource(ctx, nc, &cfg, agentLogger)
	if err != nil {
		return err
	}

	publisher, err := natsutil.CreateEventPublisher(ctx, nc, cfg.NATS.Domain, cfg.Events.StreamName, cfg.Events.Subjects, agentLogger)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.NATS.Timeout)
	prefix := cfg.NATS.SubjectPrefix

	rt := runtime.NewClient(nc, prefix+".runtime", timeout, agentLogger)
	dir := directory.NewClient(nc, prefix+".directory", cfg.DeviceID, timeout, agentLogger)

	runner, err := plan.NewOrderedRetryRunner(cfg.RetryConfig(), nil, agentLogger)
	if err != nil {
		return err
	}

	edgeAgent, err := agent.New(ctx, agent.Dependencies{
		ConfigSource: source,
		Environments: runtime.NewProvider(rt, cfg.RuntimeType),
		Planner:      planner.NewOrderedPlanner(runtime.NewCommandFactory(rt), restart.NewManager(cfg.RestartConfig(), nil), agentLogger),
		Runner:       runner,
		Reporter:     reporter.New(publisher, "edge-agent/"+cfg.DeviceID, agentLogger),
		Identities:   dir,
		Encryption:   sealer,
		Store:        kv.NewBadgerStore(db, "agent"),
	}, agentLogger)
	if err != nil {
		return err
	}

	gate := suspend.NewManager(time.Duration(cfg.SuspendTimeout), nil, agentLogger)

	subs, err := suspend.Serve(nc, prefix+".agent."+cfg.DeviceID, gate)
	if err != nil {
		return err
	}

	defer func() {
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
	}()

	loop, err := agent.NewLoop(edgeAgent, gate, time.Duration(cfg.ReconcileInterval), nil, agentLogger)
	if err != nil {
		return err
	}

	if watch != nil {
		if err := watch(ctx, loop.Trigger); err != nil {
			agentLogger.Warn().Err(err).Msg("Deployment watch unavailable, relying on the reconcile interval")
		}
	}

	return lifecycle.Run(ctx, &lifecycle.RunOptions{
		Services:   []lifecycle.Service{loop},
		Logger:     agentLogger,
		OnShutdown: edgeAgent.HandleShutdown,
	})
}

type watchFunc func(ctx context.Context, onChange func()) error

func deploymentSource(ctx context.Context, nc *nats.Conn, cfg *agent.Config, log logger.Logger) (agent.ConfigSource, watchFunc, error) {
	if cfg.DeploymentFile != "" {
		return configsource.NewFileSource(cfg.DeploymentFile), nil, nil
	}

	store, err := kv.NewNatsStore(ctx, nc, cfg.NATS.Domain, kv.NatsConfig{Bucket: cfg.DeploymentBucket}, log)
	if err != nil {
		return nil, nil, err
	}

	src := configsource.NewKVSource(store, cfg.DeploymentKey, log)

	return src, src.Watch, nil
}
