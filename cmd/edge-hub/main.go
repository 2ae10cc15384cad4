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

	"github.com/carverauto/edgecore/pkg/config"
	"github.com/carverauto/edgecore/pkg/hub"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/lifecycle"
	"github.com/carverauto/edgecore/pkg/natsutil"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/edgecore/edge-hub.json", "Path to edge hub config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cfg hub.Config
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := lifecycle.InitializeLogger(cfg.Logging); err != nil {
		return err
	}

	hubLogger, err := lifecycle.CreateComponentLogger("edge-hub", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := kv.OpenBadger(&cfg.Storage, hubLogger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	go kv.RunValueLogGC(ctx, db, time.Duration(cfg.Storage.GCInterval), cfg.Storage.GCDiscardRatio, hubLogger)

	nc, err := natsutil.Connect(&cfg.NATS, "edge-hub-"+cfg.DeviceID, hubLogger)
	if err != nil {
		return err
	}
	defer nc.Close()

	edgeHub, err := hub.New(ctx, &cfg, db, nc, hubLogger)
	if err != nil {
		return err
	}

	return lifecycle.Run(ctx, &lifecycle.RunOptions{
		Services:    edgeHub.Services(),
		StopTimeout: time.Duration(cfg.StopTimeout),
		Logger:      hubLogger,
	})
}
