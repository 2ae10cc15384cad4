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

// Package configsource reads published deployments from the key/value
// store or from a file.
package configsource

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/carverauto/edgecore/pkg/deployment"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
)

// DefaultKey is the key deployments are published under.
const DefaultKey = "deployments/desired"

var errWatchUnsupported = errors.New("store does not support watches")

// KVSource reads the deployment stored under one key.
type KVSource struct {
	store  kv.Store
	key    string
	logger logger.Logger
}

// NewKVSource returns a KVSource reading key, or DefaultKey when key is empty.
func NewKVSource(store kv.Store, key string, log logger.Logger) *KVSource {
	if key == "" {
		key = DefaultKey
	}

	return &KVSource{store: store, key: key, logger: log}
}

// GetDeploymentConfigInfo returns the published deployment. A missing key
// is deployment.ErrConfigEmpty.
func (s *KVSource) GetDeploymentConfigInfo(ctx context.Context) (*deployment.ConfigInfo, error) {
	data, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}

	if !found {
		return nil, deployment.ErrConfigEmpty
	}

	return deployment.Parse(data)
}

// Watch calls onChange every time the deployment key changes until ctx is
// canceled. It fails when the store cannot stream changes.
func (s *KVSource) Watch(ctx context.Context, onChange func()) error {
	w, ok := s.store.(kv.Watcher)
	if !ok {
		return errWatchUnsupported
	}

	ch, err := w.Watch(ctx, s.key)
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.key, err)
	}

	go func() {
		for range ch {
			s.logger.Debug().Str("key", s.key).Msg("Deployment changed")
			onChange()
		}
	}()

	return nil
}

// FileSource reads the deployment from a JSON file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// GetDeploymentConfigInfo reads and parses the file. A missing file is
// deployment.ErrConfigEmpty.
func (s *FileSource) GetDeploymentConfigInfo(context.Context) (*deployment.ConfigInfo, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, deployment.ErrConfigEmpty
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return deployment.Parse(data)
}
