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

package kv

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/edgecore/pkg/logger"
)

// NatsConfig selects the JetStream key/value bucket backing a NatsStore.
type NatsConfig struct {
	Bucket  string        `json:"bucket"`
	History uint8         `json:"history,omitempty"`
	TTL     time.Duration `json:"-"`
}

// NatsStore is a Store over a JetStream key/value bucket.
type NatsStore struct {
	kv     jetstream.KeyValue
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger
}

// NewNatsStore binds to (creating when needed) the configured bucket on nc.
// The connection stays owned by the caller.
func NewNatsStore(ctx context.Context, nc *nats.Conn, domain string, cfg NatsConfig, log logger.Logger) (*NatsStore, error) {
	if cfg.Bucket == "" {
		return nil, errBucketRequired
	}

	var (
		js  jetstream.JetStream
		err error
	)

	if domain != "" {
		js, err = jetstream.NewWithDomain(nc, domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	config := jetstream.KeyValueConfig{
		Bucket:  cfg.Bucket,
		History: max(cfg.History, 1),
	}

	if cfg.TTL > 0 {
		config.TTL = cfg.TTL
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create KV bucket: %w", err)
	}

	storeCtx, cancel := context.WithCancel(context.Background())

	return &NatsStore{
		kv:     kv,
		ctx:    storeCtx,
		cancel: cancel,
		log:    log,
	}, nil
}

func (n *NatsStore) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	var entry jetstream.KeyValueEntry

	entry, err = n.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return entry.Value(), true, nil
}

func (n *NatsStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	if _, err := n.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

// IterateBatch lists the bucket's keys once, then fetches values batchSize at a time.
func (n *NatsStore) IterateBatch(ctx context.Context, batchSize int, visit func(key string, value []byte) error) error {
	if batchSize <= 0 {
		return ErrInvalidBatchSize
	}

	keys, err := n.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	slices.Sort(keys)

	for chunk := range slices.Chunk(keys, batchSize) {
		for _, key := range chunk {
			value, found, err := n.Get(ctx, key)
			if err != nil {
				return err
			}

			if !found {
				continue
			}

			if err := visit(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

func (n *NatsStore) Watch(ctx context.Context, key string) (<-chan []byte, error) {
	watcher, err := n.kv.Watch(ctx, key, jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to watch key %s: %w", key, err)
	}

	ch := make(chan []byte, 1)
	go n.handleWatchUpdates(ctx, key, watcher, ch)

	return ch, nil
}

// handleWatchUpdates processes updates from the watcher and sends them to the channel.
func (n *NatsStore) handleWatchUpdates(ctx context.Context, key string, watcher jetstream.KeyWatcher, ch chan<- []byte) {
	defer func() {
		if err := watcher.Stop(); err != nil {
			n.log.Warn().Err(err).Str("key", key).Msg("Failed to stop KV watcher")
		}

		close(ch)
	}()

	for {
		update, ok := n.waitForUpdate(ctx, watcher)
		if !ok {
			return
		}

		var value []byte
		if update.Operation() == jetstream.KeyValuePut {
			value = update.Value()
		}

		if !n.sendUpdate(ctx, ch, value) {
			return
		}
	}
}

// waitForUpdate waits for the next update or context cancellation.
func (n *NatsStore) waitForUpdate(ctx context.Context, watcher jetstream.KeyWatcher) (jetstream.KeyValueEntry, bool) {
	for {
		select {
		case <-ctx.Done():
			return nil, false
		case <-n.ctx.Done():
			return nil, false
		case update, ok := <-watcher.Updates():
			if !ok {
				return nil, false
			}

			// nil marks the end of the initial values; UpdatesOnly makes it rare.
			if update == nil {
				continue
			}

			return update, true
		}
	}
}

// sendUpdate attempts to send the value to the channel, respecting context cancellation.
func (n *NatsStore) sendUpdate(ctx context.Context, ch chan<- []byte, value []byte) bool {
	select {
	case ch <- value:
		return true
	case <-ctx.Done():
		return false
	case <-n.ctx.Done():
		return false
	}
}

func (n *NatsStore) Close() error {
	n.cancel()

	return nil
}

var (
	_ Store   = (*NatsStore)(nil)
	_ Watcher = (*NatsStore)(nil)
)
