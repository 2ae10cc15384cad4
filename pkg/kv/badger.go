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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

const (
	defaultGCInterval     = 5 * time.Minute
	defaultGCDiscardRatio = 0.5
)

// BadgerConfig configures the embedded database shared by the local stores.
type BadgerConfig struct {
	Path           string          `json:"path"`
	InMemory       bool            `json:"in_memory"`
	SyncWrites     bool            `json:"sync_writes"`
	GCInterval     models.Duration `json:"gc_interval"`
	GCDiscardRatio float64         `json:"gc_discard_ratio" validate:"gte=0,lte=1"`
}

// Validate checks the configuration and fills in defaults.
func (c *BadgerConfig) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errPathRequired
	}

	if c.GCInterval == 0 {
		c.GCInterval = models.Duration(defaultGCInterval)
	}

	if c.GCDiscardRatio == 0 {
		c.GCDiscardRatio = defaultGCDiscardRatio
	}

	return nil
}

type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}

// OpenBadger opens the database described by cfg. The caller owns the
// returned handle and must close it after every store built on it.
func OpenBadger(cfg *BadgerConfig, log logger.Logger) (*badger.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts badger.Options

	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}

		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if log != nil {
		opts = opts.WithLogger(&badgerLogger{log: log})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return db, nil
}

// RunValueLogGC triggers value log garbage collection every interval until
// ctx is canceled.
func RunValueLogGC(ctx context.Context, db *badger.DB, interval time.Duration, ratio float64, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := db.RunValueLogGC(ratio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
				log.Warn().Err(err).Msg("Badger value log GC failed")
			}
		}
	}
}

// BadgerStore is a Store over one key namespace of a shared badger database.
type BadgerStore struct {
	db     *badger.DB
	prefix []byte
}

// NewBadgerStore returns a store whose keys live under namespace.
// Closing the store leaves db open.
func NewBadgerStore(db *badger.DB, namespace string) *BadgerStore {
	return &BadgerStore{db: db, prefix: []byte(namespace + "/")}
}

func (s *BadgerStore) key(key string) []byte {
	out := make([]byte, 0, len(s.prefix)+len(key))
	out = append(out, s.prefix...)

	return append(out, key...)
}

func (s *BadgerStore) Get(_ context.Context, key string) (value []byte, found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(s.key(key))
		if errors.Is(getErr, badger.ErrKeyNotFound) {
			return nil
		}

		if getErr != nil {
			return getErr
		}

		found = true
		value, getErr = item.ValueCopy(nil)

		return getErr
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return value, found, nil
}

func (s *BadgerStore) Put(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (s *BadgerStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

type entry struct {
	key   string
	value []byte
}

// IterateBatch reads each batch in its own read transaction so visit runs
// outside any transaction and may write back to the store.
func (s *BadgerStore) IterateBatch(ctx context.Context, batchSize int, visit func(key string, value []byte) error) error {
	if batchSize <= 0 {
		return ErrInvalidBatchSize
	}

	var after []byte

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := s.loadBatch(after, batchSize)
		if err != nil {
			return fmt.Errorf("failed to iterate store: %w", err)
		}

		for _, e := range batch {
			if err := visit(e.key, e.value); err != nil {
				return err
			}
		}

		if len(batch) < batchSize {
			return nil
		}

		after = s.key(batch[len(batch)-1].key)
	}
}

func (s *BadgerStore) loadBatch(after []byte, n int) ([]entry, error) {
	out := make([]entry, 0, n)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.prefix
		opts.PrefetchSize = n

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := s.prefix
		if after != nil {
			seek = after
		}

		for it.Seek(seek); it.ValidForPrefix(s.prefix) && len(out) < n; it.Next() {
			item := it.Item()
			if after != nil && bytes.Equal(item.Key(), after) {
				continue
			}

			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			out = append(out, entry{
				key:   string(item.Key()[len(s.prefix):]),
				value: value,
			})
		}

		return nil
	})

	return out, err
}

func (*BadgerStore) Close() error {
	return nil
}

var _ Store = (*BadgerStore)(nil)
