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

// Package credentials remembers the last credentials each client
// authenticated with so that connections can be re-validated without the
// client presenting its secret again.
package credentials

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"sync"

	"github.com/carverauto/edgecore/pkg/identity"
	"github.com/carverauto/edgecore/pkg/kv"
	"github.com/carverauto/edgecore/pkg/logger"
)

var errUnknownKind = errors.New("unknown credentials kind")

// Cache is an in-memory map of credentials mirrored to a persistent store.
type Cache struct {
	mu    sync.RWMutex
	items map[string]identity.Credentials
	store *kv.EntityStore[record]
	log   logger.Logger
}

type record struct {
	Kind        identity.Kind     `json:"kind"`
	Identity    identity.Identity `json:"identity"`
	Token       string            `json:"token,omitempty"`
	IsUpdatable bool              `json:"is_updatable,omitempty"`
	ProductInfo string            `json:"product_info,omitempty"`
	ModelID     string            `json:"model_id,omitempty"`
	AuthChain   string            `json:"auth_chain,omitempty"`
	Certificate []byte            `json:"certificate,omitempty"`
	Chain       [][]byte          `json:"chain,omitempty"`
}

func NewCache(store kv.Store, log logger.Logger) *Cache {
	return &Cache{
		items: make(map[string]identity.Credentials),
		store: kv.NewEntityStore[record](store),
		log:   log,
	}
}

// Add records creds as the latest credentials for their identity.
func (c *Cache) Add(ctx context.Context, creds identity.Credentials) error {
	id := creds.GetIdentity().ID

	c.mu.Lock()
	c.items[id] = creds
	c.mu.Unlock()

	rec, err := toRecord(creds)
	if err != nil {
		return err
	}

	if err := c.store.Put(ctx, id, rec); err != nil {
		return fmt.Errorf("failed to persist credentials for %s: %w", id, err)
	}

	return nil
}

// Get returns the cached credentials, reading through to the store after a restart.
func (c *Cache) Get(ctx context.Context, id identity.Identity) (identity.Credentials, bool, error) {
	c.mu.RLock()
	creds, ok := c.items[id.ID]
	c.mu.RUnlock()

	if ok {
		return creds, true, nil
	}

	rec, found, err := c.store.Get(ctx, id.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load credentials for %s: %w", id.ID, err)
	}

	if !found {
		return nil, false, nil
	}

	creds, err = fromRecord(&rec)
	if err != nil {
		c.log.Warn().Err(err).Str("id", id.ID).Msg("Discarding unreadable cached credentials")

		return nil, false, nil
	}

	c.mu.Lock()
	c.items[id.ID] = creds
	c.mu.Unlock()

	return creds, true, nil
}

func toRecord(creds identity.Credentials) (record, error) {
	switch v := creds.(type) {
	case *identity.TokenCredentials:
		return record{
			Kind:        identity.KindToken,
			Identity:    v.Identity,
			Token:       v.Token,
			IsUpdatable: v.IsUpdatable,
			ProductInfo: v.ProductInfo,
			ModelID:     v.ModelID,
			AuthChain:   v.AuthChain,
		}, nil
	case *identity.X509Credentials:
		rec := record{
			Kind:        identity.KindX509,
			Identity:    v.Identity,
			ProductInfo: v.ProductInfo,
			ModelID:     v.ModelID,
			AuthChain:   v.AuthChain,
		}

		if v.ClientCertificate != nil {
			rec.Certificate = v.ClientCertificate.Raw
		}

		for _, cert := range v.CertificateChain {
			rec.Chain = append(rec.Chain, cert.Raw)
		}

		return rec, nil
	default:
		return record{}, fmt.Errorf("%w: %T", errUnknownKind, creds)
	}
}

func fromRecord(rec *record) (identity.Credentials, error) {
	switch rec.Kind {
	case identity.KindToken:
		return &identity.TokenCredentials{
			Identity:    rec.Identity,
			Token:       rec.Token,
			IsUpdatable: rec.IsUpdatable,
			ProductInfo: rec.ProductInfo,
			ModelID:     rec.ModelID,
			AuthChain:   rec.AuthChain,
		}, nil
	case identity.KindX509:
		creds := &identity.X509Credentials{
			Identity:    rec.Identity,
			ProductInfo: rec.ProductInfo,
			ModelID:     rec.ModelID,
			AuthChain:   rec.AuthChain,
		}

		if len(rec.Certificate) > 0 {
			cert, err := x509.ParseCertificate(rec.Certificate)
			if err != nil {
				return nil, fmt.Errorf("failed to parse client certificate: %w", err)
			}

			creds.ClientCertificate = cert
		}

		for _, der := range rec.Chain {
			cert, err := x509.ParseCertificate(der)
			if err != nil {
				return nil, fmt.Errorf("failed to parse certificate chain: %w", err)
			}

			creds.CertificateChain = append(creds.CertificateChain, cert)
		}

		return creds, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnknownKind, rec.Kind)
	}
}
