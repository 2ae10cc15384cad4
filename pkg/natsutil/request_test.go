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

package natsutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

type echo struct {
	Text string `json:"text"`
}

func TestRequestReply(t *testing.T) {
	srv := runJetStreamServer(t)

	nc, err := Connect(&models.NATSConfig{URL: srv.ClientURL()}, "request-test", logger.NewTestLogger())
	require.NoError(t, err)
	defer nc.Close()

	_, err = nc.Subscribe("svc.echo", func(msg *nats.Msg) {
		_ = Respond(msg, echo{Text: string(msg.Data)}, nil)
	})
	require.NoError(t, err)

	_, err = nc.Subscribe("svc.fail", func(msg *nats.Msg) {
		_ = Respond(msg, echo{}, errors.New("not today"))
	})
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	r := NewRequester(nc, time.Second, logger.NewTestLogger())
	ctx := context.Background()

	got, err := Request[echo](ctx, r, "svc.echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, got.Text)

	_, err = Request[echo](ctx, r, "svc.fail", nil)
	require.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "not today")

	_, err = Request[echo](ctx, r, "svc.missing", nil)
	require.ErrorIs(t, err, nats.ErrNoResponders)
}
