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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/edgecore/pkg/logger"
	"github.com/carverauto/edgecore/pkg/models"
)

var errTestFixture = errors.New("fixture")

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		subject  string
		want     []string
	}{
		{
			name:     "adds subject when list empty",
			subjects: nil,
			subject:  "events.agent.reported",
			want:     []string{"events.agent.reported"},
		},
		{
			name:     "keeps list when wildcard matches",
			subjects: []string{"events.agent.*"},
			subject:  "events.agent.reported",
			want:     []string{"events.agent.*"},
		},
		{
			name:     "keeps list when greater wildcard matches",
			subjects: []string{"events.>"},
			subject:  "events.agent.reported",
			want:     []string{"events.>"},
		},
		{
			name:     "appends when unmatched",
			subjects: []string{"logs.syslog.*"},
			subject:  "events.agent.reported",
			want:     []string{"logs.syslog.*", "events.agent.reported"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := ensureSubjectList(append([]string(nil), tc.subjects...), tc.subject)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "events.agent.reported", "events.agent.reported", true},
		{"single wildcard", "events.*.reported", "events.agent.reported", true},
		{"greater wildcard", "events.>", "events.agent.reported", true},
		{"greater wildcard needs a token", "events.>", "events", false},
		{"no match length", "events.*", "events.agent.reported", false},
		{"no match tokens", "logs.syslog.*", "events.agent.reported", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, matchesSubject(tc.pattern, tc.subject))
		})
	}
}

func TestIsStreamMissingErr(t *testing.T) {
	t.Parallel()

	assert.True(t, isStreamMissingErr(jetstream.ErrStreamNotFound))
	assert.True(t, isStreamMissingErr(nats.ErrNoResponders))
	assert.False(t, isStreamMissingErr(errTestFixture))
}

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	srv, err := server.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	require.Eventually(t, func() bool {
		return srv.JetStreamEnabled()
	}, 5*time.Second, 50*time.Millisecond, "embedded NATS server not ready for JetStream")

	t.Cleanup(srv.Shutdown)

	return srv
}

func TestPublishCloudEvent(t *testing.T) {
	srv := runJetStreamServer(t)
	ctx := context.Background()

	nc, err := Connect(&models.NATSConfig{URL: srv.ClientURL()}, "natsutil-test", logger.NewTestLogger())
	require.NoError(t, err)
	defer nc.Close()

	publisher, err := CreateEventPublisher(ctx, nc, "", "EVENTS", []string{"events.agent.*"}, logger.NewTestLogger())
	require.NoError(t, err)

	// a second publisher widens the existing stream instead of failing
	_, err = CreateEventPublisher(ctx, nc, "", "EVENTS", []string{"events.hub.*"}, logger.NewTestLogger())
	require.NoError(t, err)

	event, err := publisher.Publish(ctx, "events.agent.reported", "com.example.reported", "edge-agent", map[string]int{"version": 3})
	require.NoError(t, err)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stream, err := js.Stream(ctx, "EVENTS")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"events.agent.*", "events.hub.*"}, stream.CachedInfo().Config.Subjects)

	msg, err := stream.GetLastMsgForSubject(ctx, "events.agent.reported")
	require.NoError(t, err)

	var decoded models.CloudEvent
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))

	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "1.0", decoded.SpecVersion)
	assert.Equal(t, "com.example.reported", decoded.Type)
	assert.Equal(t, map[string]interface{}{"version": float64(3)}, decoded.Data)
}
