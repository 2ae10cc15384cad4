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

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcasterDeliversInRegistrationOrder(t *testing.T) {
	var (
		b   Broadcaster[string]
		got []string
	)

	b.Subscribe(func(v string) { got = append(got, "first:"+v) })
	unsubscribe := b.Subscribe(func(v string) { got = append(got, "second:"+v) })

	b.Publish("device-1")
	assert.Equal(t, []string{"first:device-1", "second:device-1"}, got)

	unsubscribe()
	unsubscribe()

	got = nil
	b.Publish("device-2")

	assert.Equal(t, []string{"first:device-2"}, got)
	assert.Equal(t, 1, b.Len())
}

func TestBroadcasterHandlerMayUnsubscribeDuringPublish(t *testing.T) {
	var (
		b     Broadcaster[int]
		calls int
	)

	var unsubscribe func()
	unsubscribe = b.Subscribe(func(int) {
		calls++
		unsubscribe()
	})

	b.Publish(1)
	b.Publish(2)

	assert.Equal(t, 1, calls)
}
