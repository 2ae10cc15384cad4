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

package cloud

import "errors"

var (
	// ErrTransient marks failures worth retrying on a freshly resolved proxy.
	ErrTransient = errors.New("transient cloud error")
	// ErrNoConnection is returned when no active cloud connection exists.
	ErrNoConnection = errors.New("no active cloud connection")
)
