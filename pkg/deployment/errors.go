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

package deployment

import "errors"

var (
	// ErrConfigEmpty means no deployment has been published yet.
	ErrConfigEmpty = errors.New("deployment config is empty")
	// ErrConfigFormat means the deployment could not be decoded or failed validation.
	ErrConfigFormat = errors.New("deployment config is malformed")
	// ErrInvalidSchemaVersion means the deployment uses a schema this agent does not understand.
	ErrInvalidSchemaVersion = errors.New("unsupported deployment schema version")
)
