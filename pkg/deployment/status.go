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

import (
	"errors"
)

// StatusCode is the outcome of a reconcile cycle as reported upstream.
type StatusCode int

const (
	StatusSuccessful           StatusCode = 200
	StatusConfigFormatError    StatusCode = 400
	StatusInvalidSchemaVersion StatusCode = 412
	StatusConfigEmptyError     StatusCode = 417
	StatusFailed               StatusCode = 500
)

func (c StatusCode) String() string {
	switch c {
	case StatusSuccessful:
		return "Successful"
	case StatusConfigFormatError:
		return "ConfigFormatError"
	case StatusInvalidSchemaVersion:
		return "InvalidSchemaVersion"
	case StatusConfigEmptyError:
		return "ConfigEmptyError"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Status is a status code with a human readable description.
type Status struct {
	Code        StatusCode `json:"code"`
	Description string     `json:"description,omitempty"`
}

// Success is the status reported after a cycle that completed.
var Success = Status{Code: StatusSuccessful}

// StatusFromError maps err to the status reported for it. The typed
// configuration errors keep their own codes; everything else is Failed.
func StatusFromError(err error) Status {
	if err == nil {
		return Success
	}

	code := StatusFailed

	switch {
	case errors.Is(err, ErrConfigEmpty):
		code = StatusConfigEmptyError
	case errors.Is(err, ErrInvalidSchemaVersion):
		code = StatusInvalidSchemaVersion
	case errors.Is(err, ErrConfigFormat):
		code = StatusConfigFormatError
	}

	return Status{Code: code, Description: err.Error()}
}
