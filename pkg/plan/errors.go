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

package plan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errInvalidMaxRunCount = errors.New("max run count must be positive")
	errInvalidCoolOffUnit = errors.New("cool-off unit must not be negative")
)

// CommandError is the failure of a single command.
type CommandError struct {
	CommandID string
	Err       error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s: %v", e.CommandID, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecutionError collects every command failure of one plan execution.
type ExecutionError struct {
	Failures []*CommandError
}

func (e *ExecutionError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}

	return fmt.Sprintf("%d command(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *ExecutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}

	return errs
}

func executionError(failures []*CommandError) error {
	if len(failures) == 0 {
		return nil
	}

	return &ExecutionError{Failures: failures}
}
