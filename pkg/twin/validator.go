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

package twin

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/carverauto/edgecore/pkg/models"
)

const (
	maxDepth         = 10
	maxKeyLength     = 512
	maxValueLength   = 4096
	maxDocumentBytes = 32 * 1024
)

// ValidateReportedProperties checks a reported property patch before it is
// stored or sent anywhere. The $version key is ignored.
func ValidateReportedProperties(patch models.TwinCollection) error {
	props := patch.WithoutVersion()

	if err := validateObject(props, 1); err != nil {
		return err
	}

	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProperties, err)
	}

	if len(data) > maxDocumentBytes {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrInvalidProperties, len(data), maxDocumentBytes)
	}

	return nil
}

func validateObject(obj map[string]any, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d levels", ErrInvalidProperties, maxDepth)
	}

	for name, value := range obj {
		if err := validateName(name); err != nil {
			return err
		}

		if err := validateValue(name, value, depth); err != nil {
			return err
		}
	}

	return nil
}

func validateName(name string) error {
	if len(name) > maxKeyLength {
		return fmt.Errorf("%w: property name longer than %d bytes", ErrInvalidProperties, maxKeyLength)
	}

	if strings.ContainsAny(name, ".$ ") {
		return fmt.Errorf("%w: property name %q contains '.', '$' or a space", ErrInvalidProperties, name)
	}

	return nil
}

func validateValue(name string, value any, depth int) error {
	switch v := value.(type) {
	case nil, bool, int, int32, int64, uint8, uint16, uint32:
		return nil
	case string:
		if len(v) > maxValueLength {
			return fmt.Errorf("%w: value of %q longer than %d bytes", ErrInvalidProperties, name, maxValueLength)
		}

		return nil
	case uint64:
		if v > math.MaxInt64 {
			return fmt.Errorf("%w: value of %q out of range", ErrInvalidProperties, name)
		}

		return nil
	case float32:
		return nil
	case float64:
		if v == math.Trunc(v) && (v >= math.MaxInt64 || v < math.MinInt64) {
			return fmt.Errorf("%w: value of %q out of range", ErrInvalidProperties, name)
		}

		return nil
	case json.Number:
		if _, err := v.Int64(); err != nil && !strings.ContainsAny(v.String(), ".eE") {
			return fmt.Errorf("%w: value of %q out of range", ErrInvalidProperties, name)
		}

		return nil
	case models.TwinCollection:
		return validateObject(v, depth+1)
	case map[string]any:
		return validateObject(v, depth+1)
	case []any:
		return fmt.Errorf("%w: %q is an array", ErrInvalidProperties, name)
	default:
		return fmt.Errorf("%w: %q has unsupported type %T", ErrInvalidProperties, name, value)
	}
}
