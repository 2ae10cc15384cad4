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

package models

import (
	"encoding/json"
	"math"
)

// TwinVersionKey holds a property collection's version inside the collection.
const TwinVersionKey = "$version"

// TwinCollection is a desired or reported property document.
type TwinCollection map[string]any

// Twin is a device shadow document.
type Twin struct {
	Desired  TwinCollection `json:"desired"`
	Reported TwinCollection `json:"reported"`
}

// Version returns the collection's $version, or 0 when absent or not numeric.
func (c TwinCollection) Version() int64 {
	raw, ok := c[TwinVersionKey]
	if !ok {
		return 0
	}

	switch v := raw.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case uint64:
		if v > math.MaxInt64 {
			return math.MaxInt64
		}

		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}

		return n
	default:
		return 0
	}
}

// WithVersion returns a copy of c with $version set to v.
func (c TwinCollection) WithVersion(v int64) TwinCollection {
	out := c.Clone()
	if out == nil {
		out = TwinCollection{}
	}

	out[TwinVersionKey] = v

	return out
}

// WithoutVersion returns a copy of c without the $version key.
func (c TwinCollection) WithoutVersion() TwinCollection {
	out := c.Clone()
	delete(out, TwinVersionKey)

	return out
}

// Clone deep-copies nested objects and arrays.
func (c TwinCollection) Clone() TwinCollection {
	if c == nil {
		return nil
	}

	out := make(TwinCollection, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}

		return out
	case TwinCollection:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}

		return out
	default:
		return val
	}
}

// Clone returns a deep copy of the twin.
func (t *Twin) Clone() *Twin {
	if t == nil {
		return nil
	}

	return &Twin{
		Desired:  t.Desired.Clone(),
		Reported: t.Reported.Clone(),
	}
}
