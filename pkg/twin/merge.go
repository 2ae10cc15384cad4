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

	jsonpatch "gopkg.in/evanphx/json-patch.v4"

	"github.com/carverauto/edgecore/pkg/models"
)

func toJSON(c models.TwinCollection) ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(c)
}

func fromJSON(data []byte) (models.TwinCollection, error) {
	out := models.TwinCollection{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// mergePatch applies patch to doc with JSON merge patch semantics: null
// deletes a property, objects merge recursively, anything else replaces.
func mergePatch(doc, patch models.TwinCollection) (models.TwinCollection, error) {
	d, err := toJSON(doc)
	if err != nil {
		return nil, err
	}

	p, err := toJSON(patch)
	if err != nil {
		return nil, err
	}

	merged, err := jsonpatch.MergePatch(d, p)
	if err != nil {
		return nil, fmt.Errorf("failed to merge twin patch: %w", err)
	}

	return fromJSON(merged)
}

// combinePatches returns a single patch equivalent to applying first then second.
func combinePatches(first, second models.TwinCollection) (models.TwinCollection, error) {
	if len(first) == 0 {
		return second.Clone(), nil
	}

	a, err := toJSON(first)
	if err != nil {
		return nil, err
	}

	b, err := toJSON(second)
	if err != nil {
		return nil, err
	}

	combined, err := jsonpatch.MergeMergePatches(a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to combine twin patches: %w", err)
	}

	return fromJSON(combined)
}

// diff returns the merge patch that turns from into to.
func diff(from, to models.TwinCollection) (models.TwinCollection, error) {
	a, err := toJSON(from)
	if err != nil {
		return nil, err
	}

	b, err := toJSON(to)
	if err != nil {
		return nil, err
	}

	patch, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to diff twin collections: %w", err)
	}

	return fromJSON(patch)
}
