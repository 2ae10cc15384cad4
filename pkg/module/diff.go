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

package module

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Diff describes the changes between two module sets. Order carries no
// meaning: two diffs with the same entries in any order are equal.
type Diff struct {
	Updated []*Module `json:"updated,omitempty"`
	Removed []string  `json:"removed,omitempty"`
}

// IsEmpty reports whether the diff changes nothing.
func (d Diff) IsEmpty() bool {
	return len(d.Updated) == 0 && len(d.Removed) == 0
}

// Equal compares two diffs as multisets.
func (d Diff) Equal(other Diff) bool {
	if len(d.Updated) != len(other.Updated) || len(d.Removed) != len(other.Removed) {
		return false
	}

	removed := slices.Sorted(slices.Values(d.Removed))
	otherRemoved := slices.Sorted(slices.Values(other.Removed))

	if !slices.Equal(removed, otherRemoved) {
		return false
	}

	updated := sortedByName(d.Updated)
	otherUpdated := sortedByName(other.Updated)

	return slices.EqualFunc(updated, otherUpdated, func(a, b *Module) bool {
		return a.Equal(b)
	})
}

// Hash returns a hash that is equal for diffs that are Equal.
func (d Diff) Hash() uint64 {
	var sum uint64

	for _, m := range d.Updated {
		sum += moduleHash(m)
	}

	for _, name := range d.Removed {
		sum += xxhash.Sum64String("-" + name)
	}

	return sum
}

func moduleHash(m *Module) uint64 {
	if m == nil {
		return 0
	}

	cfg := m.Clone()
	cfg.Runtime = nil
	cfg.DesiredStatus = m.desiredStatus()

	// map keys are emitted sorted, so equal modules encode identically
	data, err := json.Marshal(cfg)
	if err != nil {
		return xxhash.Sum64String("+" + m.Name)
	}

	return xxhash.Sum64(append([]byte("+"), data...))
}

func sortedByName(mods []*Module) []*Module {
	out := slices.Clone(mods)

	slices.SortFunc(out, func(a, b *Module) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out
}
