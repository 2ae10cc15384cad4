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
	"maps"
	"slices"
)

// Set maps module names to modules. A Set is never mutated once built;
// ApplyDiff returns a new one.
type Set struct {
	modules map[string]*Module
}

// NewSet builds a Set from mods. A later module replaces an earlier one
// with the same name.
func NewSet(mods ...*Module) Set {
	s := Set{modules: make(map[string]*Module, len(mods))}

	for _, m := range mods {
		if m == nil {
			continue
		}

		s.modules[m.Name] = m.Clone()
	}

	return s
}

// Len returns the number of modules in the set.
func (s Set) Len() int { return len(s.modules) }

// Get returns a copy of the named module.
func (s Set) Get(name string) (*Module, bool) {
	m, ok := s.modules[name]
	if !ok {
		return nil, false
	}

	return m.Clone(), true
}

// Names returns the module names in sorted order.
func (s Set) Names() []string {
	return slices.Sorted(maps.Keys(s.modules))
}

// Modules returns copies of the modules sorted by name.
func (s Set) Modules() []*Module {
	out := make([]*Module, 0, len(s.modules))

	for _, name := range s.Names() {
		out = append(out, s.modules[name].Clone())
	}

	return out
}

// Diff returns what has to change to turn other into s: modules of s that
// are new or differ, and names of other that s no longer carries.
func (s Set) Diff(other Set) Diff {
	var d Diff

	for _, name := range s.Names() {
		m := s.modules[name]
		if prev, ok := other.modules[name]; !ok || !prev.Equal(m) {
			d.Updated = append(d.Updated, m.Clone())
		}
	}

	for _, name := range other.Names() {
		if _, ok := s.modules[name]; !ok {
			d.Removed = append(d.Removed, name)
		}
	}

	return d
}

// ApplyDiff returns a new set with d applied to s.
func (s Set) ApplyDiff(d Diff) Set {
	out := Set{modules: make(map[string]*Module, len(s.modules)+len(d.Updated))}

	for name, m := range s.modules {
		out.modules[name] = m
	}

	for _, name := range d.Removed {
		delete(out.modules, name)
	}

	for _, m := range d.Updated {
		out.modules[m.Name] = m.Clone()
	}

	return out
}
