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

package devicescope

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/carverauto/edgecore/pkg/identity"
)

type node struct {
	identity *identity.ServiceIdentity
	parent   string
	children map[string]struct{}
}

// Tree is a forest of service identities keyed by id. Parent and child
// links are ids into the same map rather than pointers.
//
// A module's parent is its device. A device's parent is the edge device
// whose DeviceScope appears in the device's ParentScopes. A node whose
// parent has not arrived yet stays dangling and is adopted once it does.
type Tree struct {
	mu            sync.RWMutex
	actorDeviceID string
	nodes         map[string]*node
}

// NewTree returns an empty tree. actorDeviceID is the edge device the
// local hub runs as; auth chains must end there.
func NewTree(actorDeviceID string) *Tree {
	return &Tree{
		actorDeviceID: actorDeviceID,
		nodes:         make(map[string]*node),
	}
}

// InsertOrUpdate adds si or replaces the existing record with the same id,
// keeping every child that still resolves to it.
func (t *Tree) InsertOrUpdate(si *identity.ServiceIdentity) {
	t.mu.Lock()
	defer t.mu.Unlock()

	si = si.Clone()

	n, exists := t.nodes[si.ID]
	if !exists {
		n = &node{children: make(map[string]struct{})}
		t.nodes[si.ID] = n
	}

	n.identity = si

	if exists {
		for childID := range n.children {
			child := t.nodes[childID]
			if !t.isParentOf(si, child.identity) {
				delete(n.children, childID)
				child.parent = ""
			}
		}
	}

	t.attach(si.ID)
	t.adoptDangling(si.ID)
}

// Remove deletes id and every descendant, returning the removed records.
func (t *Tree) Remove(id string) []*identity.ServiceIdentity {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil
	}

	if n.parent != "" {
		if p, ok := t.nodes[n.parent]; ok {
			delete(p.children, id)
		}
	}

	var removed []*identity.ServiceIdentity

	t.removeRecursive(id, &removed)

	return removed
}

func (t *Tree) removeRecursive(id string, removed *[]*identity.ServiceIdentity) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}

	delete(t.nodes, id)
	*removed = append(*removed, n.identity)

	for _, childID := range slices.Sorted(maps.Keys(n.children)) {
		t.removeRecursive(childID, removed)
	}
}

// Get returns a copy of the record for id.
func (t *Tree) Get(id string) (*identity.ServiceIdentity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}

	return n.identity.Clone(), true
}

func (t *Tree) Contains(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.nodes[id]

	return ok
}

// AllIDs returns every id in the tree, sorted.
func (t *Tree) AllIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Sorted(maps.Keys(t.nodes))
}

// Parent returns the id of id's parent, if it has one.
func (t *Tree) Parent(id string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n, ok := t.nodes[id]
	if !ok || n.parent == "" {
		return "", false
	}

	return n.parent, true
}

// Children returns the immediate children of id, sorted.
func (t *Tree) Children(id string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(n.children))
}

// GetAuthChain returns "id;parent;...;actor" when id's ancestry reaches the
// actor device through enabled records.
func (t *Tree) GetAuthChain(id string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var chain []string

	current := id

	for range len(t.nodes) + 1 {
		n, ok := t.nodes[current]
		if !ok || !n.identity.IsEnabled() {
			return "", false
		}

		chain = append(chain, current)

		if current == t.actorDeviceID {
			return strings.Join(chain, ";"), true
		}

		if n.parent == "" {
			return "", false
		}

		current = n.parent
	}

	return "", false
}

// attach links id to its parent if the parent is present.
func (t *Tree) attach(id string) {
	n := t.nodes[id]

	if n.parent != "" {
		if p, ok := t.nodes[n.parent]; ok && t.isParentOf(p.identity, n.identity) {
			return
		}

		if p, ok := t.nodes[n.parent]; ok {
			delete(p.children, id)
		}

		n.parent = ""
	}

	for _, candidateID := range t.parentCandidates(n.identity) {
		p, ok := t.nodes[candidateID]
		if !ok || t.hasAncestor(candidateID, id) || !t.isParentOf(p.identity, n.identity) {
			continue
		}

		n.parent = candidateID
		p.children[id] = struct{}{}

		return
	}
}

// adoptDangling attaches orphans that resolve to parentID.
func (t *Tree) adoptDangling(parentID string) {
	p := t.nodes[parentID]

	for id, n := range t.nodes {
		if n.parent != "" || t.hasAncestor(parentID, id) {
			continue
		}

		if t.isParentOf(p.identity, n.identity) {
			n.parent = parentID
			p.children[id] = struct{}{}
		}
	}
}

// hasAncestor reports whether ancestorID is id itself or one of its ancestors.
func (t *Tree) hasAncestor(id, ancestorID string) bool {
	current := id

	for range len(t.nodes) + 1 {
		if current == ancestorID {
			return true
		}

		n, ok := t.nodes[current]
		if !ok || n.parent == "" {
			return false
		}

		current = n.parent
	}

	return true
}

func (t *Tree) parentCandidates(si *identity.ServiceIdentity) []string {
	if si.IsModule() {
		return []string{si.DeviceID}
	}

	var out []string

	for id, n := range t.nodes {
		if n.identity.IsEdgeDevice && !n.identity.IsModule() && slices.Contains(si.ParentScopes, n.identity.DeviceScope) {
			out = append(out, id)
		}
	}

	slices.Sort(out)

	return out
}

func (*Tree) isParentOf(parent, child *identity.ServiceIdentity) bool {
	if parent == nil || child == nil || parent.ID == child.ID || parent.IsModule() {
		return false
	}

	if child.IsModule() {
		return child.DeviceID == parent.DeviceID
	}

	return parent.IsEdgeDevice &&
		parent.DeviceScope != "" &&
		slices.Contains(child.ParentScopes, parent.DeviceScope)
}
