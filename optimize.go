// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathtrie

import (
	"bytes"
	"sort"
)

// Kind weights used only so the accumulated priority value itself
// reflects "static > dynamic > wildcard > end-wildcard" as the spec
// requires; within a single bucket every node shares the same kind,
// so this never actually changes sort order inside a bucket (children
// of one kind are only ever compared against siblings of that same
// kind). It exists for priority-value fidelity and diagnostics, not
// for search correctness.
const (
	weightStatic      = 4000
	weightDynamic     = 3000
	weightWildcard    = 2000
	weightEndWildcard = 1000

	constraintBonus = 10_000
	leafBonus       = 1_000
)

// optimize recomputes priority, sorts every dirty bucket, and rebuilds
// descent shortcuts, starting from the root (§4.5). Subtrees whose
// needsOptimization is clear are skipped entirely.
func (r *Router[T]) optimize() {
	r.root.optimize(0, r.delimiter)
}

func (n *node[T]) optimize(parentPriority uint64, delimiter byte) {
	n.priority = parentPriority + n.localPriority(delimiter)

	if !n.needsOptimization {
		return
	}

	for _, b := range n.buckets() {
		for _, child := range b.nodes {
			child.optimize(n.priority, delimiter)
		}
	}

	sortBucket(&n.staticChildren, staticLess[T])
	sortBucket(&n.dynamicChildren, dynamicLess[T])
	sortBucket(&n.wildcardChildren, dynamicLess[T])
	sortBucket(&n.endWildcardChildren, dynamicLess[T])

	n.recomputeShortcuts(delimiter)
	n.needsOptimization = false
}

func (n *node[T]) localPriority(delimiter byte) uint64 {
	var p uint64

	switch n.kind {
	case KindStatic:
		p += weightStatic + uint64(len(n.prefix))
	case KindDynamic:
		p += weightDynamic
	case KindWildcard:
		p += weightWildcard
	case KindEndWildcard:
		p += weightEndWildcard
	}

	if n.constraint != "" {
		p += constraintBonus
	}

	if n.data != nil {
		p += leafBonus
		p += uint64(len(n.data.expanded))
		p += 100 * uint64(countDelimiters(n.data.expanded, delimiter))
	}

	return p
}

func countDelimiters(s string, delimiter byte) int {
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == delimiter {
			count++
		}
	}
	return count
}

func sortBucket[T any](b *bucket[T], less func(a, c *node[T]) bool) {
	if b.sorted {
		return
	}
	sort.SliceStable(b.nodes, func(i, j int) bool {
		pi, pj := b.nodes[i].priority, b.nodes[j].priority
		if pi != pj {
			return pi > pj // priority desc
		}
		return less(b.nodes[i], b.nodes[j]) // state asc, tie-break
	})
	b.sorted = true
}

func staticLess[T any](a, c *node[T]) bool {
	return bytes.Compare(a.prefix, c.prefix) < 0
}

func dynamicLess[T any](a, c *node[T]) bool {
	if a.name != c.name {
		return a.name < c.name
	}
	return a.constraint < c.constraint
}

// recomputeShortcuts implements §4.5 step 3: a bucket's "can we
// consume a whole segment instead of trying every split point" flag.
func (n *node[T]) recomputeShortcuts(delimiter byte) {
	n.dynamicShortcut = true
	for _, c := range n.dynamicChildren.nodes {
		if len(c.name) > 0 && c.name[0] == delimiter {
			continue // sentinel case: never produced by the parser, kept for parity with the spec
		}
		if c.isEmpty() {
			continue
		}
		if allStaticChildrenStartWithDelimiter(c, delimiter) {
			continue
		}
		n.dynamicShortcut = false
		break
	}

	n.wildcardShortcut = true
	for _, c := range n.wildcardChildren.nodes {
		if c.isEmpty() {
			continue
		}
		if allStaticChildrenStartWithDelimiter(c, delimiter) {
			continue
		}
		n.wildcardShortcut = false
		break
	}
}

func allStaticChildrenStartWithDelimiter[T any](n *node[T], delimiter byte) bool {
	for _, c := range n.staticChildren.nodes {
		if len(c.prefix) == 0 || c.prefix[0] != delimiter {
			return false
		}
	}
	return true
}
