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

// Delete removes every expansion of raw from the tree.
//
// Every expansion must resolve to a node carrying data whose stored
// raw equals the supplied raw, or Delete fails without mutating the
// tree: a missing terminal reports *DeleteError wrapping
// ErrRouteNotFound, a terminal storing a different raw template
// reports *DeleteError wrapping ErrRouteMismatch.
func (r *Router[T]) Delete(raw string) error {
	tmpl, err := parseTemplate(raw, r.delimiter)
	if err != nil {
		r.emit(DiagnosticEvent{Op: "delete", Route: raw, Err: err})
		return err
	}

	paths := make([][]*node[T], 0, len(tmpl.expansions))

	for _, exp := range tmpl.expansions {
		path, ok := r.root.findExact(exp.parts)
		if !ok || path[len(path)-1].data == nil {
			err := &DeleteError{Cause: ErrRouteNotFound, Route: raw}
			r.emit(DiagnosticEvent{Op: "delete", Route: raw, Err: err})
			return err
		}

		terminal := path[len(path)-1]
		if terminal.data.raw != raw {
			err := &DeleteError{Cause: ErrRouteMismatch, Route: raw, Inserted: terminal.data.raw}
			r.emit(DiagnosticEvent{Op: "delete", Route: raw, Err: err})
			return err
		}

		paths = append(paths, path)
	}

	for _, path := range paths {
		path[len(path)-1].data = nil
		markDirty(path)
		compact(path)
	}

	r.optimize()

	if r.logger != nil {
		r.logger.Debug("route deleted", "route", raw, "expansions", len(tmpl.expansions))
	}
	r.emit(DiagnosticEvent{Op: "delete", Route: raw})

	return nil
}

// findExact locates the node a template's parts would terminate at,
// using structural equality (§4.4 step 2): at each level it finds the
// child whose state exactly equals the expected part, crossing split
// static-prefix boundaries by re-slicing the remainder. It returns the
// root-to-terminal path, or ok=false if any part has no matching
// child.
func (n *node[T]) findExact(parts []part) ([]*node[T], bool) {
	path := []*node[T]{n}
	cur := n

	for i := 0; i < len(parts); i++ {
		p := parts[i]
		switch p.kind {
		case partStatic:
			next, ok := cur.findExactStatic(p.prefix, &path)
			if !ok {
				return nil, false
			}
			cur = next

		case partDynamic:
			child := cur.findDynamicChild(p.name, p.constraint)
			if child == nil {
				return nil, false
			}
			cur = child
			path = append(path, cur)

		case partWildcard:
			isFinal := i == len(parts)-1
			var child *node[T]
			if isFinal {
				child = cur.findEndWildcardChild(p.name, p.constraint)
			} else {
				child = cur.findWildcardChild(p.name, p.constraint)
			}
			if child == nil {
				return nil, false
			}
			cur = child
			path = append(path, cur)
		}
	}

	return path, true
}

// findExactStatic descends static children byte-exactly, crossing
// prefix-split boundaries, appending every node it passes through to
// *path.
func (n *node[T]) findExactStatic(prefix []byte, path *[]*node[T]) (*node[T], bool) {
	cur := n
	remaining := prefix

	for len(remaining) > 0 {
		child := cur.findStaticChild(remaining[0])
		if child == nil {
			return nil, false
		}

		l := commonPrefixLen(child.prefix, remaining)
		if l < len(child.prefix) {
			return nil, false // the stored tree has no node ending exactly where this template would
		}

		cur = child
		*path = append(*path, cur)
		remaining = remaining[l:]
	}

	return cur, true
}

// compact removes nodes with no data and no children bottom-up along
// path, then merges any static parent left with exactly one static
// child and no data of its own into that child (§4.4 step 5).
func compact[T any](path []*node[T]) {
	i := len(path) - 1
	for i > 0 {
		child := path[i]
		parent := path[i-1]

		if child.data != nil || !child.isEmpty() {
			break
		}

		removeChild(parent, child)
		i--
	}

	// i is now the index of the deepest surviving node. Collapse any
	// chain of single-static-child, data-less static nodes above it,
	// root excluded (the root carries no prefix and is permanent).
	for j := i; j > 0; j-- {
		node := path[j]
		if node.kind != KindStatic {
			continue
		}
		for mergeSingleStaticChild(node) {
		}
	}
}

// removeChild removes child from whichever of parent's buckets holds
// it, keyed by child's own kind.
func removeChild[T any](parent, child *node[T]) {
	switch child.kind {
	case KindStatic:
		parent.staticChildren.remove(child)
	case KindDynamic:
		parent.dynamicChildren.remove(child)
	case KindWildcard:
		parent.wildcardChildren.remove(child)
	case KindEndWildcard:
		parent.endWildcardChildren.remove(child)
	}
}

// mergeSingleStaticChild merges n with its sole static child when n
// carries no data of its own and has no other children. Reports
// whether a merge happened, so the caller can repeat until the chain
// is fully collapsed.
func mergeSingleStaticChild[T any](n *node[T]) bool {
	if n.data != nil {
		return false
	}
	if len(n.staticChildren.nodes) != 1 {
		return false
	}
	if !n.dynamicChildren.empty() || !n.wildcardChildren.empty() || !n.endWildcardChildren.empty() {
		return false
	}

	child := n.staticChildren.nodes[0]
	n.prefix = append(n.prefix, child.prefix...)
	n.data = child.data
	n.staticChildren = child.staticChildren
	n.dynamicChildren = child.dynamicChildren
	n.wildcardChildren = child.wildcardChildren
	n.endWildcardChildren = child.endWildcardChildren
	n.needsOptimization = true
	return true
}
