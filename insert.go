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

// Insert parses raw, expands any optional groups, validates every
// referenced constraint, and inserts every expansion under a single
// freshly allocated template id, attaching value to each expansion's
// terminal node.
//
// If any expansion's target already carries data, the whole insert is
// rolled back (no expansion is left inserted) and an *InsertError
// wrapping ErrDuplicateRoute is returned. An unknown constraint fails
// the same way before any mutation happens.
func (r *Router[T]) Insert(raw string, value T) (uint64, error) {
	tmpl, err := parseTemplate(raw, r.delimiter)
	if err != nil {
		r.emit(DiagnosticEvent{Op: "insert", Route: raw, Err: err})
		return 0, err
	}

	for _, exp := range tmpl.expansions {
		for _, p := range exp.parts {
			if p.kind == partDynamic || p.kind == partWildcard {
				if p.constraint != "" {
					if _, ok := r.constraints.resolve(p.constraint); !ok {
						err := &InsertError{Cause: ErrUnknownConstraint, Route: raw, Constraint: p.constraint}
						r.emit(DiagnosticEvent{Op: "insert", Route: raw, Err: err})
						return 0, err
					}
				}
			}
		}
	}

	id := r.nextID
	inserted := make([]*node[T], 0, len(tmpl.expansions))

	for _, exp := range tmpl.expansions {
		target, path, err := r.root.insertExpansion(exp.parts, r.constraints)
		if err != nil {
			rollbackInsert(inserted)
			r.emit(DiagnosticEvent{Op: "insert", Route: raw, Err: err})
			return 0, err
		}
		if target.data != nil {
			rollbackInsert(inserted)
			err := &InsertError{Cause: ErrDuplicateRoute, Route: raw, Conflict: target.data.raw}
			r.emit(DiagnosticEvent{Op: "insert", Route: raw, Err: err})
			return 0, err
		}
		target.data = &leaf[T]{templateID: id, raw: raw, expanded: exp.expanded, value: value}
		markDirty(path)
		inserted = append(inserted, target)
	}

	r.nextID++
	r.optimize()

	if r.logger != nil {
		r.logger.Debug("route inserted", "route", raw, "template_id", id, "expansions", len(tmpl.expansions))
	}
	r.emit(DiagnosticEvent{Op: "insert", Route: raw})

	return id, nil
}

// rollbackInsert clears the data attached to nodes inserted earlier in
// a failing multi-expansion Insert. Nodes created along the way are not
// removed: they stay in the tree without data (possibly with data-less
// children of their own), Optimize never prunes them, and Delete only
// prunes along the paths of the route it deletes. Router never reports
// them to a caller since Search requires data to return a match.
func rollbackInsert[T any](inserted []*node[T]) {
	for _, n := range inserted {
		n.data = nil
	}
}

// insertExpansion walks parts from the root, creating nodes as needed,
// and returns the terminal node plus the root-to-terminal path (for
// markDirty).
func (n *node[T]) insertExpansion(parts []part, registry *ConstraintRegistry) (*node[T], []*node[T], error) {
	cur := n
	path := []*node[T]{cur}

	resolvedPredicate := func(constraint string) Predicate {
		if constraint == "" {
			return nil
		}
		pred, _ := registry.resolve(constraint) // already validated to exist by Router.Insert
		return pred
	}

	for i, p := range parts {
		switch p.kind {
		case partStatic:
			cur = cur.insertStatic(p.prefix, &path)
		case partDynamic:
			child := cur.findDynamicChild(p.name, p.constraint)
			if child == nil {
				child = &node[T]{kind: KindDynamic, name: p.name, constraint: p.constraint, predicate: resolvedPredicate(p.constraint)}
				cur.dynamicChildren.add(child)
			}
			cur = child
			path = append(path, cur)
		case partWildcard:
			isFinal := i == len(parts)-1
			if isFinal {
				child := cur.findEndWildcardChild(p.name, p.constraint)
				if child == nil {
					child = &node[T]{kind: KindEndWildcard, name: p.name, constraint: p.constraint, predicate: resolvedPredicate(p.constraint)}
					cur.endWildcardChildren.add(child)
				}
				cur = child
			} else {
				child := cur.findWildcardChild(p.name, p.constraint)
				if child == nil {
					child = &node[T]{kind: KindWildcard, name: p.name, constraint: p.constraint, predicate: resolvedPredicate(p.constraint)}
					cur.wildcardChildren.add(child)
				}
				cur = child
			}
			path = append(path, cur)
		}
	}

	return cur, path, nil
}

// insertStatic walks/creates static nodes for prefix, splitting an
// existing child when only part of its prefix is shared (§4.3 step 3).
// Every node visited or created is appended to *path.
func (n *node[T]) insertStatic(prefix []byte, path *[]*node[T]) *node[T] {
	cur := n
	remaining := prefix

	for len(remaining) > 0 {
		match := cur.findStaticChild(remaining[0])
		if match == nil {
			child := &node[T]{kind: KindStatic, prefix: cloneBytes(remaining)}
			cur.staticChildren.add(child)
			cur = child
			*path = append(*path, cur)
			remaining = nil
			break
		}

		l := commonPrefixLen(match.prefix, remaining)
		switch {
		case l == len(match.prefix) && l == len(remaining):
			cur = match
			*path = append(*path, cur)
			remaining = nil

		case l == len(match.prefix) && l < len(remaining):
			cur = match
			*path = append(*path, cur)
			remaining = remaining[l:]

		default: // l < len(match.prefix): split match at l
			split := &node[T]{kind: KindStatic, prefix: cloneBytes(match.prefix[:l])}
			match.prefix = cloneBytes(match.prefix[l:])
			split.staticChildren.add(match)
			cur.staticChildren.replace(match, split)

			cur = split
			*path = append(*path, cur)
			remaining = remaining[l:]
		}
	}

	return cur
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
