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

import "unicode/utf8"

// Parameter is one captured named segment of a Match.
type Parameter struct {
	Name  string
	Value []byte
}

// Match is the result of a successful Search: the winning template's
// id plus every parameter captured along the way, in the order they
// were encountered during descent.
type Match[T any] struct {
	TemplateID uint64
	Raw        string
	Expanded   string
	Value      T
	Parameters []Parameter
}

// Search descends path against the tree and returns the highest-
// priority matching template, or ok=false if nothing matches. Search
// allocates at most one slice (the returned Parameters); it never
// mutates path.
func (r *Router[T]) Search(path []byte) (Match[T], bool) {
	params := make([]Parameter, 0, 4)
	target, ok := r.root.search(path, 0, r.delimiter, &params)
	if !ok {
		return Match[T]{}, false
	}

	return Match[T]{
		TemplateID: target.data.templateID,
		Raw:        target.data.raw,
		Expanded:   target.data.expanded,
		Value:      target.data.value,
		Parameters: params,
	}, true
}

// search implements the recursive descent of §4.6. Children are tried
// in the fixed order static, dynamic, wildcard, end-wildcard; the
// first recursive success wins because buckets are priority-sorted.
func (n *node[T]) search(path []byte, i int, delimiter byte, params *[]Parameter) (*node[T], bool) {
	if i == len(path) {
		if n.data != nil {
			return n, true
		}
		return nil, false
	}

	if c := n.findStaticChild(path[i]); c != nil {
		end := i + len(c.prefix)
		if end <= len(path) && string(path[i:end]) == string(c.prefix) {
			if target, ok := c.search(path, end, delimiter, params); ok {
				return target, true
			}
		}
	}

	for _, c := range n.dynamicChildren.nodes {
		j := nextDelimiter(path, i, delimiter)

		if n.dynamicShortcut {
			if target, ok := tryDynamicCandidate(c, path, i, j, delimiter, params); ok {
				return target, true
			}
			continue
		}

		// No shortcut: try every split point, shortest segment first.
		for k := i + 1; k <= j; k++ {
			if target, ok := tryDynamicCandidate(c, path, i, k, delimiter, params); ok {
				return target, true
			}
		}
	}

	for _, c := range n.wildcardChildren.nodes {
		// Candidate ends start at the second delimiter at or after i, so
		// the matched slice path[i:k] itself contains at least one
		// delimiter (a Wildcard spans more than one segment); k is always
		// itself a delimiter position, so the "at least one delimiter
		// remaining after" requirement holds automatically.
		first := nextDelimiter(path, i, delimiter)
		for k := nextDelimiter(path, first+1, delimiter); k < len(path); k = nextDelimiter(path, k+1, delimiter) {
			value := path[i:k]
			if !checkConstraint(c.predicate, value) {
				continue
			}

			*params = append(*params, Parameter{Name: c.name, Value: value})
			if target, ok := c.search(path, k, delimiter, params); ok {
				return target, true
			}
			*params = (*params)[:len(*params)-1]
		}
	}

	for _, c := range n.endWildcardChildren.nodes {
		value := path[i:] // non-empty: i < len(path) holds here (checked above)
		if !checkConstraint(c.predicate, value) {
			continue
		}

		*params = append(*params, Parameter{Name: c.name, Value: value})
		if target, ok := c.search(path, len(path), delimiter, params); ok {
			return target, true
		}
		*params = (*params)[:len(*params)-1]
	}

	return nil, false
}

func tryDynamicCandidate[T any](c *node[T], path []byte, i, k int, delimiter byte, params *[]Parameter) (*node[T], bool) {
	value := path[i:k]
	if !checkConstraint(c.predicate, value) {
		return nil, false
	}

	*params = append(*params, Parameter{Name: c.name, Value: value})
	if target, ok := c.search(path, k, delimiter, params); ok {
		return target, true
	}
	*params = (*params)[:len(*params)-1]
	return nil, false
}

// checkConstraint validates value against predicate, if any is set. A
// constrained predicate only ever sees valid UTF-8: invalid bytes fail
// the candidate rather than panicking the predicate.
func checkConstraint(predicate Predicate, value []byte) bool {
	if predicate == nil {
		return true
	}
	if !utf8.Valid(value) {
		return false
	}
	return predicate(string(value))
}

// nextDelimiter returns the index of the first delimiter at or after
// i, or len(path) if none remains.
func nextDelimiter(path []byte, i int, delimiter byte) int {
	for j := i; j < len(path); j++ {
		if path[j] == delimiter {
			return j
		}
	}
	return len(path)
}

// delimiterPositions returns the absolute index of every delimiter
// byte at or after i.
func delimiterPositions(path []byte, i int, delimiter byte) []int {
	var positions []int
	for j := i; j < len(path); j++ {
		if path[j] == delimiter {
			positions = append(positions, j)
		}
	}
	return positions
}
