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
	"math/big"
	"net"
	"strconv"
	"sync"
)

// Predicate reports whether a captured path segment satisfies a named
// constraint. Predicates never see percent-encoded or otherwise
// transformed input; decoding is entirely the caller's concern.
type Predicate func(segment string) bool

type constraintEntry struct {
	predicate Predicate
	typeTag   string
}

// ConstraintRegistry maps constraint names to predicates and a stable
// type tag used to detect incompatible re-registration. It is owned
// per Router, not process-global: each Router gets its own set of
// built-ins plus whatever the caller registers.
type ConstraintRegistry struct {
	mu      sync.RWMutex
	entries map[string]constraintEntry
}

// NewConstraintRegistry returns a registry pre-populated with the
// built-in numeric, boolean and IP constraints.
func NewConstraintRegistry() *ConstraintRegistry {
	r := &ConstraintRegistry{entries: make(map[string]constraintEntry, 32)}
	r.registerBuiltins()
	return r
}

// Register binds name to predicate under typeTag.
//
// Registering the same (name, typeTag) pair twice is idempotent.
// Registering an existing name under a different typeTag fails with a
// *ConstraintError wrapping ErrDuplicateConstraint.
func (r *ConstraintRegistry) Register(name string, predicate Predicate, typeTag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[name]; ok {
		if existing.typeTag != typeTag {
			return &ConstraintError{Name: name, ExistingType: existing.typeTag, NewType: typeTag}
		}
		return nil
	}

	r.entries[name] = constraintEntry{predicate: predicate, typeTag: typeTag}
	return nil
}

// resolve looks up a predicate by name. The bool return is false if
// name was never registered.
func (r *ConstraintRegistry) resolve(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return entry.predicate, true
}

func (r *ConstraintRegistry) registerBuiltins() {
	uintConstraint := func(bits int) Predicate {
		return func(s string) bool {
			_, err := strconv.ParseUint(s, 10, bits)
			return err == nil
		}
	}
	intConstraint := func(bits int) Predicate {
		return func(s string) bool {
			_, err := strconv.ParseInt(s, 10, bits)
			return err == nil
		}
	}

	for _, bits := range []int{8, 16, 32, 64} {
		name := "u" + strconv.Itoa(bits)
		r.entries[name] = constraintEntry{predicate: uintConstraint(bits), typeTag: name}

		name = "i" + strconv.Itoa(bits)
		r.entries[name] = constraintEntry{predicate: intConstraint(bits), typeTag: name}
	}

	r.entries["u128"] = constraintEntry{predicate: bigUintConstraint(128), typeTag: "u128"}
	r.entries["i128"] = constraintEntry{predicate: bigIntConstraint(128), typeTag: "i128"}

	r.entries["f32"] = constraintEntry{
		predicate: func(s string) bool { _, err := strconv.ParseFloat(s, 32); return err == nil },
		typeTag:   "f32",
	}
	r.entries["f64"] = constraintEntry{
		predicate: func(s string) bool { _, err := strconv.ParseFloat(s, 64); return err == nil },
		typeTag:   "f64",
	}
	r.entries["bool"] = constraintEntry{
		predicate: func(s string) bool { _, err := strconv.ParseBool(s); return err == nil },
		typeTag:   "bool",
	}
	r.entries["ipv4"] = constraintEntry{
		predicate: func(s string) bool {
			ip := net.ParseIP(s)
			return ip != nil && ip.To4() != nil
		},
		typeTag: "ipv4",
	}
	r.entries["ipv6"] = constraintEntry{
		predicate: func(s string) bool {
			ip := net.ParseIP(s)
			return ip != nil && ip.To4() == nil && ip.To16() != nil
		},
		typeTag: "ipv6",
	}
}

// bigUintConstraint builds a predicate for an unsigned integer type
// wider than strconv's 64-bit ceiling, using math/big for an exact
// range check rather than truncating to a narrower strconv bound.
func bigUintConstraint(bits uint) Predicate {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
	return func(s string) bool {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok || n.Sign() < 0 {
			return false
		}
		return n.Cmp(max) <= 0
	}
}

// bigIntConstraint builds a predicate for a signed integer type wider
// than strconv's 64-bit ceiling, using math/big for an exact
// two's-complement range check.
func bigIntConstraint(bits uint) Predicate {
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits-1), big.NewInt(1))
	return func(s string) bool {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return false
		}
		return n.Cmp(min) >= 0 && n.Cmp(max) <= 0
	}
}
