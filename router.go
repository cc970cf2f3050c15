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

import "log/slog"

// DiagnosticEvent is emitted to an optional DiagnosticHandler at the
// end of each mutating operation (Insert, Delete); the optimize pass
// emits no event of its own. It carries no guarantee of stability
// across releases; it exists for local debugging and metrics hookup,
// not as a wire contract.
type DiagnosticEvent struct {
	Op       string // "insert" or "delete"
	Route    string // raw template
	Err      error
	NodeScan uint64 // not set by Router; always zero
}

// DiagnosticHandler receives DiagnosticEvents. Handlers must not retain
// the event or its Route string beyond the call; Router reuses neither,
// but callers that build their own event history should copy.
type DiagnosticHandler func(DiagnosticEvent)

// Router is a compressed, prioritized, multi-kind prefix trie mapping
// route templates to values of type T.
//
// A Router is not safe for concurrent use: Insert, Delete and
// RegisterConstraint must not run concurrently with each other or with
// Search. Callers needing concurrent mutation must serialize externally
// (a sync.RWMutex held for the duration of each call is the usual
// approach); Search itself performs no writes and is safe to call
// concurrently with other Search calls once mutation has quiesced.
type Router[T any] struct {
	delimiter   byte
	root        *node[T]
	constraints *ConstraintRegistry
	nextID      uint64
	logger      *slog.Logger
	diagnostics DiagnosticHandler
}

// Option configures a Router at construction time.
type Option[T any] func(*Router[T])

// WithLogger attaches a structured logger. Router logs at Debug level
// on successful Insert/Delete and never logs on the hot Search path.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(r *Router[T]) {
		r.logger = logger
	}
}

// WithDiagnostics attaches a handler invoked after every Insert and
// Delete, successful or not. It is not called from Search.
func WithDiagnostics[T any](handler DiagnosticHandler) Option[T] {
	return func(r *Router[T]) {
		r.diagnostics = handler
	}
}

// WithConstraintRegistry overrides the default registry (built-ins
// plus nothing). Useful for sharing one registry's custom constraints
// across several Routers.
func WithConstraintRegistry[T any](registry *ConstraintRegistry) Option[T] {
	return func(r *Router[T]) {
		r.constraints = registry
	}
}

// New builds an empty Router. delimiter is the byte that separates
// path segments (typically '/'); it is fixed for the lifetime of the
// Router and used both by the parser (to reject delimiter bytes in
// parameter names) and by the matcher (to find segment boundaries).
func New[T any](delimiter byte, opts ...Option[T]) *Router[T] {
	r := &Router[T]{
		delimiter:   delimiter,
		root:        &node[T]{kind: KindStatic},
		constraints: NewConstraintRegistry(),
		nextID:      1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterConstraint binds name to predicate under typeTag in this
// Router's constraint registry. See ConstraintRegistry.Register.
func (r *Router[T]) RegisterConstraint(name string, predicate Predicate, typeTag string) error {
	return r.constraints.Register(name, predicate, typeTag)
}

func (r *Router[T]) emit(event DiagnosticEvent) {
	if r.diagnostics != nil {
		r.diagnostics(event)
	}
}
