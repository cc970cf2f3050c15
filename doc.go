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

// Package pathtrie implements a compressed, prioritized, multi-kind
// prefix tree that maps templated route patterns to user-supplied
// values.
//
// A template is a delimiter-separated string that may contain static
// text, named dynamic segments ("{id}"), named constrained segments
// ("{id:u32}"), named wildcards ("{*rest}"), and optional groups
// ("(/{id})"). Router.Insert expands optional groups eagerly into one
// template per combination, stores them all under a single template
// id, and Router.Search descends a concrete path through the tree to
// find the single highest-priority matching template along with its
// captured parameters.
//
// The tree is not safe for concurrent mutation: Insert and Delete must
// be serialized with respect to each other and with Search by the
// caller (for example with a sync.RWMutex), exactly as a single-
// threaded radix tree would be used inside an HTTP router's
// configuration phase.
package pathtrie
