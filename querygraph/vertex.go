/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
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

package querygraph

import "github.com/hypermodeinc/querygraph/schema"

// Vertex is an indexed (type, source) position in a QueryGraph. index is
// stable and equals the vertex's position in the owning graph's vertex
// array.
type Vertex interface {
	Index() int
	Type() schema.NamedType
	Source() string
	// RootKind reports the root kind this vertex serves, and whether it
	// serves one at all -- i.e. whether it is in fact a *RootVertex.
	RootKind() (schema.RootKind, bool)
}

// vertex is the plain (non-root) Vertex implementation.
type vertex struct {
	index  int
	typ    schema.NamedType
	source string
}

func (v *vertex) Index() int                        { return v.index }
func (v *vertex) Type() schema.NamedType             { return v.typ }
func (v *vertex) Source() string                     { return v.source }
func (v *vertex) RootKind() (schema.RootKind, bool)  { return "", false }

// RootVertex is a Vertex additionally serving as the entry point for one
// root operation kind (query, mutation, subscription).
type RootVertex struct {
	index    int
	typ      schema.NamedType
	source   string
	rootKind schema.RootKind
}

func (v *RootVertex) Index() int                       { return v.index }
func (v *RootVertex) Type() schema.NamedType            { return v.typ }
func (v *RootVertex) Source() string                    { return v.source }
func (v *RootVertex) Kind() schema.RootKind             { return v.rootKind }
func (v *RootVertex) RootKind() (schema.RootKind, bool) { return v.rootKind, true }

// FederatedRootSource is the constant source name synthetic federated-root
// vertices belong to.
const FederatedRootSource = "federated_subgraphs"

// FederatedRootTypeName is the synthetic object type name a federated root
// vertex carries for a given root kind, e.g. "[query]".
func FederatedRootTypeName(kind schema.RootKind) string {
	return "[" + string(kind) + "]"
}
