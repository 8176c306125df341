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

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hypermodeinc/querygraph/schema"
)

// rootKindOrder fixes a deterministic enumeration order for root kinds,
// used by RootKinds/Roots and therefore by anything (SimpleTraversal) that
// seeds from the order roots() returns.
var rootKindOrder = []schema.RootKind{schema.Query, schema.Mutation, schema.Subscription}

// QueryGraph is the immutable container built by a GraphBuilder: a dense
// vertex array, per-vertex adjacency lists, a type-name -> vertex-index
// multimap, a root-kind -> root-vertex map, and a source-name -> schema map.
//
// Once returned from Build, a QueryGraph is never mutated again; it may be
// read freely by concurrent callers.
type QueryGraph struct {
	name            string
	vertices        []Vertex
	adjacencies     [][]*Edge
	typesToVertices map[string][]int
	rootVertices    map[schema.RootKind]*RootVertex
	sources         map[string]schema.Schema
}

// Name is the graph's identifying label (a subgraph name, or the federated
// root source name for a federated graph).
func (g *QueryGraph) Name() string { return g.name }

// VerticesCount is the number of vertices in the graph.
func (g *QueryGraph) VerticesCount() int { return len(g.vertices) }

// EdgesCount is the total number of edges across all vertices.
func (g *QueryGraph) EdgesCount() int {
	n := 0
	for _, adj := range g.adjacencies {
		n += len(adj)
	}
	return n
}

// RootKinds enumerates the root kinds this graph has a root vertex for, in a
// fixed (query, mutation, subscription) order.
func (g *QueryGraph) RootKinds() []schema.RootKind {
	var out []schema.RootKind
	for _, k := range rootKindOrder {
		if _, ok := g.rootVertices[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Roots returns every root vertex, ordered per RootKinds.
func (g *QueryGraph) Roots() []*RootVertex {
	out := make([]*RootVertex, 0, len(g.rootVertices))
	for _, k := range g.RootKinds() {
		out = append(out, g.rootVertices[k])
	}
	return out
}

// Root looks up the root vertex for kind, if any.
func (g *QueryGraph) Root(kind schema.RootKind) (*RootVertex, bool) {
	rv, ok := g.rootVertices[kind]
	return rv, ok
}

// Vertex returns the vertex at index, or nil if out of range.
func (g *QueryGraph) Vertex(index int) Vertex {
	if index < 0 || index >= len(g.vertices) {
		return nil
	}
	return g.vertices[index]
}

// OutEdges returns v's adjacency: every edge with v as its head.
//
// Precondition: v belongs to this graph.
func (g *QueryGraph) OutEdges(v Vertex) []*Edge {
	return g.adjacencies[v.Index()]
}

// OutEdge returns the i-th out-edge of v, or (nil, false) if i is out of
// range.
func (g *QueryGraph) OutEdge(v Vertex, i int) (*Edge, bool) {
	adj := g.adjacencies[v.Index()]
	if i < 0 || i >= len(adj) {
		return nil, false
	}
	return adj[i], true
}

// IsTerminal reports whether v has no out-edges.
func (g *QueryGraph) IsTerminal(v Vertex) bool {
	return len(g.OutEdges(v)) == 0
}

// VerticesForType returns every vertex whose type has the given name, in
// insertion order, or nil if there is none.
func (g *QueryGraph) VerticesForType(name string) []Vertex {
	indices := g.typesToVertices[name]
	if len(indices) == 0 {
		return nil
	}
	out := make([]Vertex, len(indices))
	for i, idx := range indices {
		out[i] = g.vertices[idx]
	}
	return out
}

// Sources returns the source-name -> schema map backing this graph.
func (g *QueryGraph) Sources() map[string]schema.Schema {
	return g.sources
}

// Describe renders a one-line human-readable summary: name, vertex/edge
// counts, root kinds, and per-source vertex counts. Used by build-phase
// logging and the querygraphdump CLI; it has no bearing on the graph's
// invariants.
func (g *QueryGraph) Describe() string {
	perSource := map[string]int{}
	for _, v := range g.vertices {
		perSource[v.Source()]++
	}
	var sourceNames []string
	for name := range perSource {
		sourceNames = append(sourceNames, name)
	}
	sort.Strings(sourceNames)

	var parts []string
	for _, name := range sourceNames {
		parts = append(parts, fmt.Sprintf("%s:%s", name, humanize.Comma(int64(perSource[name]))))
	}

	var kinds []string
	for _, k := range g.RootKinds() {
		kinds = append(kinds, string(k))
	}

	return fmt.Sprintf("graph %q: %s vertices, %s edges, roots=[%s], sources={%s}",
		g.name,
		humanize.Comma(int64(g.VerticesCount())),
		humanize.Comma(int64(g.EdgesCount())),
		strings.Join(kinds, ","),
		strings.Join(parts, ", "))
}
