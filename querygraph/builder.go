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
	"strconv"
	"strings"

	farm "github.com/dgryski/go-farm"

	"github.com/hypermodeinc/querygraph/schema"
	"github.com/hypermodeinc/querygraph/x"
)

// GraphBuilder is mutable scaffolding for vertices, edges, roots, and
// sources. It is consumed exactly once by Build into an immutable
// QueryGraph.
type GraphBuilder struct {
	vertices     []Vertex
	adjacencies  [][]*Edge
	rootVertices map[schema.RootKind]*RootVertex
	sources      map[string]schema.Schema
	nextIndex    int
	built        bool
}

// NewGraphBuilder creates an empty builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		rootVertices: map[schema.RootKind]*RootVertex{},
		sources:      map[string]schema.Schema{},
	}
}

func (b *GraphBuilder) ensureCapacity(index int) {
	for len(b.vertices) <= index {
		b.vertices = append(b.vertices, nil)
		b.adjacencies = append(b.adjacencies, nil)
	}
}

// CreateNewVertex allocates a vertex at the next free index, registering the
// source -> schema mapping on first sight of source.
func (b *GraphBuilder) CreateNewVertex(typ schema.NamedType, source string, sch schema.Schema) Vertex {
	return b.createVertexAt(b.nextIndex, typ, source, sch)
}

// createVertexAt allocates a vertex at an explicit index, failing if that
// slot is already occupied. Used directly by CopyGraph, which needs index
// control CreateNewVertex doesn't expose.
func (b *GraphBuilder) createVertexAt(index int, typ schema.NamedType, source string, sch schema.Schema) Vertex {
	x.AssertTruef(!b.built, "builder already finalised by Build")
	b.ensureCapacity(index)
	x.AssertTruef(b.vertices[index] == nil, "vertex slot %d is already occupied", index)

	v := &vertex{index: index, typ: typ, source: source}
	b.vertices[index] = v
	b.adjacencies[index] = []*Edge{}

	if _, ok := b.sources[source]; !ok {
		b.sources[source] = sch
	}
	if index >= b.nextIndex {
		b.nextIndex = index + 1
	}
	return v
}

// CreateRootVertex creates a vertex and immediately promotes it to root for
// kind. Fails if a root for that kind already exists.
func (b *GraphBuilder) CreateRootVertex(kind schema.RootKind, typ schema.NamedType, source string, sch schema.Schema) *RootVertex {
	x.AssertTruef(b.rootVertices[kind] == nil, "root for kind %s already exists", kind)
	v := b.CreateNewVertex(typ, source, sch)
	return b.SetAsRoot(kind, v.Index())
}

// SetAsRoot replaces the vertex at index with its RootVertex wrapping,
// rewriting every one of its existing out-edges so their head points at the
// new wrapper (tail, transition, conditions, and index all preserved).
func (b *GraphBuilder) SetAsRoot(kind schema.RootKind, index int) *RootVertex {
	x.AssertTruef(!b.built, "builder already finalised by Build")
	x.AssertTruef(b.rootVertices[kind] == nil, "root for kind %s already exists", kind)

	old := b.vertices[index]
	x.AssertTruef(old != nil, "no vertex at index %d to promote to root", index)

	rv := &RootVertex{index: old.Index(), typ: old.Type(), source: old.Source(), rootKind: kind}
	b.vertices[index] = rv

	for _, e := range b.adjacencies[index] {
		e.Head = rv
	}

	b.rootVertices[kind] = rv
	return rv
}

// AddEdge appends an edge to head's adjacency; the new edge's local index
// equals the prior length of that adjacency.
func (b *GraphBuilder) AddEdge(head, tail Vertex, transition Transition, conditions *schema.SelectionSet) *Edge {
	x.AssertTruef(!b.built, "builder already finalised by Build")
	idx := len(b.adjacencies[head.Index()])
	e := &Edge{Head: head, Tail: tail, Transition: transition, Conditions: cloneSelectionSet(conditions), Index: idx}
	b.adjacencies[head.Index()] = append(b.adjacencies[head.Index()], e)
	return e
}

// Edge returns the i-th out-edge of head, or (nil, false) if i is out of
// range.
func (b *GraphBuilder) Edge(head Vertex, i int) (*Edge, bool) {
	adj := b.adjacencies[head.Index()]
	if i < 0 || i >= len(adj) {
		return nil, false
	}
	return adj[i], true
}

// Vertex returns the vertex at i, or (nil, false) if i is out of range or
// unoccupied.
func (b *GraphBuilder) Vertex(i int) (Vertex, bool) {
	if i < 0 || i >= len(b.vertices) || b.vertices[i] == nil {
		return nil, false
	}
	return b.vertices[i], true
}

// OutEdges returns v's current adjacency.
func (b *GraphBuilder) OutEdges(v Vertex) []*Edge {
	return b.adjacencies[v.Index()]
}

// UpdateEdgeTail replaces the edge at (e.Head, e.Index) with an identical
// edge whose tail is newTail.
//
// Precondition: e is still the current occupant of that slot.
func (b *GraphBuilder) UpdateEdgeTail(e *Edge, newTail Vertex) *Edge {
	adj := b.adjacencies[e.Head.Index()]
	x.AssertTruef(e.Index >= 0 && e.Index < len(adj) && adj[e.Index] == e,
		"edge at head %d index %d is not the current occupant of its slot", e.Head.Index(), e.Index)

	newEdge := &Edge{Head: e.Head, Tail: newTail, Transition: e.Transition, Conditions: e.Conditions, Index: e.Index}
	adj[e.Index] = newEdge
	return newEdge
}

// MakeCopy allocates a fresh vertex with the same type and source as v,
// copying v's out-edges one-for-one (same transitions, conditions, and
// tails; indices preserved). The copy has no in-edges.
func (b *GraphBuilder) MakeCopy(v Vertex) Vertex {
	nv := b.CreateNewVertex(v.Type(), v.Source(), b.sources[v.Source()])

	srcAdj := b.adjacencies[v.Index()]
	dstAdj := make([]*Edge, len(srcAdj))
	for i, e := range srcAdj {
		dstAdj[i] = &Edge{Head: nv, Tail: e.Tail, Transition: e.Transition, Conditions: e.Conditions, Index: i}
	}
	b.adjacencies[nv.Index()] = dstAdj
	return nv
}

// CopyPointer maps vertices of the graph a CopyGraph call copied from, to
// the index their copy occupies in the destination builder: (oldVertex) ->
// newVertex, via index arithmetic rather than a lookup table.
type CopyPointer struct {
	offset int
}

// Index is the index, within the destination builder, that old's copy
// occupies. Resolve the copy itself with the destination builder's Vertex
// method.
func (p CopyPointer) Index(old Vertex) int {
	return old.Index() + p.offset
}

// resolveCopy resolves old's copy directly against b, which must be the builder
// this pointer's CopyGraph call copied into.
func (b *GraphBuilder) resolveCopy(p CopyPointer, old Vertex) Vertex {
	v, ok := b.Vertex(p.Index(old))
	x.AssertTruef(ok, "copy pointer offset %d has no vertex for old index %d", p.offset, old.Index())
	return v
}

// CopyGraph copies every vertex and edge of g into this builder, offset by
// the builder's current nextIndex, and reserves g.VerticesCount() slots for
// it regardless of how many of those vertices are actually reachable (the
// federated builder's vertex layout in federated.go depends on
// this). Traversal uses SimpleTraversal, so per-vertex out-edge order in the
// copy matches the source exactly -- downstream steps (@requires merging,
// @provides duplication) rely on corresponding edges sharing local index.
func (b *GraphBuilder) CopyGraph(g *QueryGraph) CopyPointer {
	x.AssertTruef(!b.built, "builder already finalised by Build")

	offset := b.nextIndex
	b.nextIndex += g.VerticesCount()
	if g.VerticesCount() > 0 {
		b.ensureCapacity(offset + g.VerticesCount() - 1)
	}

	created := map[uint64]bool{}
	ensure := func(old Vertex) Vertex {
		key := farmKey(old.Source(), old.Type().Name(), old.Index())
		newIndex := old.Index() + offset
		if !created[key] {
			b.createVertexAt(newIndex, old.Type(), old.Source(), g.sources[old.Source()])
			created[key] = true
		}
		v, _ := b.Vertex(newIndex)
		return v
	}

	SimpleTraversal(g, func(v Vertex) {
		ensure(v)
	}, func(e *Edge) bool {
		newHead := ensure(e.Head)
		newTail := ensure(e.Tail)
		b.AddEdge(newHead, newTail, e.Transition, e.Conditions)
		return true
	})

	return CopyPointer{offset: offset}
}

// Build freezes the builder's state into an immutable QueryGraph. It must
// be called at most once.
func (b *GraphBuilder) Build(name string) *QueryGraph {
	x.AssertTruef(!b.built, "Build called more than once")
	b.built = true

	typesToVertices := map[string][]int{}
	for i, v := range b.vertices {
		if v == nil {
			continue
		}
		typesToVertices[v.Type().Name()] = append(typesToVertices[v.Type().Name()], i)
	}

	return &QueryGraph{
		name:            name,
		vertices:        b.vertices,
		adjacencies:     b.adjacencies,
		typesToVertices: typesToVertices,
		rootVertices:    b.rootVertices,
		sources:         b.sources,
	}
}

// findVertex scans for a vertex with the given source and type name,
// returning the first one found. Used only by @provides materialisation
// (federated.go), which is not a hot path.
func (b *GraphBuilder) findVertex(source, typeName string) (Vertex, bool) {
	for _, v := range b.vertices {
		if v != nil && v.Source() == source && v.Type().Name() == typeName {
			return v, true
		}
	}
	return nil, false
}

// farmKey hashes a vertex's identifying fields into a single uint64 using
// go-farm's fingerprint, the same approach posting/list.go and
// xidmap/xidmap.go use to avoid Go's built-in string-keyed map hashing in
// hot per-vertex loops (copyGraph traversal, the schema builder's
// addTypeRecursively memoisation).
func farmKey(source, typeName string, index int) uint64 {
	var sb strings.Builder
	sb.WriteString(source)
	sb.WriteByte(0)
	sb.WriteString(typeName)
	sb.WriteByte(0)
	sb.WriteString(strconv.Itoa(index))
	return farm.Fingerprint64([]byte(sb.String()))
}
