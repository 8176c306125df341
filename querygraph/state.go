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

// QueryGraphState is an external, mutable side table attaching caller-owned
// state to a QueryGraph's vertices and edges by index, without touching the
// graph itself. It does not extend the lifetime of the graph it is built
// over, and it is not safe for concurrent use by itself (callers own it
// exclusively, same as a GraphBuilder).
type QueryGraphState[V any, E any] struct {
	graph       *QueryGraph
	vertexState []*V
	edgeState   [][]*E // allocated lazily per head, on first edge write for that head
}

// NewQueryGraphState creates a side table sized for g.
func NewQueryGraphState[V any, E any](g *QueryGraph) *QueryGraphState[V, E] {
	return &QueryGraphState[V, E]{
		graph:       g,
		vertexState: make([]*V, g.VerticesCount()),
		edgeState:   make([][]*E, g.VerticesCount()),
	}
}

// SetVertex attaches val to v.
func (s *QueryGraphState[V, E]) SetVertex(v Vertex, val V) {
	s.vertexState[v.Index()] = &val
}

// GetVertex returns v's attached state, or (zero, false) if unset.
func (s *QueryGraphState[V, E]) GetVertex(v Vertex) (V, bool) {
	p := s.vertexState[v.Index()]
	if p == nil {
		var zero V
		return zero, false
	}
	return *p, true
}

// RemoveVertex clears v's attached state.
func (s *QueryGraphState[V, E]) RemoveVertex(v Vertex) {
	s.vertexState[v.Index()] = nil
}

// SetEdge attaches val to e.
func (s *QueryGraphState[V, E]) SetEdge(e *Edge, val E) {
	h := e.Head.Index()
	if s.edgeState[h] == nil {
		s.edgeState[h] = make([]*E, len(s.graph.adjacencies[h]))
	}
	s.edgeState[h][e.Index] = &val
}

// GetEdge returns e's attached state, or (zero, false) if unset.
func (s *QueryGraphState[V, E]) GetEdge(e *Edge) (E, bool) {
	h := e.Head.Index()
	if s.edgeState[h] == nil {
		var zero E
		return zero, false
	}
	p := s.edgeState[h][e.Index]
	if p == nil {
		var zero E
		return zero, false
	}
	return *p, true
}

// RemoveEdge clears e's attached state.
func (s *QueryGraphState[V, E]) RemoveEdge(e *Edge) {
	h := e.Head.Index()
	if s.edgeState[h] != nil {
		s.edgeState[h][e.Index] = nil
	}
}
