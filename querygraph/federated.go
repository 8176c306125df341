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
	"github.com/golang/glog"

	"github.com/hypermodeinc/querygraph/schema"
	"github.com/hypermodeinc/querygraph/x"
)

// FederatedGraphBuilder orchestrates building one query graph per subgraph
// extracted from a supergraph, copying them into a single builder behind a
// synthetic federated root per root-kind, then wiring @key, @requires, and
// @provides edges across them.
type FederatedGraphBuilder struct {
	*GraphBuilder
	supergraph schema.Schema
}

// NewFederatedGraphBuilder creates a builder targeting supergraph.
func NewFederatedGraphBuilder(supergraph schema.Schema) *FederatedGraphBuilder {
	return &FederatedGraphBuilder{GraphBuilder: NewGraphBuilder(), supergraph: supergraph}
}

// subgraphBuild pairs an extracted subgraph with its own query graph and
// the pointer mapping its vertices into the federated builder.
type subgraphBuild struct {
	subgraph schema.Subgraph
	graph    *QueryGraph
	copy     CopyPointer
}

// Build runs the full federation algorithm, in ten steps, and returns the
// finished federated query graph.
func (b *FederatedGraphBuilder) Build() *QueryGraph {
	// 1. Extract the set of subgraphs.
	subgraphs, err := schema.ExtractSubgraphsFromSupergraph(b.supergraph)
	x.Checkf(err, "extracting subgraphs from supergraph")
	glog.Infof("querygraph: extracted %d subgraphs from supergraph", len(subgraphs))

	// 2. Build a per-subgraph query graph, with supergraph context enabling
	// interface-field shortcuts.
	builds := make([]*subgraphBuild, 0, len(subgraphs))
	rootKindSeen := map[schema.RootKind]bool{}
	for _, sg := range subgraphs {
		sgb := NewSchemaGraphBuilder(sg.Name, sg.Schema, b.supergraph)
		g := sgb.BuildSchemaGraph(sg.Name)
		builds = append(builds, &subgraphBuild{subgraph: sg, graph: g})
		for _, k := range g.RootKinds() {
			rootKindSeen[k] = true
		}
	}

	var kinds []schema.RootKind
	for _, k := range rootKindOrder {
		if rootKindSeen[k] {
			kinds = append(kinds, k)
		}
	}

	// 3. Sizing is implicit: createVertexAt/CreateNewVertex grow on demand,
	// and steps 4-5 below place the synthetic roots in the first len(kinds)
	// indices before any CopyGraph call advances nextIndex, so the final
	// layout is synthetic roots first, then each subgraph's copy in turn.

	// 4. Allocate federated roots.
	federatedRoots := map[schema.RootKind]*RootVertex{}
	for _, k := range kinds {
		typ := schema.NewSyntheticType(FederatedRootTypeName(k))
		federatedRoots[k] = b.CreateRootVertex(k, typ, FederatedRootSource, nil)
	}

	// 5. Copy each subgraph graph into the builder.
	for _, sb := range builds {
		sb.copy = b.CopyGraph(sb.graph)
	}

	// 6. Link roots: a FreeTransition edge from the federated root for k to
	// the copy of that subgraph's own root for k.
	for _, sb := range builds {
		for _, k := range sb.graph.RootKinds() {
			subRoot, _ := sb.graph.Root(k)
			b.AddEdge(federatedRoots[k], b.resolveCopy(sb.copy, subRoot), FreeTransitionValue(), nil)
		}
	}

	// 7. Add @key edges.
	b.addKeyEdges(builds)

	// 8. Add @requires conditions.
	b.addRequiresConditions(builds)

	// 9. Add @provides edges.
	b.addProvidesEdges(builds)

	// 10. Finalise.
	g := b.GraphBuilder.Build(FederatedRootSource)
	glog.Infof("querygraph: %s", g.Describe())
	return g
}

// addKeyEdges implements step 7: for every vertex whose type carries one or
// more @key applications, and for every other subgraph that has a vertex
// for that type-name, add a KeyResolution edge from that other subgraph's
// copy to this subgraph's copy, conditioned on the key's parsed fields.
func (b *FederatedGraphBuilder) addKeyEdges(builds []*subgraphBuild) {
	for _, a := range builds {
		for idx := 0; idx < a.graph.VerticesCount(); idx++ {
			v := a.graph.Vertex(idx)
			t := v.Type()
			keys := schema.KeyDirectives(t)
			if len(keys) == 0 {
				continue
			}
			x.AssertTruef(t.IsObject() || t.IsInterface(), "@key on non-composite type %s", t.Name())

			for _, key := range keys {
				sel, err := schema.ParseSelectionSet(t, key.Fields)
				x.Checkf(err, "parsing @key(fields: %q) on %s", key.Fields, t.Name())

				for _, other := range builds {
					if other == a {
						continue
					}
					otherVertices := other.graph.VerticesForType(t.Name())
					if len(otherVertices) == 0 {
						continue
					}
					x.AssertTruef(len(otherVertices) == 1,
						"subgraph %s has more than one vertex for type %s before @provides handling",
						other.subgraph.Name, t.Name())

					fromCopy := b.resolveCopy(other.copy, otherVertices[0])
					toCopy := b.resolveCopy(a.copy, v)
					b.AddEdge(fromCopy, toCopy, KeyResolution(), sel)
				}
			}
		}
	}
}

// addRequiresConditions implements step 8: merge each @requires field's
// parsed condition selection into the corresponding copied edge's existing
// conditions.
func (b *FederatedGraphBuilder) addRequiresConditions(builds []*subgraphBuild) {
	for _, sb := range builds {
		for idx := 0; idx < sb.graph.VerticesCount(); idx++ {
			head := sb.graph.Vertex(idx)
			for _, e := range sb.graph.OutEdges(head) {
				if e.Transition.Kind != FieldCollectionKind {
					continue
				}
				req := schema.RequiresOf(e.Transition.Field)
				if req == nil {
					continue
				}
				sel, err := schema.ParseSelectionSet(head.Type(), req.Fields)
				x.Checkf(err, "parsing @requires(fields: %q) on %s", req.Fields, head.Type().Name())

				headCopy := b.resolveCopy(sb.copy, head)
				copiedEdge, ok := b.Edge(headCopy, e.Index)
				x.AssertTruef(ok, "missing copied edge at head %d index %d", headCopy.Index(), e.Index)
				copiedEdge.addToConditions(sel)
			}
		}
	}
}

// addProvidesEdges implements step 9: redirect each @provides field's
// copied edge to an isolated copy of its tail, then materialise the
// provides selection from that isolated copy.
func (b *FederatedGraphBuilder) addProvidesEdges(builds []*subgraphBuild) {
	for _, sb := range builds {
		for idx := 0; idx < sb.graph.VerticesCount(); idx++ {
			head := sb.graph.Vertex(idx)
			for _, e := range sb.graph.OutEdges(head) {
				if e.Transition.Kind != FieldCollectionKind {
					continue
				}
				prov := schema.ProvidesOf(e.Transition.Field)
				if prov == nil {
					continue
				}

				base := e.Transition.Field.BaseType()
				x.AssertTruef(base.IsObject() || base.IsInterface(),
					"@provides on field %s with non-composite base type %s", e.Transition.Field.Name, base.Name())

				sel, err := schema.ParseSelectionSet(base, prov.Fields)
				x.Checkf(err, "parsing @provides(fields: %q) on %s", prov.Fields, base.Name())

				headCopy := b.resolveCopy(sb.copy, head)
				copiedEdge, ok := b.Edge(headCopy, e.Index)
				x.AssertTruef(ok, "missing copied edge at head %d index %d", headCopy.Index(), e.Index)

				tailPrime := b.MakeCopy(copiedEdge.Tail)
				b.UpdateEdgeTail(copiedEdge, tailPrime)

				b.materializeProvides(sb.subgraph.Name, tailPrime, sel)
			}
		}
	}
}

// materializeProvides walks a parsed @provides selection from owner,
// allocating a fresh non-leaf vertex per selected sub-field (the provide
// reaches only a subset of the type, so it can never alias an existing
// vertex), reusing an existing same-source vertex for a leaf field's type
// when one exists, and inserting an intermediate DownCast vertex for every
// inline fragment with a type condition.
func (b *FederatedGraphBuilder) materializeProvides(source string, owner Vertex, sel *schema.SelectionSet) {
	for _, s := range sel.Selections() {
		if !s.IsField() {
			// An inline fragment without a type condition resolves to its
			// parent type: continue from owner.
			if s.TypeCondition.Name() == s.ParentType.Name() {
				b.materializeProvides(source, owner, s.InlineSet)
				continue
			}
			castVertex := b.CreateNewVertex(s.TypeCondition, source, b.sources[source])
			b.AddEdge(owner, castVertex, DownCast(owner.Type(), s.TypeCondition), nil)
			b.materializeProvides(source, castVertex, s.InlineSet)
			continue
		}
		b.materializeProvidesField(source, owner, s)
	}
}

func (b *FederatedGraphBuilder) materializeProvidesField(source string, owner Vertex, s *schema.Selection) {
	base := s.Field.BaseType()
	isLeaf := s.FieldSet == nil || len(s.FieldSet.Selections()) == 0

	var fieldVertex Vertex
	if isLeaf {
		if v, ok := b.findVertex(source, base.Name()); ok {
			fieldVertex = v
		} else {
			fieldVertex = b.CreateNewVertex(base, source, b.sources[source])
		}
	} else {
		fieldVertex = b.CreateNewVertex(base, source, b.sources[source])
	}

	b.AddEdge(owner, fieldVertex, FieldCollection(*s.Field), nil)

	if !isLeaf {
		b.materializeProvides(source, fieldVertex, s.FieldSet)
	}
}
