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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/querygraph/schema"
)

// Universal graph invariants over a concrete supergraph API graph.
func TestQueryGraph_UniversalInvariants(t *testing.T) {
	sch, err := schema.NewSchema("s1", unionSDL)
	require.NoError(t, err)
	g := BuildSupergraphAPIQueryGraph(sch)

	for i := 0; i < g.VerticesCount(); i++ {
		require.Equal(t, i, g.Vertex(i).Index())
	}

	for i := 0; i < g.VerticesCount(); i++ {
		v := g.Vertex(i)
		for pos, e := range g.OutEdges(v) {
			require.Equal(t, v.Index(), e.Head.Index())
			require.Equal(t, pos, e.Index)
			_, headOK := g.Sources()[e.Head.Source()]
			_, tailOK := g.Sources()[e.Tail.Source()]
			require.True(t, headOK)
			require.True(t, tailOK)
			// supergraph API graph: no conditions, no KeyResolution.
			require.Nil(t, e.Conditions)
			require.NotEqual(t, KeyResolutionKind, e.Transition.Kind)
		}
	}
}

func TestQueryGraph_VerticesForType_EmptyForUnknownType(t *testing.T) {
	sch, err := schema.NewSchema("s1", twoTypeSDL)
	require.NoError(t, err)
	g := BuildSupergraphAPIQueryGraph(sch)
	require.Empty(t, g.VerticesForType("DoesNotExist"))
}

func TestQueryGraph_Describe(t *testing.T) {
	sch, err := schema.NewSchema("s1", twoTypeSDL)
	require.NoError(t, err)
	g := BuildSupergraphAPIQueryGraph(sch)
	require.Contains(t, g.Describe(), "vertices")
	require.Contains(t, g.Describe(), "s1")
}

type graphShape struct {
	VertexCount     int
	EdgeCount       int
	TypeVertexCount map[string]int
	TransitionKinds map[string]int
}

func shapeOf(g *QueryGraph) graphShape {
	s := graphShape{
		VertexCount:     g.VerticesCount(),
		EdgeCount:       g.EdgesCount(),
		TypeVertexCount: map[string]int{},
		TransitionKinds: map[string]int{},
	}
	for i := 0; i < g.VerticesCount(); i++ {
		v := g.Vertex(i)
		s.TypeVertexCount[v.Type().Name()]++
		for _, e := range g.OutEdges(v) {
			s.TransitionKinds[e.Transition.Kind.String()]++
		}
	}
	return s
}

// Round-trip/idempotence: building a graph twice from the same schema
// produces isomorphic graphs.
func TestBuildQueryGraph_RoundTripIsomorphic(t *testing.T) {
	sch, err := schema.NewSchema("s1", unionSDL)
	require.NoError(t, err)

	g1 := BuildSupergraphAPIQueryGraph(sch)
	g2 := BuildSupergraphAPIQueryGraph(sch)

	if diff := cmp.Diff(shapeOf(g1), shapeOf(g2)); diff != "" {
		t.Fatalf("graphs are not isomorphic (-g1 +g2):\n%s", diff)
	}
}
