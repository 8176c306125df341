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

	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/querygraph/schema"
)

const twoTypeSDL = `
type Query {
	a: A
}

type A {
	x: Int
}
`

func TestGraphBuilder_CreateAndBuild(t *testing.T) {
	sch, err := schema.NewSchema("s1", twoTypeSDL)
	require.NoError(t, err)

	b := NewGraphBuilder()
	queryV := b.CreateRootVertex(schema.Query, sch.Type("Query"), "s1", sch)
	aV := b.CreateNewVertex(sch.Type("A"), "s1", sch)
	b.AddEdge(queryV, aV, FieldCollection(sch.Type("Query").(schema.ObjectType).Field("a")), nil)

	g := b.Build("s1")
	require.Equal(t, 2, g.VerticesCount())
	require.Equal(t, 1, g.EdgesCount())

	for i := 0; i < g.VerticesCount(); i++ {
		require.Equal(t, i, g.Vertex(i).Index())
	}

	root, ok := g.Root(schema.Query)
	require.True(t, ok)
	require.Equal(t, 0, root.Index())
}

func TestGraphBuilder_SetAsRootRewritesExistingOutEdges(t *testing.T) {
	sch, err := schema.NewSchema("s1", twoTypeSDL)
	require.NoError(t, err)

	b := NewGraphBuilder()
	queryV := b.CreateNewVertex(sch.Type("Query"), "s1", sch)
	aV := b.CreateNewVertex(sch.Type("A"), "s1", sch)
	e := b.AddEdge(queryV, aV, FieldCollection(sch.Type("Query").(schema.ObjectType).Field("a")), nil)
	require.Same(t, queryV, e.Head)

	root := b.SetAsRoot(schema.Query, queryV.Index())
	headRoot, ok := e.Head.(*RootVertex)
	require.True(t, ok)
	require.Same(t, root, headRoot)
	require.Equal(t, 0, e.Index)
	require.Same(t, aV, e.Tail)
}

func TestGraphBuilder_UpdateEdgeTail(t *testing.T) {
	sch, err := schema.NewSchema("s1", twoTypeSDL)
	require.NoError(t, err)

	b := NewGraphBuilder()
	queryV := b.CreateNewVertex(sch.Type("Query"), "s1", sch)
	aV := b.CreateNewVertex(sch.Type("A"), "s1", sch)
	aV2 := b.CreateNewVertex(sch.Type("A"), "s1", sch)
	e := b.AddEdge(queryV, aV, FieldCollection(sch.Type("Query").(schema.ObjectType).Field("a")), nil)

	updated := b.UpdateEdgeTail(e, aV2)
	require.Same(t, aV2, updated.Tail)

	got, ok := b.Edge(queryV, 0)
	require.True(t, ok)
	require.Same(t, updated, got)
}

func TestGraphBuilder_MakeCopyHasNoInEdges(t *testing.T) {
	sch, err := schema.NewSchema("s1", twoTypeSDL)
	require.NoError(t, err)

	b := NewGraphBuilder()
	aV := b.CreateNewVertex(sch.Type("A"), "s1", sch)
	intV := b.CreateNewVertex(sch.Type("Int"), "s1", sch)
	field := sch.Type("A").(schema.ObjectType).Field("x")
	b.AddEdge(aV, intV, FieldCollection(field), nil)

	copyV := b.MakeCopy(aV)
	require.NotEqual(t, aV.Index(), copyV.Index())
	require.Equal(t, aV.Type().Name(), copyV.Type().Name())
	require.Equal(t, aV.Source(), copyV.Source())

	copyOut := b.OutEdges(copyV)
	require.Len(t, copyOut, 1)
	require.Same(t, intV, copyOut[0].Tail)
	require.Equal(t, 0, copyOut[0].Index)

	for _, v := range []Vertex{aV, intV, copyV} {
		for _, e := range b.OutEdges(v) {
			require.NotSame(t, copyV, e.Tail)
		}
	}
}

func TestGraphBuilder_CopyGraphPreservesTypeAndSourceModuloOffset(t *testing.T) {
	sch, err := schema.NewSchema("s1", twoTypeSDL)
	require.NoError(t, err)

	src := NewSchemaGraphBuilder("s1", sch, nil)
	g := src.BuildSchemaGraph("s1")

	dst := NewGraphBuilder()
	// reserve one slot first, to exercise a non-zero offset.
	dst.CreateNewVertex(schema.NewSyntheticType("[placeholder]"), "federated_subgraphs", nil)

	ptr := dst.CopyGraph(g)
	for i := 0; i < g.VerticesCount(); i++ {
		old := g.Vertex(i)
		newIndex := ptr.Index(old)
		newV, ok := dst.Vertex(newIndex)
		require.True(t, ok)
		require.Equal(t, old.Type().Name(), newV.Type().Name())
		require.Equal(t, old.Source(), newV.Source())
	}
}
