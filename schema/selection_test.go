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

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const entitySDL = `
type Query {
	node: Node
}

interface Node {
	id: ID!
}

type Employee implements Node {
	id: ID!
	staffId: String!
}

type Customer implements Node {
	id: ID!
	loyaltyPoints: Int!
}
`

func TestParseSelectionSet_SimpleFields(t *testing.T) {
	sch, err := NewSchema("entities", entitySDL)
	require.NoError(t, err)

	employee := sch.Type("Employee")
	sel, err := ParseSelectionSet(employee, "id staffId")
	require.NoError(t, err)
	require.Len(t, sel.Selections(), 2)
	require.Equal(t, "id", sel.Selections()[0].FieldName)
	require.Equal(t, "staffId", sel.Selections()[1].FieldName)
}

func TestParseSelectionSet_NestedAndInlineFragment(t *testing.T) {
	sch, err := NewSchema("entities", entitySDL)
	require.NoError(t, err)

	node := sch.Type("Node")
	sel, err := ParseSelectionSet(node, "id ... on Employee { staffId }")
	require.NoError(t, err)
	require.Len(t, sel.Selections(), 2)

	frag := sel.Selections()[1]
	require.False(t, frag.IsField())
	require.Equal(t, "Employee", frag.TypeCondition.Name())
	require.Len(t, frag.InlineSet.Selections(), 1)
	require.Equal(t, "staffId", frag.InlineSet.Selections()[0].FieldName)
}

func TestParseSelectionSet_UnknownField(t *testing.T) {
	sch, err := NewSchema("entities", entitySDL)
	require.NoError(t, err)

	employee := sch.Type("Employee")
	_, err = ParseSelectionSet(employee, "doesNotExist")
	require.Error(t, err)
}

func TestSelectionSet_MergeIn_IsIdempotentAndCommutative(t *testing.T) {
	sch, err := NewSchema("entities", entitySDL)
	require.NoError(t, err)
	node := sch.Type("Node")

	a, err := ParseSelectionSet(node, "id ... on Employee { staffId }")
	require.NoError(t, err)
	b, err := ParseSelectionSet(node, "... on Employee { staffId } id")
	require.NoError(t, err)

	ab, err := ParseSelectionSet(node, "id")
	require.NoError(t, err)
	ab.MergeIn(a)
	ab.MergeIn(b)

	ba, err := ParseSelectionSet(node, "id")
	require.NoError(t, err)
	ba.MergeIn(b)
	ba.MergeIn(a)

	require.Equal(t, ab.String(), ba.String())

	again := ab.String()
	ab.MergeIn(a)
	require.Equal(t, again, ab.String())
}

func TestSelectionSet_String(t *testing.T) {
	sch, err := NewSchema("entities", entitySDL)
	require.NoError(t, err)
	employee := sch.Type("Employee")

	sel, err := ParseSelectionSet(employee, "id staffId")
	require.NoError(t, err)
	require.Equal(t, "{ id staffId }", sel.String())
}
