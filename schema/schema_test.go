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

const productSDL = `
type Query {
	product(id: ID!): Product
	allProducts: [Product!]!
}

interface Node {
	id: ID!
}

type Product implements Node @key(fields: "id") {
	id: ID!
	name: String!
	price: Int! @external
	reviews: [Review!]!
}

type Review {
	id: ID!
	body: String!
}
`

func TestNewSchema_RootsAndTypes(t *testing.T) {
	sch, err := NewSchema("catalog", productSDL)
	require.NoError(t, err)

	query, ok := sch.Root(Query)
	require.True(t, ok)
	require.Equal(t, "Query", query.Name())

	_, ok = sch.Root(Mutation)
	require.False(t, ok)

	var names []string
	for _, t := range sch.Types() {
		names = append(names, t.Name())
	}
	require.Equal(t, []string{"Node", "Product", "Query", "Review"}, names)
}

func TestObjectType_FieldAndInterfaces(t *testing.T) {
	sch, err := NewSchema("catalog", productSDL)
	require.NoError(t, err)

	product := sch.Type("Product").(ObjectType)
	require.Len(t, product.Interfaces(), 1)
	require.Equal(t, "Node", product.Interfaces()[0].Name())

	id := product.Field("id")
	require.False(t, id.IsZero())
	require.Equal(t, "ID", id.BaseType().Name())

	missing := product.Field("doesNotExist")
	require.True(t, missing.IsZero())
}

func TestInterfaceType_PossibleRuntimeTypes(t *testing.T) {
	sch, err := NewSchema("catalog", productSDL)
	require.NoError(t, err)

	node := sch.Type("Node").(InterfaceType)
	possible := node.PossibleRuntimeTypes()
	require.Len(t, possible, 1)
	require.Equal(t, "Product", possible[0].Name())
}

func TestFieldDefinition_AppliedDirective(t *testing.T) {
	sch, err := NewSchema("catalog", productSDL)
	require.NoError(t, err)

	product := sch.Type("Product").(ObjectType)
	require.True(t, product.Field("price").HasAppliedDirective(ExternalDirective))
	require.False(t, product.Field("name").HasAppliedDirective(ExternalDirective))
}

func TestNewSchema_InvalidSDL(t *testing.T) {
	_, err := NewSchema("broken", "type Query { field: DoesNotExist }")
	require.Error(t, err)
}
