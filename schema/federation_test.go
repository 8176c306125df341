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

const usersSubgraphSDL = `
type Query {
	me: User
}

type User @key(fields: "id") {
	id: ID!
	username: String!
}
`

const reviewsSubgraphSDL = `
type Query {
	reviews: [Review!]!
}

type User @key(fields: "id") {
	id: ID!
	reviews: [Review!]!
}

type Review {
	id: ID!
	body: String!
	author: User!
}
`

func TestIsFederationSubgraphSchema(t *testing.T) {
	sch, err := NewSchema("users", usersSubgraphSDL)
	require.NoError(t, err)
	require.True(t, IsFederationSubgraphSchema(sch))

	plain, err := NewSchema("plain", "type Query { hello: String }")
	require.NoError(t, err)
	require.False(t, IsFederationSubgraphSchema(plain))
}

func TestExtractSubgraphsFromSupergraph(t *testing.T) {
	sdl, err := ComposeSupergraphSDL([]SubgraphFixture{
		{Name: "users", SDL: usersSubgraphSDL},
		{Name: "reviews", SDL: reviewsSubgraphSDL},
	})
	require.NoError(t, err)

	supergraph, err := NewSchema("", sdl)
	require.NoError(t, err)

	subgraphs, err := ExtractSubgraphsFromSupergraph(supergraph)
	require.NoError(t, err)
	require.Len(t, subgraphs, 2)

	byName := map[string]Subgraph{}
	for _, s := range subgraphs {
		byName[s.Name] = s
	}

	users, ok := byName["users"]
	require.True(t, ok)
	userType := users.Schema.Type("User")
	require.NotNil(t, userType)
	require.Len(t, KeyDirectives(userType), 1)
	require.Equal(t, "id", KeyDirectives(userType)[0].Fields)

	reviews, ok := byName["reviews"]
	require.True(t, ok)
	reviewUserType := reviews.Schema.Type("User").(ObjectType)
	require.False(t, reviewUserType.Field("reviews").IsZero())
	// "username" belongs only to the users subgraph, so reviews' User type
	// must not have it at all (composer assigns, doesn't duplicate).
	require.True(t, reviewUserType.Field("username").IsZero())
}
