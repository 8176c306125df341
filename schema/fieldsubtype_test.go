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

const subtypeSDL = `
type Query {
	node: Node
}

interface Node {
	id: ID!
}

type Employee implements Node {
	id: ID!
	manager: Node
}

type Manager implements Node {
	id: ID!
	manager: Employee!
}

union Account = Employee | Manager

type Team {
	lead: Account
}

type TeamWithStrictLead {
	lead: Employee!
}
`

func TestIsStructuralFieldSubtype_NonNullNarrowing(t *testing.T) {
	sch, err := NewSchema("org", subtypeSDL)
	require.NoError(t, err)

	employee := sch.Type("Employee").(ObjectType)
	manager := sch.Type("Manager").(ObjectType)

	// Manager.manager: Employee! is a subtype of Employee.manager: Node
	// (non-null narrows nullable, Employee implements Node).
	require.True(t, IsStructuralFieldSubtype(manager.Field("manager"), employee.Field("manager")))
	// Not symmetric: Node is not a subtype of Employee!.
	require.False(t, IsStructuralFieldSubtype(employee.Field("manager"), manager.Field("manager")))
}

func TestIsStructuralFieldSubtype_UnionMembership(t *testing.T) {
	sch, err := NewSchema("org", subtypeSDL)
	require.NoError(t, err)

	team := sch.Type("Team").(ObjectType)
	strict := sch.Type("TeamWithStrictLead").(ObjectType)

	require.True(t, IsStructuralFieldSubtype(strict.Field("lead"), team.Field("lead")))
}

func TestIsStructuralFieldSubtype_NameMismatch(t *testing.T) {
	sch, err := NewSchema("org", subtypeSDL)
	require.NoError(t, err)

	employee := sch.Type("Employee").(ObjectType)
	manager := sch.Type("Manager").(ObjectType)

	require.False(t, IsStructuralFieldSubtype(manager.Field("id"), employee.Field("manager")))
}
