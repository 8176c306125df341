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

// Package querygraph builds and exposes the query graph: the immutable,
// indexed multigraph used to reason about queries spanning one or more
// GraphQL schemas.
package querygraph

import (
	"fmt"

	"github.com/hypermodeinc/querygraph/schema"
)

// TransitionKind tags the variant of a Transition.
type TransitionKind int

const (
	// FieldCollectionKind steps from an owner type to a field's base type
	// by selecting that field.
	FieldCollectionKind TransitionKind = iota
	// DownCastKind narrows from an interface/union position to an
	// implementation or member.
	DownCastKind
	// KeyResolutionKind is a cross-subgraph jump via an entity key.
	KeyResolutionKind
	// FreeTransitionKind is an unconditional synthetic step.
	FreeTransitionKind
)

func (k TransitionKind) String() string {
	switch k {
	case FieldCollectionKind:
		return "field"
	case DownCastKind:
		return "downcast"
	case KeyResolutionKind:
		return "key"
	case FreeTransitionKind:
		return "free"
	default:
		return "unknown"
	}
}

// Transition labels an Edge: it carries enough information to reproduce the
// semantics of the step it represents.
type Transition struct {
	Kind TransitionKind

	// Field is set for FieldCollectionKind.
	Field schema.FieldDefinition

	// FromType/ToType are set for DownCastKind.
	FromType schema.NamedType
	ToType   schema.NamedType
}

// FieldCollection builds a Transition stepping to field's base type by
// selecting field.
func FieldCollection(field schema.FieldDefinition) Transition {
	return Transition{Kind: FieldCollectionKind, Field: field}
}

// DownCast builds a Transition narrowing from an abstract type to a
// concrete/narrower one.
func DownCast(from, to schema.NamedType) Transition {
	return Transition{Kind: DownCastKind, FromType: from, ToType: to}
}

// KeyResolution builds the cross-subgraph entity-jump Transition.
func KeyResolution() Transition {
	return Transition{Kind: KeyResolutionKind}
}

// FreeTransitionValue builds the unconditional synthetic-step Transition.
func FreeTransitionValue() Transition {
	return Transition{Kind: FreeTransitionKind}
}

// String renders a human-readable form of the transition.
func (t Transition) String() string {
	switch t.Kind {
	case FieldCollectionKind:
		return fmt.Sprintf("field(%s)", t.Field.Name)
	case DownCastKind:
		return fmt.Sprintf("downcast(%s -> %s)", t.FromType.Name(), t.ToType.Name())
	case KeyResolutionKind:
		return "key"
	case FreeTransitionKind:
		return "free"
	default:
		return "?"
	}
}

// MatchesTransition reports whether a and b describe compatible steps.
// FieldCollections match iff one field is a structural field subtype of the
// other (the subtype test, delegated to the schema collaborator, is
// directional, so both directions are tried); DownCasts match iff their
// target type names are equal; every other pair of transitions of the same
// kind matches.
//
// Because both subtype directions are tried, matching is symmetric:
// MatchesTransition(a, b) == MatchesTransition(b, a).
func MatchesTransition(a, b Transition) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case FieldCollectionKind:
		return schema.IsStructuralFieldSubtype(a.Field, b.Field) ||
			schema.IsStructuralFieldSubtype(b.Field, a.Field)
	case DownCastKind:
		return a.ToType.Name() == b.ToType.Name()
	default:
		return true
	}
}
