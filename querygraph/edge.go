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

import "github.com/hypermodeinc/querygraph/schema"

// Edge is a directed link head -> tail carrying a Transition and an
// optional condition selection set. index is local to head: it is the
// edge's position in head's adjacency list.
type Edge struct {
	Head       Vertex
	Tail       Vertex
	Transition Transition
	Conditions *schema.SelectionSet
	Index      int
}

// IsEdgeForField reports whether this edge is a FieldCollection for the
// named field.
func (e *Edge) IsEdgeForField(name string) bool {
	return e.Transition.Kind == FieldCollectionKind && e.Transition.Field.Name == name
}

// Label renders a human-readable form of the edge: "<conditions> |-
// <transition>", or "" for a plain, unconditional free transition.
func (e *Edge) Label() string {
	if e.Transition.Kind == FreeTransitionKind && (e.Conditions == nil || len(e.Conditions.Selections()) == 0) {
		return ""
	}
	cond := ""
	if e.Conditions != nil {
		cond = e.Conditions.String()
	}
	return cond + " |- " + e.Transition.String()
}

// addToConditions merges sel into the edge's conditions, used only during
// building.
func (e *Edge) addToConditions(sel *schema.SelectionSet) {
	if sel == nil {
		return
	}
	if e.Conditions == nil {
		e.Conditions = cloneSelectionSet(sel)
		return
	}
	e.Conditions.MergeIn(sel)
}

func cloneSelectionSet(sel *schema.SelectionSet) *schema.SelectionSet {
	if sel == nil {
		return nil
	}
	clone := &schema.SelectionSet{}
	clone.MergeIn(sel)
	return clone
}
