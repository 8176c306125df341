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
	"strings"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/pkg/errors"
)

// SelectionSet is a parsed, schema-resolved selection set -- the contents of
// a @key/@requires/@provides "fields" argument, or an edge's conditions.
type SelectionSet struct {
	selections []*Selection
}

// Selection is one element of a selection set: either a field (possibly with
// its own nested selection set) or an inline fragment.
type Selection struct {
	// Field is set when this selection is a field.
	Field      *FieldDefinition
	FieldName  string
	FieldSet   *SelectionSet // nested selection set on this field, if any

	// TypeCondition is set when this selection is an inline fragment
	// ("... on Type { ... }").
	TypeCondition NamedType
	ParentType    NamedType
	InlineSet     *SelectionSet
}

// IsField reports whether this selection is a field (as opposed to an inline
// fragment).
func (s *Selection) IsField() bool { return s.TypeCondition == nil && s.ParentType == nil }

// Selections returns the elements of the set, in order.
func (s *SelectionSet) Selections() []*Selection {
	if s == nil {
		return nil
	}
	return s.selections
}

// ParseSelectionSet parses fieldsString (the raw text of a _FieldSet scalar,
// e.g. `id name` or `id reviews { body }` or `id ... on Employee { staffId }`)
// against parentType, resolving every field name to its FieldDefinition on
// parentType (or, for inline fragments, on the fragment's type condition).
//
// This mirrors how graphql/schema/request.go turns query text into an AST
// with parser.ParseQuery, except the result is resolved by hand against the
// schema instead of going through gqlparser's validator -- a _FieldSet isn't
// a runnable operation, just a selection set fragment.
func ParseSelectionSet(parentType NamedType, fieldsString string) (*SelectionSet, error) {
	fieldsString = strings.TrimSpace(fieldsString)
	if fieldsString == "" {
		return &SelectionSet{}, nil
	}

	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: "{ " + fieldsString + " }"})
	if gqlErr != nil {
		return nil, errors.Wrapf(gqlErr, "parsing field set %q", fieldsString)
	}
	if len(doc.Operations) != 1 {
		return nil, errors.Errorf("field set %q must parse to a single selection set", fieldsString)
	}

	return resolveSelectionSet(parentType, doc.Operations[0].SelectionSet)
}

func resolveSelectionSet(parentType NamedType, raw ast.SelectionSet) (*SelectionSet, error) {
	sch, _ := parentType.schemaDef()
	out := &SelectionSet{}

	for _, sel := range raw {
		switch v := sel.(type) {
		case *ast.Field:
			fd, err := resolveField(parentType, v.Name)
			if err != nil {
				return nil, err
			}

			var nested *SelectionSet
			if len(v.SelectionSet) > 0 {
				nested, err = resolveSelectionSet(fd.BaseType(), v.SelectionSet)
				if err != nil {
					return nil, err
				}
			}

			out.selections = append(out.selections, &Selection{
				Field:     &fd,
				FieldName: fd.Name,
				FieldSet:  nested,
			})
		case *ast.InlineFragment:
			condType := parentType
			if v.TypeCondition != "" {
				def, ok := sch.Types[v.TypeCondition]
				if !ok {
					return nil, errors.Errorf("inline fragment on unknown type %q", v.TypeCondition)
				}
				condType = wrapDefinition(sch, def)
			}
			nested, err := resolveSelectionSet(condType, v.SelectionSet)
			if err != nil {
				return nil, err
			}
			out.selections = append(out.selections, &Selection{
				TypeCondition: condType,
				ParentType:    parentType,
				InlineSet:     nested,
			})
		default:
			return nil, errors.Errorf("unsupported selection %T in field set", sel)
		}
	}

	return out, nil
}

func resolveField(parentType NamedType, name string) (FieldDefinition, error) {
	if name == "__typename" {
		return FieldDefinition{Name: "__typename"}, nil
	}

	switch t := parentType.(type) {
	case *astObject:
		fd := t.Field(name)
		if fd.IsZero() {
			return FieldDefinition{}, errors.Errorf("type %s has no field %s", parentType.Name(), name)
		}
		return fd, nil
	case *astInterface:
		fd := t.Field(name)
		if fd.IsZero() {
			return FieldDefinition{}, errors.Errorf("type %s has no field %s", parentType.Name(), name)
		}
		return fd, nil
	default:
		return FieldDefinition{}, errors.Errorf("type %s cannot carry a selection", parentType.Name())
	}
}

// MergeIn merges other's selections into s, matching existing field
// selections by name and inline fragments by type condition, and recursing
// into their nested selection sets. New top-level selections are appended.
//
// Merging is commutative and idempotent at the structural level: merging the
// same selection set into itself, or merging a then b vs b then a, both
// leave the same set of (name|typeCondition, nested selections) pairs
// present, though insertion order of newly-introduced selections may differ.
func (s *SelectionSet) MergeIn(other *SelectionSet) {
	if other == nil {
		return
	}
	for _, sel := range other.selections {
		s.mergeOne(sel)
	}
}

func (s *SelectionSet) mergeOne(sel *Selection) {
	for _, existing := range s.selections {
		if sameSelectionTarget(existing, sel) {
			if sel.IsField() {
				if existing.FieldSet == nil {
					existing.FieldSet = sel.FieldSet
				} else {
					existing.FieldSet.MergeIn(sel.FieldSet)
				}
			} else {
				if existing.InlineSet == nil {
					existing.InlineSet = sel.InlineSet
				} else {
					existing.InlineSet.MergeIn(sel.InlineSet)
				}
			}
			return
		}
	}
	s.selections = append(s.selections, sel)
}

func sameSelectionTarget(a, b *Selection) bool {
	if a.IsField() != b.IsField() {
		return false
	}
	if a.IsField() {
		return a.FieldName == b.FieldName
	}
	return a.TypeCondition.Name() == b.TypeCondition.Name()
}

// String renders a compact, GraphQL-ish form of the selection set, used by
// Edge.Label().
func (s *SelectionSet) String() string {
	if s == nil || len(s.selections) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("{ ")
	for i, sel := range s.selections {
		if i > 0 {
			sb.WriteString(" ")
		}
		if sel.IsField() {
			sb.WriteString(sel.FieldName)
			if sel.FieldSet != nil && len(sel.FieldSet.selections) > 0 {
				sb.WriteString(" ")
				sb.WriteString(sel.FieldSet.String())
			}
		} else {
			sb.WriteString("... on ")
			sb.WriteString(sel.TypeCondition.Name())
			sb.WriteString(" ")
			sb.WriteString(sel.InlineSet.String())
		}
	}
	sb.WriteString(" }")
	return sb.String()
}
