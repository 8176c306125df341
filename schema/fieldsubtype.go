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

import "github.com/dgraph-io/gqlparser/v2/ast"

// IsStructuralFieldSubtype reports whether sub can stand in for sup wherever
// sup is expected: same field name, and sub's declared type is a structural
// subtype of sup's declared type (non-null may narrow nullable, list element
// types follow the same rule, and named types match via equality, interface
// implementation, or union membership).
//
// This is directional: IsStructuralFieldSubtype(a, b) does not imply
// IsStructuralFieldSubtype(b, a).
func IsStructuralFieldSubtype(sub, sup FieldDefinition) bool {
	if sub.IsZero() || sup.IsZero() {
		return false
	}
	if sub.Name != sup.Name {
		return false
	}
	return isTypeSubtype(sub.inSchema, sub.def.Type, sup.def.Type)
}

func isTypeSubtype(sch *ast.Schema, sub, sup *ast.Type) bool {
	if sup.NonNull && !sub.NonNull {
		return false
	}
	if sup.Elem != nil {
		return sub.Elem != nil && isTypeSubtype(sch, sub.Elem, sup.Elem)
	}
	if sub.Elem != nil {
		// sup is not a list but sub is.
		return false
	}
	if sub.NamedType == sup.NamedType {
		return true
	}
	return namedTypeIsSubtype(sch, sub.NamedType, sup.NamedType)
}

// namedTypeIsSubtype reports whether every value of type subName can be used
// where supName is expected: subName implements interface supName, or subName
// is a member of union supName.
func namedTypeIsSubtype(sch *ast.Schema, subName, supName string) bool {
	supDef, ok := sch.Types[supName]
	if !ok {
		return false
	}
	subDef, ok := sch.Types[subName]
	if !ok {
		return false
	}

	switch supDef.Kind {
	case ast.Interface:
		for _, iface := range subDef.Interfaces {
			if iface == supName {
				return true
			}
		}
		return false
	case ast.Union:
		for _, member := range supDef.Types {
			if member == subName {
				return true
			}
		}
		return false
	default:
		return false
	}
}
