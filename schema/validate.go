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

import "github.com/pkg/errors"

// ValidateKeyDirective checks the structural well-formedness of a single
// @key application on t: its "fields" argument must be present and must
// reference real fields of t.
//
// This is a narrow slice of what a real composition validator checks
// (adapted from dgraph's apolloKeyValidation) -- just enough to catch
// malformed test fixtures before they reach the query graph builders.
func ValidateKeyDirective(t NamedType, dir *Directive) error {
	if dir.Fields == "" {
		return errors.Errorf("type %s: @key requires a non-empty fields argument", t.Name())
	}
	if _, err := ParseSelectionSet(t, dir.Fields); err != nil {
		return errors.Wrapf(err, "type %s: invalid @key(fields: %q)", t.Name(), dir.Fields)
	}
	return nil
}

// ValidateRequiresDirective checks that a @requires application's fields
// reference real (and, per the Apollo Federation v1 contract, @external)
// sibling fields of the owning type.
func ValidateRequiresDirective(owner ObjectType, dir *Directive) error {
	sel, err := ParseSelectionSet(owner, dir.Fields)
	if err != nil {
		return errors.Wrapf(err, "type %s: invalid @requires(fields: %q)", owner.Name(), dir.Fields)
	}
	for _, s := range sel.Selections() {
		if !s.IsField() {
			continue
		}
		if !IsExternal(*s.Field) {
			return errors.Errorf("type %s: @requires field %s must be @external", owner.Name(), s.FieldName)
		}
	}
	return nil
}

// ValidateProvidesDirective checks that a @provides application's fields are
// a valid selection against the field's base type, and that the base type is
// composite (only object/interface-returning fields can carry @provides).
func ValidateProvidesDirective(field FieldDefinition, dir *Directive) error {
	base := field.BaseType()
	if !base.IsObject() && !base.IsInterface() {
		return errors.Errorf("field %s: @provides only applies to object/interface-valued fields, got %s",
			field.Name, base.Name())
	}
	if _, err := ParseSelectionSet(base, dir.Fields); err != nil {
		return errors.Wrapf(err, "field %s: invalid @provides(fields: %q)", field.Name, dir.Fields)
	}
	return nil
}
