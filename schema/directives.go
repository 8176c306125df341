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

// Directives to support Apollo Federation. Kept to the same names dgraph's
// own gqlschema.go uses for these.
const (
	KeyDirective      = "key"
	KeyArg            = "fields"
	ExternalDirective = "external"
	ExtendsDirective  = "extends"
	RequiresDirective = "requires"
	ProvidesDirective = "provides"
)

// Directive is one applied directive and its string-valued "fields"-style
// argument, if it has one. Federation directives never need more than that:
// @key/@requires/@provides all take a single _FieldSet scalar argument.
type Directive struct {
	Name   string
	Fields string // the raw _FieldSet text of the "fields" argument, if any
}

func wrapDirective(d *ast.Directive) *Directive {
	fields := ""
	if arg := d.Arguments.ForName(KeyArg); arg != nil {
		fields = arg.Value.Raw
	}
	return &Directive{Name: d.Name, Fields: fields}
}

// KeyDirectives returns every @key application on t, in declaration order.
// A type is an entity iff this is non-empty.
func KeyDirectives(t NamedType) []*Directive {
	return t.AppliedDirectives(KeyDirective)
}

// IsExternal reports whether a field is declared only to satisfy local
// schema validity (it can't be resolved by this subgraph).
func IsExternal(f FieldDefinition) bool {
	return f.HasAppliedDirective(ExternalDirective)
}

// RequiresOf returns the @requires directive application on f, or nil.
func RequiresOf(f FieldDefinition) *Directive {
	return f.AppliedDirective(RequiresDirective)
}

// ProvidesOf returns the @provides directive application on f, or nil.
func ProvidesOf(f FieldDefinition) *Directive {
	return f.AppliedDirective(ProvidesDirective)
}
