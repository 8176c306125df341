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

// Package schema wraps github.com/dgraph-io/gqlparser/v2's AST so that the
// query graph builders depend on the small, federation-shaped surface
// described by the graph construction core, not on gqlparser's AST directly.
//
// It is the schema collaborator query graph construction depends on: type
// introspection, directive-application lookup, and selection-set parsing.
// Composition validation proper isn't implemented here -- just enough
// structural validity to drive query graph construction.
package schema

import (
	"sort"
	"strings"

	"github.com/dgraph-io/gqlparser/v2"
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/pkg/errors"

	"github.com/hypermodeinc/querygraph/x"
)

// RootKind is one of the three top-level GraphQL operation kinds.
type RootKind string

const (
	Query        RootKind = "query"
	Mutation     RootKind = "mutation"
	Subscription RootKind = "subscription"
)

// Root pairs a root operation kind with the object type serving it.
type Root struct {
	Kind RootKind
	Type ObjectType
}

// Schema is a parsed, validated GraphQL schema: a subgraph schema or a
// supergraph schema, depending on how it was constructed.
type Schema interface {
	// Name identifies this schema among its siblings -- the subgraph name,
	// or "" for a schema that isn't part of a federation.
	Name() string
	Roots() []Root
	Root(kind RootKind) (ObjectType, bool)
	Type(name string) NamedType
	// Types returns every named type declared in the schema (excluding
	// introspection/built-in types), sorted by name.
	Types() []NamedType

	rawSchema() *ast.Schema
}

// NamedType is any named type in a schema: object, interface, union,
// scalar, enum, or input object.
type NamedType interface {
	Name() string
	IsObject() bool
	IsInterface() bool
	IsUnion() bool
	IsScalar() bool
	IsEnum() bool
	HasAppliedDirective(name string) bool
	AppliedDirectives(name string) []*Directive

	// schemaDef exposes the backing schema/definition pair to the rest of
	// this package (selection-set parsing, directive lookups) without
	// making it part of the public contract.
	schemaDef() (*ast.Schema, *ast.Definition)
}

// CompositeType is the subset of NamedType that can carry a selection set:
// object, interface, or union.
type CompositeType interface {
	NamedType
}

// ObjectType is a GraphQL object type.
type ObjectType interface {
	NamedType
	Field(name string) FieldDefinition
	AllFields() []FieldDefinition
	Interfaces() []InterfaceType
}

// InterfaceType is a GraphQL interface type.
type InterfaceType interface {
	NamedType
	Field(name string) FieldDefinition
	AllFields() []FieldDefinition
	PossibleRuntimeTypes() []ObjectType
}

// UnionType is a GraphQL union type.
type UnionType interface {
	NamedType
	Types() []ObjectType
}

// FieldDefinition is a field as declared on some type in the schema.
type FieldDefinition struct {
	Name     string
	def      *ast.FieldDefinition
	inSchema *ast.Schema
}

// BaseType is the named type the field ultimately resolves to, with list and
// non-null wrappers stripped.
func (f FieldDefinition) BaseType() NamedType {
	return wrapDefinition(f.inSchema, f.inSchema.Types[f.def.Type.Name()])
}

// HasAppliedDirective reports whether this field declaration carries the
// named directive.
func (f FieldDefinition) HasAppliedDirective(name string) bool {
	return f.def.Directives.ForName(name) != nil
}

// AppliedDirective returns the (first) application of the named directive on
// this field, or nil.
func (f FieldDefinition) AppliedDirective(name string) *Directive {
	dir := f.def.Directives.ForName(name)
	if dir == nil {
		return nil
	}
	return wrapDirective(dir)
}

type astSchema struct {
	name   string
	schema *ast.Schema
}

// NewSchema parses and validates a GraphQL schema document, returning the
// Schema collaborator the query graph builders are driven by.
//
// name is the subgraph name this schema belongs to, or "" for a schema that
// isn't part of a federation (e.g. the supergraph API schema).
func NewSchema(name, sdl string) (Schema, error) {
	sch, err := gqlparser.LoadSchema(
		&ast.Source{Name: "federation.graphql", Input: federationDirectiveDefs},
		&ast.Source{Name: name, Input: sdl},
	)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing schema %s", name)
	}
	return &astSchema{name: name, schema: sch}, nil
}

func (s *astSchema) Name() string { return s.name }

func (s *astSchema) Roots() []Root {
	var roots []Root
	if s.schema.Query != nil {
		roots = append(roots, Root{Kind: Query, Type: &astObject{astNamed{s.schema, s.schema.Query}}})
	}
	if s.schema.Mutation != nil {
		roots = append(roots, Root{Kind: Mutation, Type: &astObject{astNamed{s.schema, s.schema.Mutation}}})
	}
	if s.schema.Subscription != nil {
		roots = append(roots, Root{Kind: Subscription, Type: &astObject{astNamed{s.schema, s.schema.Subscription}}})
	}
	return roots
}

func (s *astSchema) Root(kind RootKind) (ObjectType, bool) {
	for _, r := range s.Roots() {
		if r.Kind == kind {
			return r.Type, true
		}
	}
	return nil, false
}

func (s *astSchema) Type(name string) NamedType {
	def, ok := s.schema.Types[name]
	if !ok {
		return nil
	}
	return wrapDefinition(s.schema, def)
}

func (s *astSchema) Types() []NamedType {
	var out []NamedType
	for name, def := range s.schema.Types {
		if strings.HasPrefix(name, "__") || isBuiltinScalar(name) || name == "_FieldSet" {
			continue
		}
		out = append(out, wrapDefinition(s.schema, def))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (s *astSchema) rawSchema() *ast.Schema { return s.schema }

// NewSyntheticType returns a NamedType not backed by any parsed schema
// document -- used for federation's synthetic per-root-kind vertex types
// ("[query]" and friends, see querygraph.FederatedRootTypeName). It behaves
// as an object type declaring no fields.
func NewSyntheticType(name string) NamedType {
	sch := &ast.Schema{Types: map[string]*ast.Definition{}}
	def := &ast.Definition{Kind: ast.Object, Name: name}
	sch.Types[name] = def
	return &astObject{astNamed{sch, def}}
}

func isBuiltinScalar(name string) bool {
	switch name {
	case "Int", "Float", "String", "Boolean", "ID":
		return true
	default:
		return false
	}
}

// astNamed is the shared base every concrete NamedType wraps.
type astNamed struct {
	inSchema *ast.Schema
	def      *ast.Definition
}

func (t astNamed) Name() string                           { return t.def.Name }
func (t astNamed) IsObject() bool                          { return t.def.Kind == ast.Object }
func (t astNamed) IsInterface() bool                       { return t.def.Kind == ast.Interface }
func (t astNamed) IsUnion() bool                           { return t.def.Kind == ast.Union }
func (t astNamed) IsScalar() bool                          { return t.def.Kind == ast.Scalar }
func (t astNamed) IsEnum() bool                            { return t.def.Kind == ast.Enum }
func (t astNamed) HasAppliedDirective(name string) bool    { return t.def.Directives.ForName(name) != nil }
func (t astNamed) schemaDef() (*ast.Schema, *ast.Definition) { return t.inSchema, t.def }

func (t astNamed) AppliedDirectives(name string) []*Directive {
	var out []*Directive
	for _, d := range t.def.Directives.ForNames(name) {
		out = append(out, wrapDirective(d))
	}
	return out
}

type astObject struct{ astNamed }

func (t *astObject) Field(name string) FieldDefinition {
	return wrapField(t.inSchema, t.def.Fields.ForName(name))
}

func (t *astObject) AllFields() []FieldDefinition {
	return wrapFields(t.inSchema, t.def.Fields)
}

func (t *astObject) Interfaces() []InterfaceType {
	var out []InterfaceType
	for _, name := range t.def.Interfaces {
		if def, ok := t.inSchema.Types[name]; ok {
			out = append(out, &astInterface{astNamed{t.inSchema, def}})
		}
	}
	return out
}

type astInterface struct{ astNamed }

func (t *astInterface) Field(name string) FieldDefinition {
	return wrapField(t.inSchema, t.def.Fields.ForName(name))
}

func (t *astInterface) AllFields() []FieldDefinition {
	return wrapFields(t.inSchema, t.def.Fields)
}

// PossibleRuntimeTypes returns every object type in the schema that declares
// this interface among its implemented interfaces.
func (t *astInterface) PossibleRuntimeTypes() []ObjectType {
	var out []ObjectType
	for _, def := range t.inSchema.Types {
		if def.Kind != ast.Object {
			continue
		}
		for _, iface := range def.Interfaces {
			if iface == t.def.Name {
				out = append(out, &astObject{astNamed{t.inSchema, def}})
				break
			}
		}
	}
	return out
}

type astUnion struct{ astNamed }

func (t *astUnion) Types() []ObjectType {
	var out []ObjectType
	for _, name := range t.def.Types {
		if def, ok := t.inSchema.Types[name]; ok {
			out = append(out, &astObject{astNamed{t.inSchema, def}})
		}
	}
	return out
}

type astScalarOrEnum struct{ astNamed }

func wrapDefinition(sch *ast.Schema, def *ast.Definition) NamedType {
	if def == nil {
		return nil
	}
	switch def.Kind {
	case ast.Object:
		return &astObject{astNamed{sch, def}}
	case ast.Interface:
		return &astInterface{astNamed{sch, def}}
	case ast.Union:
		return &astUnion{astNamed{sch, def}}
	default:
		return &astScalarOrEnum{astNamed{sch, def}}
	}
}

func wrapField(sch *ast.Schema, def *ast.FieldDefinition) FieldDefinition {
	if def == nil {
		return FieldDefinition{}
	}
	return FieldDefinition{Name: def.Name, def: def, inSchema: sch}
}

func wrapFields(sch *ast.Schema, defs ast.FieldList) []FieldDefinition {
	out := make([]FieldDefinition, 0, len(defs))
	for _, d := range defs {
		out = append(out, wrapField(sch, d))
	}
	return out
}

// IsZero reports whether this FieldDefinition is the zero value -- i.e. the
// field it was looked up by name didn't exist.
func (f FieldDefinition) IsZero() bool { return f.def == nil }

// mustComposite asserts that t is an object, interface, or union -- the
// kinds that can own a selection set or be the target of a @key/@provides.
func mustComposite(t NamedType, context string) {
	x.AssertTruef(t.IsObject() || t.IsInterface() || t.IsUnion(),
		"%s: expected a composite (object/interface/union) type, got %s", context, t.Name())
}
