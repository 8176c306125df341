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
	"sort"
	"strings"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/pkg/errors"
)

// Subgraph pairs a subgraph name with its schema, as recovered from a
// supergraph.
type Subgraph struct {
	Name   string
	Schema Schema
}

// IsFederationSubgraphSchema reports whether s declares at least one entity
// (a type carrying @key) -- dgraph's gqlschema.go uses the same test
// (len(apolloKeyTypes) == 0) to decide whether Apollo Federation support
// needs to be bolted onto a schema at all.
func IsFederationSubgraphSchema(s Schema) bool {
	for _, t := range s.Types() {
		if len(KeyDirectives(t)) > 0 {
			return true
		}
	}
	return false
}

// join spec directive/argument names this extractor understands. A real
// supergraph carries more (override, join__unionMember, ...); this is the
// subset needed to recover @key/@requires/@provides/@external per subgraph.
const (
	joinGraphEnum      = "join__Graph"
	joinGraphDirective = "join__graph"
	joinTypeDirective  = "join__type"
	joinFieldDirective = "join__field"
	joinArgGraph       = "graph"
	joinArgKey         = "key"
	joinArgRequires    = "requires"
	joinArgProvides    = "provides"
	joinArgExternal    = "external"
)

// ExtractSubgraphsFromSupergraph recovers the per-subgraph schemas composed
// into supergraph, by reading the join spec directives
// (join__Graph/@join__type/@join__field) a composer attaches to every type
// and field.
//
// This is the "supergraph -> subgraphs extractor" the query graph core
// treats as an external collaborator (out of scope for composition
// validation proper); it performs no satisfiability checking, only
// extraction.
func ExtractSubgraphsFromSupergraph(supergraph Schema) ([]Subgraph, error) {
	sch := supergraph.rawSchema()

	graphNames, err := joinGraphNames(sch)
	if err != nil {
		return nil, err
	}

	builders := make(map[string]*subgraphBuilder, len(graphNames))
	var order []string
	for _, g := range graphNames {
		order = append(order, g.subgraphName)
		builders[g.enumValue] = &subgraphBuilder{name: g.subgraphName, types: map[string]*ast.Definition{}}
	}

	for _, name := range sortedTypeNames(sch) {
		def := sch.Types[name]
		switch def.Kind {
		case ast.Object, ast.Interface:
			if err := extractCompositeType(def, builders); err != nil {
				return nil, err
			}
		case ast.Union, ast.Enum, ast.InputObject, ast.Scalar:
			// Shared verbatim across every subgraph that ends up needing
			// them; harmless if a given subgraph never references one.
			for _, b := range builders {
				b.shared = append(b.shared, def)
			}
		}
	}

	var out []Subgraph
	for _, name := range order {
		enumValue := ""
		for _, g := range graphNames {
			if g.subgraphName == name {
				enumValue = g.enumValue
			}
		}
		b := builders[enumValue]
		sdl := b.render()
		sch, err := NewSchema(name, sdl)
		if err != nil {
			return nil, errors.Wrapf(err, "reconstructing subgraph %s", name)
		}
		out = append(out, Subgraph{Name: name, Schema: sch})
	}
	return out, nil
}

type joinGraph struct {
	enumValue    string
	subgraphName string
}

func joinGraphNames(sch *ast.Schema) ([]joinGraph, error) {
	enumDef, ok := sch.Types[joinGraphEnum]
	if !ok {
		return nil, errors.Errorf("supergraph has no %s enum", joinGraphEnum)
	}
	var out []joinGraph
	for _, v := range enumDef.EnumValues {
		dir := v.Directives.ForName(joinGraphDirective)
		if dir == nil {
			continue
		}
		nameArg := dir.Arguments.ForName("name")
		if nameArg == nil {
			continue
		}
		out = append(out, joinGraph{enumValue: v.Name, subgraphName: nameArg.Value.Raw})
	}
	if len(out) == 0 {
		return nil, errors.Errorf("supergraph's %s enum has no %s-annotated values", joinGraphEnum, joinGraphDirective)
	}
	return out, nil
}

type subgraphBuilder struct {
	name   string
	types  map[string]*ast.Definition
	shared []*ast.Definition
}

func extractCompositeType(def *ast.Definition, builders map[string]*subgraphBuilder) error {
	owners := def.Directives.ForNames(joinTypeDirective)
	if len(owners) == 0 {
		return nil
	}

	for _, owner := range owners {
		graphArg := owner.Arguments.ForName(joinArgGraph)
		if graphArg == nil {
			continue
		}
		b, ok := builders[graphArg.Value.Raw]
		if !ok {
			return errors.Errorf("type %s: @join__type references unknown graph %s", def.Name, graphArg.Value.Raw)
		}

		out := &ast.Definition{Kind: def.Kind, Name: def.Name, Interfaces: def.Interfaces}
		if keyArg := owner.Arguments.ForName(joinArgKey); keyArg != nil && keyArg.Value.Raw != "" {
			out.Directives = append(out.Directives, keyDirectiveAST(keyArg.Value.Raw))
		}
		b.types[def.Name] = out
	}

	for _, field := range def.Fields {
		if err := extractField(def, field, builders); err != nil {
			return err
		}
	}
	return nil
}

func extractField(owner *ast.Definition, field *ast.FieldDefinition, builders map[string]*subgraphBuilder) error {
	assignments := field.Directives.ForNames(joinFieldDirective)

	assign := func(graphEnumValue string, requires, provides string, external bool) error {
		b, ok := builders[graphEnumValue]
		if !ok {
			return errors.Errorf("type %s field %s: @join__field references unknown graph %s",
				owner.Name, field.Name, graphEnumValue)
		}
		out, ok := b.types[owner.Name]
		if !ok {
			// Field assigned to a graph that doesn't own the type via
			// @join__type -- not expressible with this extractor's subset;
			// skip rather than fail the whole extraction.
			return nil
		}
		fd := &ast.FieldDefinition{Name: field.Name, Type: field.Type, Arguments: field.Arguments}
		if external {
			fd.Directives = append(fd.Directives, simpleDirective(ExternalDirective))
		}
		if requires != "" {
			fd.Directives = append(fd.Directives, fieldSetDirective(RequiresDirective, requires))
		}
		if provides != "" {
			fd.Directives = append(fd.Directives, fieldSetDirective(ProvidesDirective, provides))
		}
		out.Fields = append(out.Fields, fd)
		return nil
	}

	if len(assignments) == 0 {
		// No explicit assignment: the field belongs to every graph that
		// owns the type.
		for _, owner := range owner.Directives.ForNames(joinTypeDirective) {
			graphArg := owner.Arguments.ForName(joinArgGraph)
			if graphArg == nil {
				continue
			}
			if err := assign(graphArg.Value.Raw, "", "", false); err != nil {
				return err
			}
		}
		return nil
	}

	for _, dir := range assignments {
		graphArg := dir.Arguments.ForName(joinArgGraph)
		if graphArg == nil {
			continue
		}
		requires, provides := "", ""
		if a := dir.Arguments.ForName(joinArgRequires); a != nil {
			requires = a.Value.Raw
		}
		if a := dir.Arguments.ForName(joinArgProvides); a != nil {
			provides = a.Value.Raw
		}
		external := dir.Arguments.ForName(joinArgExternal) != nil
		if err := assign(graphArg.Value.Raw, requires, provides, external); err != nil {
			return err
		}
	}
	return nil
}

func keyDirectiveAST(fields string) *ast.Directive {
	return fieldSetDirective(KeyDirective, fields)
}

func fieldSetDirective(name, fields string) *ast.Directive {
	return &ast.Directive{
		Name: name,
		Arguments: ast.ArgumentList{
			{Name: KeyArg, Value: &ast.Value{Raw: fields, Kind: ast.StringValue}},
		},
	}
}

func simpleDirective(name string) *ast.Directive {
	return &ast.Directive{Name: name}
}

func sortedTypeNames(sch *ast.Schema) []string {
	var names []string
	for name := range sch.Types {
		if strings.HasPrefix(name, "__") || strings.HasPrefix(name, "join__") || name == joinGraphEnum ||
			isBuiltinScalar(name) || name == "_FieldSet" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// render produces SDL text for this subgraph: each owned type followed by
// every shared (union/enum/input/scalar) type. The federation directive
// definitions and _FieldSet scalar are not written here; NewSchema loads
// them alongside every document it parses.
func (b *subgraphBuilder) render() string {
	var sb strings.Builder

	var names []string
	for name := range b.types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		renderDefinition(&sb, b.types[name])
	}
	for _, def := range b.shared {
		renderDefinition(&sb, def)
	}
	return sb.String()
}

const federationDirectiveDefs = `
scalar _FieldSet
directive @external on FIELD_DEFINITION
directive @key(fields: _FieldSet!) on OBJECT | INTERFACE
directive @extends on OBJECT | INTERFACE
directive @requires(fields: _FieldSet!) on FIELD_DEFINITION
directive @provides(fields: _FieldSet!) on FIELD_DEFINITION
`

func renderDefinition(sb *strings.Builder, def *ast.Definition) {
	switch def.Kind {
	case ast.Object:
		sb.WriteString("type ")
	case ast.Interface:
		sb.WriteString("interface ")
	case ast.Union:
		sb.WriteString("union ")
	case ast.Enum:
		sb.WriteString("enum ")
	case ast.InputObject:
		sb.WriteString("input ")
	case ast.Scalar:
		sb.WriteString("scalar ")
		sb.WriteString(def.Name)
		sb.WriteString("\n")
		return
	}
	sb.WriteString(def.Name)
	if len(def.Interfaces) > 0 {
		sb.WriteString(" implements ")
		sb.WriteString(strings.Join(def.Interfaces, " & "))
	}
	if def.Kind == ast.Union {
		sb.WriteString(" = ")
		sb.WriteString(strings.Join(def.Types, " | "))
		sb.WriteString("\n")
		return
	}
	for _, dir := range def.Directives {
		renderDirective(sb, dir)
	}
	sb.WriteString(" {\n")
	for _, f := range def.Fields {
		sb.WriteString("  ")
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(renderType(f.Type))
		for _, dir := range f.Directives {
			renderDirective(sb, dir)
		}
		sb.WriteString("\n")
	}
	for _, ev := range def.EnumValues {
		sb.WriteString("  ")
		sb.WriteString(ev.Name)
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
}

func renderDirective(sb *strings.Builder, dir *ast.Directive) {
	sb.WriteString(" @")
	sb.WriteString(dir.Name)
	if len(dir.Arguments) > 0 {
		sb.WriteString("(")
		for i, a := range dir.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Name)
			sb.WriteString(": ")
			sb.WriteString(strconvQuote(a.Value.Raw))
		}
		sb.WriteString(")")
	}
}

// renderType mirrors astType.String() from graphql/schema/wrappers.go: a
// wrapper-preserving textual rendering of a (possibly list/non-null) type.
func renderType(t *ast.Type) string {
	var sb strings.Builder
	if t.Elem == nil {
		sb.WriteString(t.NamedType)
	} else {
		sb.WriteString("[")
		sb.WriteString(renderType(t.Elem))
		sb.WriteString("]")
	}
	if t.NonNull {
		sb.WriteString("!")
	}
	return sb.String()
}

func strconvQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}
