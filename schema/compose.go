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
	"fmt"
	"sort"
	"strings"
)

// SubgraphFixture is a single subgraph's raw SDL together with the name it
// should be composed under.
type SubgraphFixture struct {
	Name string
	SDL  string
}

// ComposeSupergraphSDL synthesizes a join-spec supergraph document from a set
// of subgraph fixtures, so ExtractSubgraphsFromSupergraph can be exercised
// without a real composer in the dependency graph.
//
// It is deliberately narrow: every type name is assumed to be owned by
// exactly the subgraphs that declare it, every field is assigned only to the
// subgraphs that declare it, and @key's fields, plus each object field's
// @external, @requires and @provides, are carried through verbatim per
// subgraph. This is enough to drive
// the extractor's tests; it is not a composition algorithm and performs none
// of a real composer's satisfiability checks.
func ComposeSupergraphSDL(fixtures []SubgraphFixture) (string, error) {
	type typeOccurrence struct {
		subgraph string
		def      Schema
		fields   map[string]bool
		keyArgs  []string
	}

	occurrences := map[string][]*typeOccurrence{}
	var typeOrder []string
	var enumLines []string

	for _, fx := range fixtures {
		sch, err := NewSchema(fx.Name, fx.SDL)
		if err != nil {
			return "", fmt.Errorf("composing fixture %s: %w", fx.Name, err)
		}
		enumLines = append(enumLines, fmt.Sprintf(
			"  %s @join__graph(name: %q, url: %q)", strings.ToUpper(fx.Name), fx.Name, "http://"+fx.Name))

		for _, t := range sch.Types() {
			occ, ok := occurrences[t.Name()]
			if !ok {
				typeOrder = append(typeOrder, t.Name())
			}
			entry := &typeOccurrence{subgraph: fx.Name, def: sch, fields: map[string]bool{}}
			for _, kd := range KeyDirectives(t) {
				entry.keyArgs = append(entry.keyArgs, kd.Fields)
			}
			if ot, ok := t.(ObjectType); ok {
				for _, f := range ot.AllFields() {
					entry.fields[f.Name] = true
				}
			} else if it, ok := t.(InterfaceType); ok {
				for _, f := range it.AllFields() {
					entry.fields[f.Name] = true
				}
			}
			occurrences[t.Name()] = append(occ, entry)
		}
	}

	var sb strings.Builder
	sb.WriteString("enum join__Graph {\n")
	sort.Strings(enumLines)
	for _, l := range enumLines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString(joinSpecDirectiveDefs)

	sort.Strings(typeOrder)
	for _, name := range typeOrder {
		occs := occurrences[name]
		first := occs[0]
		sch := first.def
		t := sch.Type(name)
		if t == nil {
			continue
		}

		switch {
		case t.IsObject():
			sb.WriteString("type ")
		case t.IsInterface():
			sb.WriteString("interface ")
		case t.IsUnion():
			sb.WriteString("union ")
		case t.IsEnum():
			sb.WriteString("enum ")
		default:
			sb.WriteString("scalar ")
			sb.WriteString(name)
			sb.WriteString("\n\n")
			continue
		}
		sb.WriteString(name)

		if t.IsUnion() {
			ut := t.(UnionType)
			var names []string
			for _, m := range ut.Types() {
				names = append(names, m.Name())
			}
			sb.WriteString(" = ")
			sb.WriteString(strings.Join(names, " | "))
			sb.WriteString("\n\n")
			continue
		}

		for _, occ := range occs {
			if len(occ.keyArgs) == 0 {
				sb.WriteString(fmt.Sprintf(" @join__type(graph: %s)", strings.ToUpper(occ.subgraph)))
				continue
			}
			for _, kf := range occ.keyArgs {
				sb.WriteString(fmt.Sprintf(" @join__type(graph: %s, key: %q)", strings.ToUpper(occ.subgraph), kf))
			}
		}
		sb.WriteString(" {\n")

		allFields := map[string]bool{}
		for _, occ := range occs {
			for f := range occ.fields {
				allFields[f] = true
			}
		}
		var fieldNames []string
		for f := range allFields {
			fieldNames = append(fieldNames, f)
		}
		sort.Strings(fieldNames)

		fieldType := map[string]string{}
		for _, occ := range occs {
			switch ot := occ.def.Type(name).(type) {
			case ObjectType:
				for f, typ := range fieldTypesOf(ot.AllFields()) {
					fieldType[f] = typ
				}
			case InterfaceType:
				for f, typ := range fieldTypesOf(ot.AllFields()) {
					fieldType[f] = typ
				}
			}
		}

		for _, fname := range fieldNames {
			sb.WriteString("  ")
			sb.WriteString(fname)
			sb.WriteString(": ")
			sb.WriteString(fieldType[fname])
			for _, occ := range occs {
				if !occ.fields[fname] {
					continue
				}
				args := "graph: " + strings.ToUpper(occ.subgraph)
				if ot, ok := occ.def.Type(name).(ObjectType); ok {
					f := ot.Field(fname)
					if IsExternal(f) {
						args += ", external: true"
					}
					if req := RequiresOf(f); req != nil {
						args += fmt.Sprintf(", requires: %q", req.Fields)
					}
					if prov := ProvidesOf(f); prov != nil {
						args += fmt.Sprintf(", provides: %q", prov.Fields)
					}
				}
				sb.WriteString(" @join__field(" + args + ")")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("}\n\n")
	}

	return sb.String(), nil
}

func fieldTypesOf(fields []FieldDefinition) map[string]string {
	out := map[string]string{}
	for _, f := range fields {
		out[f.Name] = renderType(f.def.Type)
	}
	return out
}

const joinSpecDirectiveDefs = `
directive @join__graph(name: String!, url: String!) on ENUM_VALUE
directive @join__type(graph: join__Graph!, key: String) on OBJECT | INTERFACE
directive @join__field(graph: join__Graph!, requires: String, provides: String, external: Boolean) on FIELD_DEFINITION

`
