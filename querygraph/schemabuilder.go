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

import (
	"github.com/golang/glog"

	"github.com/hypermodeinc/querygraph/schema"
	"github.com/hypermodeinc/querygraph/x"
)

// SchemaGraphBuilder specialises GraphBuilder to walk a single GraphQL
// schema -- API-level or subgraph-level -- creating vertices and edges from
// root types reachable through fields, abstract-type implementations, and
// (optionally) interface-field shortcuts.
type SchemaGraphBuilder struct {
	*GraphBuilder
	source     string
	schema     schema.Schema
	supergraph schema.Schema // non-nil only in federated-subgraph mode

	// byType memoises addTypeRecursively by a go-farm fingerprint of
	// (source, type-name) instead of a raw string-keyed map, matching the
	// hot-path hashing dgraph's posting/list.go and xidmap/xidmap.go use.
	byType map[uint64]Vertex
}

// NewSchemaGraphBuilder creates a builder that will walk sch, whose
// vertices are tagged with source. supergraph, if non-nil, puts the builder
// in federated-subgraph mode: interface-field shortcut edges are attempted
// using the supergraph's view of each interface.
func NewSchemaGraphBuilder(source string, sch, supergraph schema.Schema) *SchemaGraphBuilder {
	return &SchemaGraphBuilder{
		GraphBuilder: NewGraphBuilder(),
		source:       source,
		schema:       sch,
		supergraph:   supergraph,
		byType:       map[uint64]Vertex{},
	}
}

// AddRecursivelyFromRoot walks rootType and promotes the resulting vertex
// to root for kind.
func (b *SchemaGraphBuilder) AddRecursivelyFromRoot(kind schema.RootKind, rootType schema.ObjectType) *RootVertex {
	v := b.addTypeRecursively(rootType)
	return b.SetAsRoot(kind, v.Index())
}

func (b *SchemaGraphBuilder) typeMemoKey(name string) uint64 {
	return farmKey(b.source, name, -1)
}

// addTypeRecursively memoises on type-name (reusing the single existing
// vertex if any) and dispatches on the base type: objects get a
// FieldCollection edge per non-external field, interfaces get DownCast
// edges to every local possible runtime type (plus shortcut edges in
// federated-subgraph mode), unions get a DownCast edge per member, and
// scalars/enums/inputs are terminal.
func (b *SchemaGraphBuilder) addTypeRecursively(t schema.NamedType) Vertex {
	key := b.typeMemoKey(t.Name())
	if existing, ok := b.byType[key]; ok {
		x.AssertTruef(existing.Type().Name() == t.Name(),
			"type memoisation collision between %s and %s", existing.Type().Name(), t.Name())
		return existing
	}

	v := b.CreateNewVertex(t, b.source, b.schema)
	b.byType[key] = v

	switch {
	case t.IsObject():
		b.addObjectFields(v, t.(schema.ObjectType).AllFields())
	case t.IsInterface():
		iface := t.(schema.InterfaceType)
		if b.supergraph != nil {
			b.addInterfaceShortcuts(v, iface)
		}
		for _, impl := range iface.PossibleRuntimeTypes() {
			b.addDownCast(v, t, impl)
		}
	case t.IsUnion():
		for _, member := range t.(schema.UnionType).Types() {
			b.addDownCast(v, t, member)
		}
	default:
		// Scalar, enum, input: terminal, no out-edges.
	}
	return v
}

func (b *SchemaGraphBuilder) addObjectFields(owner Vertex, fields []schema.FieldDefinition) {
	for _, f := range fields {
		if schema.IsExternal(f) {
			continue
		}
		fieldVertex := b.addTypeRecursively(f.BaseType())
		b.AddEdge(owner, fieldVertex, FieldCollection(f), nil)
	}
}

func (b *SchemaGraphBuilder) addDownCast(owner Vertex, from, to schema.NamedType) {
	toVertex := b.addTypeRecursively(to)
	b.AddEdge(owner, toVertex, DownCast(from, to), nil)
}

// addInterfaceShortcuts implements the interface-field shortcut rule:
// include a direct FieldCollection edge from the interface vertex to f's
// base-type vertex iff f itself is not @external and every possible
// runtime type in the supergraph's view of this interface (intersected
// with the implementations known locally) directly provides f -- declares
// it, doesn't mark it @external, and doesn't carry @requires on it.
//
// If the interface is absent from the supergraph, no shortcut edges are
// added for any of its fields.
func (b *SchemaGraphBuilder) addInterfaceShortcuts(owner Vertex, iface schema.InterfaceType) {
	superType := b.supergraph.Type(iface.Name())
	if superType == nil || !superType.IsInterface() {
		return
	}
	superIface := superType.(schema.InterfaceType)

	localPossible := map[string]bool{}
	for _, t := range iface.PossibleRuntimeTypes() {
		localPossible[t.Name()] = true
	}

	var runtimeNames []string
	for _, t := range superIface.PossibleRuntimeTypes() {
		if localPossible[t.Name()] {
			runtimeNames = append(runtimeNames, t.Name())
		}
	}

	for _, f := range iface.AllFields() {
		if schema.IsExternal(f) {
			continue
		}
		if !b.everyImplementationDirectlyProvides(f.Name, runtimeNames) {
			continue
		}
		fieldVertex := b.addTypeRecursively(f.BaseType())
		b.AddEdge(owner, fieldVertex, FieldCollection(f), nil)
	}
}

func (b *SchemaGraphBuilder) everyImplementationDirectlyProvides(fieldName string, runtimeTypeNames []string) bool {
	for _, name := range runtimeTypeNames {
		t := b.schema.Type(name)
		if t == nil {
			return false
		}
		obj, ok := t.(schema.ObjectType)
		if !ok {
			return false
		}
		implField := obj.Field(fieldName)
		if implField.IsZero() || schema.IsExternal(implField) || schema.RequiresOf(implField) != nil {
			return false
		}
	}
	return true
}

// BuildSchemaGraph runs addTypeRecursively from every root of the schema
// and promotes each to its kind, returning the finished graph.
func (b *SchemaGraphBuilder) BuildSchemaGraph(name string) *QueryGraph {
	for _, root := range b.schema.Roots() {
		glog.V(2).Infof("querygraph: adding root %s (%s) for source %s", root.Type.Name(), root.Kind, b.source)
		b.AddRecursivelyFromRoot(root.Kind, root.Type)
	}
	g := b.Build(name)
	glog.V(2).Infof("querygraph: built %s", g.Describe())
	return g
}
