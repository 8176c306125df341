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
)

// BuildQueryGraph builds a query graph from a single schema, tagging every
// vertex with source, and without federation context: no interface-field
// shortcuts, no cross-subgraph edges.
func BuildQueryGraph(source string, sch schema.Schema) *QueryGraph {
	b := NewSchemaGraphBuilder(source, sch, nil)
	return b.BuildSchemaGraph(source)
}

// BuildSupergraphAPIQueryGraph builds the supergraph API query graph: a
// single-source graph with no conditions and no KeyResolution edges, at
// most one vertex per type-name.
func BuildSupergraphAPIQueryGraph(sch schema.Schema) *QueryGraph {
	glog.V(2).Infof("querygraph: building supergraph API query graph")
	return BuildQueryGraph(sch.Name(), sch)
}

// BuildFederatedQueryGraph builds the federated query graph for a
// supergraph: one subgraph query graph per extracted subgraph, merged
// behind a synthetic federated root per root-kind and wired with @key,
// @requires, and @provides edges.
func BuildFederatedQueryGraph(supergraph schema.Schema) *QueryGraph {
	glog.Infof("querygraph: building federated query graph")
	return NewFederatedGraphBuilder(supergraph).Build()
}
