/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Command querygraphdump builds a query graph from GraphQL SDL on disk and
// logs a one-line summary of its shape.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"

	"github.com/hypermodeinc/querygraph/querygraph"
	"github.com/hypermodeinc/querygraph/schema"
	"github.com/hypermodeinc/querygraph/x"
)

var (
	path = flag.String("path", "",
		"Path to a supergraph SDL file, or a directory of per-subgraph SDL files.")
)

func main() {
	flag.Parse()
	x.AssertTruef(*path != "", "-path is required")

	info, err := os.Stat(*path)
	x.Checkf(err, "could not stat -path %q", *path)

	if info.IsDir() {
		dumpDirectory(*path)
		return
	}
	dumpFile(*path)
}

// dumpFile treats path as a single schema document: a supergraph SDL if it
// carries the join spec's join__Graph enum, otherwise a plain single-source
// schema.
func dumpFile(path string) {
	sdl := readFile(path)
	sch, err := schema.NewSchema(sourceName(path), sdl)
	x.Checkf(err, "parsing %q", path)

	if sch.Type("join__Graph") != nil {
		glog.Infof("querygraphdump: %q looks like a federation supergraph, building a federated query graph", path)
		g := querygraph.BuildFederatedQueryGraph(sch)
		dumpGraph(g)
		return
	}

	glog.Infof("querygraphdump: building a supergraph API query graph from %q", path)
	g := querygraph.BuildSupergraphAPIQueryGraph(sch)
	dumpGraph(g)
}

// dumpDirectory treats every entry in dir as an independent subgraph SDL
// file and builds a query graph per subgraph. Composing a supergraph out of
// loose subgraph files is outside this command's scope -- that requires a
// real composition/validation pass, which this module does not implement
// (see DESIGN.md); feed a single composed supergraph SDL file to -path for
// a federated graph instead.
func dumpDirectory(dir string) {
	entries, err := os.ReadDir(dir)
	x.Checkf(err, "reading directory %q", dir)

	var total int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p := filepath.Join(dir, entry.Name())
		sdl := readFile(p)
		sch, err := schema.NewSchema(sourceName(p), sdl)
		if err != nil {
			glog.Errorf("querygraphdump: skipping %q: %v", p, err)
			continue
		}

		g := querygraph.BuildQueryGraph(sch.Name(), sch)
		dumpGraph(g)
		total++
	}
	glog.Infof("querygraphdump: built %s subgraph query graph(s) from %q", humanize.Comma(int64(total)), dir)
}

func dumpGraph(g *querygraph.QueryGraph) {
	glog.Infof("querygraphdump: %s", g.Describe())

	counts := map[string]int{}
	for i := 0; i < g.VerticesCount(); i++ {
		counts[g.Vertex(i).Source()]++
	}
	for source := range g.Sources() {
		glog.Infof("querygraphdump:   source %q: %s vertices", source, humanize.Comma(int64(counts[source])))
	}
}

func readFile(path string) string {
	b, err := os.ReadFile(path)
	x.Checkf(err, "reading %q", path)
	return string(b)
}

func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
