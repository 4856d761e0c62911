package dag

import (
	"slices"

	"docl/internal/project"
)

// Graph points from every module to the modules importing it, so a
// topological order lists dependencies first.
type Graph struct {
	Edges   [][]ModuleID // Edges[dep] = importers of dep
	Indeg   []int        // number of present dependencies per module
	Present []bool       // module has units, not just an import naming it
}

// BuildGraph links the modules of metas. Several metas may share a path (one
// per compilation unit); their imports are merged. Self imports and imports
// of modules without units add no edge.
func BuildGraph(idx ModuleIndex, metas []project.ModuleMeta) Graph {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	for _, meta := range metas {
		if id, ok := idx.NameToID[meta.Path]; ok {
			g.Present[int(id)] = true
		}
	}

	seen := make(map[[2]ModuleID]struct{})
	for _, meta := range metas {
		importer, ok := idx.NameToID[meta.Path]
		if !ok {
			continue
		}
		for _, dep := range meta.Imports {
			depID, ok := idx.NameToID[dep.Path]
			if !ok || depID == importer || !g.Present[int(depID)] {
				continue
			}
			key := [2]ModuleID{depID, importer}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			g.Edges[int(depID)] = append(g.Edges[int(depID)], importer)
			g.Indeg[int(importer)]++
		}
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g
}
