package dag

import (
	"slices"
)

type Topo struct {
	Order   []ModuleID   // linear order, present modules only
	Batches [][]ModuleID // every module of a batch depends only on earlier batches
	Cyclic  bool
	Cycles  []ModuleID // modules on, or only reachable through, an import cycle
}

// ToposortKahn layers g wave by wave. Import cycles are legal in docl, so a
// cyclic graph is not an error: whatever cannot be layered lands in Cycles.
func ToposortKahn(g Graph) *Topo {
	pending := slices.Clone(g.Indeg)
	topo := &Topo{}

	var wave []ModuleID
	for i, present := range g.Present {
		if present && pending[i] == 0 {
			wave = append(wave, toModuleID(i))
		}
	}
	for len(wave) > 0 {
		topo.Batches = append(topo.Batches, wave)
		topo.Order = append(topo.Order, wave...)
		wave = release(g, pending, wave)
	}

	for i, present := range g.Present {
		if present && pending[i] > 0 {
			topo.Cycles = append(topo.Cycles, toModuleID(i))
		}
	}
	topo.Cyclic = len(topo.Cycles) > 0
	return topo
}

// release drops the edges leaving wave and returns the modules that became
// free, sorted by id.
func release(g Graph, pending []int, wave []ModuleID) []ModuleID {
	var next []ModuleID
	for _, id := range wave {
		for _, to := range g.Edges[id] {
			if pending[to]--; pending[to] == 0 {
				next = append(next, to)
			}
		}
	}
	slices.Sort(next)
	return next
}
