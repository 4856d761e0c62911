package driver

import (
	"docl/internal/ast"
	"docl/internal/env"
	"docl/internal/project"
	"docl/internal/project/dag"
	"docl/internal/source"
)

// ModuleMetas summarises the modules of a built environment, one entry per
// compilation unit, with the modules each unit's imports draw from.
func ModuleMetas(e *env.Environment) []project.ModuleMeta {
	b := e.AST()
	metas := make([]project.ModuleMeta, 0, len(e.Units()))
	for _, u := range e.Units() {
		file := b.Files.Get(u.File)
		if file == nil {
			continue
		}
		meta := project.ModuleMeta{Path: e.ModuleName(u.Module), Span: file.Span}
		for _, id := range file.Items {
			imp, ok := b.Items.Import(id)
			if !ok {
				continue
			}
			span := b.Items.Get(id).Span
			for _, path := range importPaths(imp) {
				if mod, ok := importedModule(e, path); ok {
					meta.Imports = append(meta.Imports, project.ImportMeta{Path: mod, Span: span})
				}
			}
		}
		metas = append(metas, meta)
	}
	return metas
}

// importPaths expands a group import into one path per member.
func importPaths(imp *ast.ImportItem) [][]source.StringID {
	if len(imp.Group) == 0 {
		return [][]source.StringID{imp.Path}
	}
	out := make([][]source.StringID, 0, len(imp.Group))
	for _, tail := range imp.Group {
		full := make([]source.StringID, 0, len(imp.Path)+len(tail))
		full = append(full, imp.Path...)
		out = append(out, append(full, tail...))
	}
	return out
}

// importedModule returns the longest prefix of path naming a module.
func importedModule(e *env.Environment, path []source.StringID) (string, bool) {
	for n := len(path); n > 0; n-- {
		dotted := ast.JoinPath(path[:n], e.Strings())
		if _, ok := e.FindModule(dotted); ok {
			return dotted, true
		}
	}
	return "", false
}

// moduleLayers orders the modules of e so that dependencies come first.
func moduleLayers(e *env.Environment) (layers [][]string, cycles []string) {
	metas := ModuleMetas(e)
	idx := dag.BuildIndex(metas)
	topo := dag.ToposortKahn(dag.BuildGraph(idx, metas))
	layers = make([][]string, 0, len(topo.Batches))
	for _, batch := range topo.Batches {
		layers = append(layers, idx.Names(batch))
	}
	if topo.Cyclic {
		cycles = idx.Names(topo.Cycles)
	}
	return layers, cycles
}
