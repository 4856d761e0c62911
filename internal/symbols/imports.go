package symbols

import (
	"docl/internal/diag"
	"docl/internal/source"
)

// ImportingKind tags a planned import.
type ImportingKind uint8

const (
	ImportWildcard ImportingKind = iota + 1
	ImportModule
	ImportElement
)

// Importing is one import materialisation, computed for every `use` before
// any scope is changed.
type Importing struct {
	Kind   ImportingKind
	Target ScopeID
	Source ScopeID // module for ImportWildcard and ImportModule
	Name   source.StringID
	Elem   DeclaredElement
	Span   source.Span
}

// ResolveImports plans every collected `use` against declarations only, then
// applies the plan in source order. Named imports never replace an existing
// binding, so local declarations shadow them and the first import of a name
// wins.
func (r *Resolver) ResolveImports() error {
	plan, err := r.planImports()
	if err != nil {
		return err
	}
	for _, it := range plan {
		if err := r.applyImport(it); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) planImports() ([]Importing, error) {
	plan := make([]Importing, 0, len(r.imports))
	for _, p := range r.imports {
		imp, _ := r.ast.Items.Import(p.item)
		span := r.ast.Items.Get(p.item).Span
		switch {
		case imp.Wildcard:
			mod, ok := r.table.FindModule(imp.Path)
			if !ok || len(imp.Path) == 0 {
				return nil, r.errorf(diag.SemaUnresolvedImport, span, "module `%s` not found", r.path(imp.Path)).Err()
			}
			plan = append(plan, Importing{Kind: ImportWildcard, Target: p.scope, Source: mod, Span: span})
		case len(imp.Group) > 0:
			for _, suffix := range imp.Group {
				full := make([]source.StringID, 0, len(imp.Path)+len(suffix))
				full = append(full, imp.Path...)
				full = append(full, suffix...)
				it, err := r.planSingle(p.scope, full, span)
				if err != nil {
					return nil, err
				}
				plan = append(plan, it)
			}
		default:
			it, err := r.planSingle(p.scope, imp.Path, span)
			if err != nil {
				return nil, err
			}
			plan = append(plan, it)
		}
	}
	return plan, nil
}

func (r *Resolver) planSingle(target ScopeID, path []source.StringID, span source.Span) (Importing, error) {
	if len(path) == 0 {
		return Importing{}, r.errorf(diag.SemaUnresolvedImport, span, "empty import path").Err()
	}
	prefix, last := path[:len(path)-1], path[len(path)-1]
	holder, ok := r.table.FindModule(prefix)
	if !ok {
		return Importing{}, r.errorf(diag.SemaUnresolvedImport, span, "module `%s` not found", r.path(prefix)).Err()
	}
	hs := r.table.Scope(holder)
	if e, ok := hs.Declared[last]; ok {
		return Importing{Kind: ImportElement, Target: target, Name: last, Elem: e, Span: span}, nil
	}
	if m, ok := hs.Modules[last]; ok {
		return Importing{Kind: ImportModule, Target: target, Source: m, Name: last, Span: span}, nil
	}
	return Importing{}, r.errorf(diag.SemaUnresolvedImport, span, "`%s` does not name a declaration or module", r.path(path)).Err()
}

func (r *Resolver) applyImport(it Importing) error {
	switch it.Kind {
	case ImportWildcard:
		if !r.table.addWildcard(it.Target, it.Source) {
			return r.errorf(diag.SemaDuplicateImport, it.Span, "module `%s` is already imported with `*`", r.table.ModuleName(it.Source)).Err()
		}
	case ImportModule:
		r.table.importModule(it.Target, it.Name, it.Source)
	case ImportElement:
		r.table.importElement(it.Target, it.Name, it.Elem)
	}
	return nil
}
