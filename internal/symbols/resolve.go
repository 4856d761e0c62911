package symbols

import (
	"fmt"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
)

// Resolve looks a simple name up from scope towards the global scope. In
// each scope it tries declarations, then wildcard-imported modules, then
// nested modules; the first hit wins. Two wildcard imports that resolve the
// name to different targets are an error.
func (r *Resolver) Resolve(scope ScopeID, name source.StringID, site source.Span) (Resolved, bool, error) {
	for cur := scope; cur.IsValid(); cur = r.table.Scope(cur).Parent {
		visited := make(map[ScopeID]struct{}, 4)
		res, ok, err := r.lookupIn(cur, name, site, visited)
		if err != nil || ok {
			return res, ok, err
		}
	}
	return Resolved{}, false, nil
}

func (r *Resolver) lookupIn(scope ScopeID, name source.StringID, site source.Span, visited map[ScopeID]struct{}) (Resolved, bool, error) {
	visited[scope] = struct{}{}
	s := r.table.Scope(scope)
	if e, ok := s.Declared[name]; ok {
		return resolvedFromElement(e), true, nil
	}

	var (
		found Resolved
		from  ScopeID
	)
	for _, w := range s.Wildcards {
		if _, seen := visited[w]; seen {
			continue
		}
		res, ok, err := r.lookupIn(w, name, site, visited)
		if err != nil {
			return Resolved{}, false, err
		}
		if !ok {
			continue
		}
		if !from.IsValid() {
			found, from = res, w
			continue
		}
		if !found.Same(res) {
			return Resolved{}, false, r.errorf(diag.SemaAmbiguousName, site,
				"`%s` is ambiguous: both `%s.*` and `%s.*` provide it",
				r.str(name), r.table.ModuleName(from), r.table.ModuleName(w)).Err()
		}
	}
	if from.IsValid() {
		return found, true, nil
	}

	if m, ok := s.Modules[name]; ok {
		return resolvedModule(m), true, nil
	}
	return Resolved{}, false, nil
}

// Disambiguate resolves a possibly qualified name. The first segment goes
// through Resolve; later segments step into modules, or stop at the first
// value and become an instance access whose members are looked up once
// types are known.
func (r *Resolver) Disambiguate(scope ScopeID, segments []source.StringID, site source.Span) (Resolved, error) {
	if len(segments) == 0 {
		panic("symbols: disambiguating an empty name")
	}
	cur, ok, err := r.Resolve(scope, segments[0], site)
	if err != nil {
		return Resolved{}, err
	}
	if !ok {
		return Resolved{}, r.errorf(diag.SemaUnresolvedSymbol, site, "unresolved symbol `%s`", r.str(segments[0])).Err()
	}

	for i := 1; i < len(segments); i++ {
		seg := segments[i]
		switch cur.Kind {
		case ResolvedModule:
			ms := r.table.Scope(cur.Module)
			if e, ok := ms.Declared[seg]; ok {
				cur = resolvedFromElement(e)
				continue
			}
			if m, ok := ms.Modules[seg]; ok {
				cur = resolvedModule(m)
				continue
			}
			return Resolved{}, r.errorf(diag.SemaModuleMemberNotFound, site,
				"module `%s` has no member `%s`", r.table.ModuleName(cur.Module), r.str(seg)).Err()
		case ResolvedConstant, ResolvedField, ResolvedSelf:
			return Resolved{
				Kind:    ResolvedInstanceAccess,
				Elem:    cur.Elem,
				Members: append([]source.StringID(nil), segments[i:]...),
			}, nil
		case ResolvedStruct, ResolvedTrait:
			return Resolved{}, r.errorf(diag.SemaTypeMemberAccess, site,
				"cannot access member `%s` of %s `%s` directly", r.str(seg), cur.Kind, r.path(segments[:i])).Err()
		default:
			panic(fmt.Sprintf("symbols: unexpected %s while disambiguating", cur.Kind))
		}
	}
	return cur, nil
}

// ResolveNames resolves every collected use site, type names first, and
// memoises the result by name identity.
func (r *Resolver) ResolveNames() error {
	for _, uses := range [][]nameUse{r.typeNames, r.exprNames} {
		for _, use := range uses {
			if err := r.resolveUse(use); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) resolveUse(use nameUse) error {
	if _, done := r.resolved[use.name]; done {
		return nil
	}
	name := r.ast.Names.Get(use.name)
	scope := ScopeID(name.Scope.MustGet())
	res, err := r.Disambiguate(scope, name.Segments, name.Span)
	if err != nil {
		return err
	}
	if err := r.checkRole(use.role, use.name, res); err != nil {
		return err
	}
	r.resolved[use.name] = res
	return nil
}

func (r *Resolver) checkRole(role NameRole, id ast.NameID, res Resolved) error {
	name := r.ast.Names.Get(id)
	text := r.path(name.Segments)
	switch role {
	case RoleType:
		if !res.IsType() {
			return r.errorf(diag.SemaNotAType, name.Span, "`%s` is a %s, not a type", text, res.Kind).Err()
		}
	case RoleStruct:
		if res.Kind != ResolvedStruct {
			return r.errorf(diag.SemaNotAStruct, name.Span, "`%s` is a %s, not a struct", text, res.Kind).Err()
		}
	case RoleValue:
		if res.Kind == ResolvedModule {
			return r.errorf(diag.SemaModuleAsValue, name.Span, "module `%s` cannot be used as a value", text).Err()
		}
		if !res.IsValue() {
			return r.errorf(diag.SemaNotAValue, name.Span, "`%s` is a %s, not a value", text, res.Kind).Err()
		}
	}
	return nil
}
