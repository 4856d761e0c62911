package sema

import (
	"docl/internal/diag"
	"docl/internal/source"
	"docl/internal/symbols"
	"docl/internal/types"
)

type conformPair struct {
	src, dst types.TypeID
}

// renderTarget caches the lookup of the framework's render trait.
type renderTarget struct {
	looked bool
	found  bool
	module symbols.ScopeID
	trait  types.TypeID
	label  string
}

// assignable reports whether a value of type src may be used where dst is
// expected. Traits are matched structurally, except that the render trait
// also accepts every struct declared in the render module and every
// Children value.
func (tc *typeChecker) assignable(src, dst types.TypeID) (bool, error) {
	if src == dst {
		return true, nil
	}
	b := tc.types.Builtins()
	if src == b.Void && dst == b.Children {
		return true, nil
	}
	if tc.types.KindOf(dst) != types.KindTrait {
		return false, nil
	}
	if tc.rendersNominally(src, dst) {
		return true, nil
	}
	return tc.conforms(src, dst)
}

// conforms checks that src exposes every field trait dst requires, under the
// same name and with an assignable type. A pair already being checked is
// assumed to hold, so self-referential traits terminate.
func (tc *typeChecker) conforms(src, dst types.TypeID) (bool, error) {
	trait, ok := tc.types.Nominal(dst)
	if !ok {
		return false, nil
	}
	if len(trait.Fields) == 0 {
		return true, nil
	}
	if !tc.types.KindOf(src).IsNominal() {
		return false, nil
	}
	key := conformPair{src: src, dst: dst}
	if _, ok := tc.assumed[key]; ok {
		return true, nil
	}
	tc.assumed[key] = struct{}{}
	defer delete(tc.assumed, key)

	for _, req := range trait.Fields {
		m, ok := tc.types.Member(src, req.Name)
		if !ok {
			return false, nil
		}
		mt, err := tc.memberType(m)
		if err != nil {
			return false, err
		}
		ok, err = tc.assignable(mt, req.Type)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (tc *typeChecker) rendersNominally(src, dst types.TypeID) bool {
	render := tc.renderTarget()
	if !render.found || dst != render.trait {
		return false
	}
	switch tc.types.KindOf(src) {
	case types.KindChildren:
		return true
	case types.KindStruct:
		info, _ := tc.types.Nominal(src)
		scope, ok := tc.table.DeclScope(info.Item)
		return ok && scope == render.module
	}
	return false
}

// renderTarget looks the render trait up once. Only names already interned
// can be declared, so the lookup never grows the string table.
func (tc *typeChecker) renderTarget() renderTarget {
	if tc.render.looked {
		return tc.render
	}
	tc.render.looked = true
	tc.render.label = tc.opts.RenderModule + "." + tc.opts.RenderTrait

	segments := splitPath(tc.opts.RenderModule)
	path := make([]source.StringID, 0, len(segments))
	for _, seg := range segments {
		id, ok := tc.table.Strings.Find(seg)
		if !ok {
			return tc.render
		}
		path = append(path, id)
	}
	module, ok := tc.table.FindModule(path)
	if !ok || module == symbols.GlobalScopeID {
		return tc.render
	}
	name, ok := tc.table.Strings.Find(tc.opts.RenderTrait)
	if !ok {
		return tc.render
	}
	elem, ok := tc.table.Lookup(module, name)
	if !ok || elem.Kind != symbols.ElemTrait {
		return tc.render
	}
	tc.render.found = true
	tc.render.module = module
	tc.render.trait = tc.mustTypeOf(elem.Item)
	return tc.render
}

// requireRenderable fails unless t may be rendered. what names the value in
// the message, e.g. "entry point `Main`".
func (tc *typeChecker) requireRenderable(t types.TypeID, span source.Span, what string) error {
	render := tc.renderTarget()
	if !render.found {
		return tc.errorf(diag.SemaRenderTraitMissing, span,
			"%s must implement `%s`, but no such trait is declared", what, render.label).Err()
	}
	ok, err := tc.assignable(t, render.trait)
	if err != nil {
		return err
	}
	if !ok {
		return tc.errorf(diag.SemaNotRenderable, span,
			"%s has type `%s`, which does not implement `%s`", what, tc.typeLabel(t), render.label).Err()
	}
	return nil
}
