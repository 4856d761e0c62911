package sema

import (
	"strings"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/types"
)

// checkStructCycles rejects structs that contain themselves through their
// field types. Attributes do not count; a struct may build instances of
// itself in its body. Structs proven acyclic are whitelisted across roots.
func (tc *typeChecker) checkStructCycles() error {
	whitelist := make(map[ast.ItemID]struct{}, len(tc.structs))
	for _, id := range tc.structs {
		visiting := make(map[ast.ItemID]struct{})
		if err := tc.visitStruct(id, visiting, whitelist, nil); err != nil {
			return err
		}
	}
	return nil
}

func (tc *typeChecker) visitStruct(id ast.ItemID, visiting, whitelist map[ast.ItemID]struct{}, path []ast.ItemID) error {
	if _, ok := whitelist[id]; ok {
		return nil
	}
	path = append(path, id)
	if _, ok := visiting[id]; ok {
		return tc.reportStructCycle(path)
	}
	visiting[id] = struct{}{}

	s, _ := tc.builder.Items.Struct(id)
	for _, fid := range s.Fields {
		ft := tc.result.FieldTypes[fid]
		if tc.types.KindOf(ft) != types.KindStruct {
			continue
		}
		info, _ := tc.types.Nominal(ft)
		if err := tc.visitStruct(info.Item, visiting, whitelist, path); err != nil {
			return err
		}
	}

	delete(visiting, id)
	whitelist[id] = struct{}{}
	return nil
}

// reportStructCycle reports the struct that closes path.
func (tc *typeChecker) reportStructCycle(path []ast.ItemID) error {
	last := path[len(path)-1]
	start := 0
	for path[start] != last {
		start++
	}
	names := make([]string, 0, len(path)-start)
	for _, id := range path[start:] {
		names = append(names, tc.declLabel(id))
	}
	_, span := tc.builder.Items.DeclName(last)
	return tc.errorf(diag.SemaStructCycle, span, "struct `%s` contains itself", tc.declLabel(last)).
		WithNote(span, "cycle: "+strings.Join(names, " -> ")).
		Err()
}
