package sema

import (
	"fmt"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
)

// checkEntrypoint requires exactly one top-level constant named after the
// configured entry, declared (not imported) in some module, whose type
// implements the render trait.
func (tc *typeChecker) checkEntrypoint() error {
	entry := tc.opts.Entry
	if entry == "" {
		return nil
	}
	var consts []ast.ItemID
	if name, ok := tc.table.Strings.Find(entry); ok {
		consts = tc.table.TopLevelConstants(name)
	}
	switch len(consts) {
	case 0:
		return tc.errorf(diag.SemaEntrypointNotFound, source.Span{},
			"no module declares a top-level constant `%s`", entry).Err()
	case 1:
	default:
		_, span := tc.builder.Items.DeclName(consts[1])
		b := tc.errorf(diag.SemaMultipleEntrypoints, span,
			"entry point `%s` is declared in %d modules", entry, len(consts))
		for _, id := range consts {
			_, sp := tc.builder.Items.DeclName(id)
			scope, _ := tc.table.DeclScope(id)
			b.WithNote(sp, fmt.Sprintf("declared in module `%s`", tc.table.ModuleName(scope)))
		}
		return b.Err()
	}

	item := consts[0]
	t, err := tc.ensureConstTyped(item)
	if err != nil {
		return err
	}
	_, span := tc.builder.Items.DeclName(item)
	if err := tc.requireRenderable(t, span, fmt.Sprintf("entry point `%s`", entry)); err != nil {
		return err
	}
	tc.result.Entry = item
	tc.result.EntryType = t
	return nil
}
