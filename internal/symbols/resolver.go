package symbols

import (
	"fmt"

	"docl/internal/ast"
	"docl/internal/diag"
	"docl/internal/source"
)

// Unit pairs a compilation unit with the module scope it belongs to.
type Unit struct {
	File   ast.FileID
	Module ScopeID
}

// NameRole is the syntactic position a name was used in.
type NameRole uint8

const (
	RoleValue  NameRole = iota + 1 // expression position
	RoleStruct                     // struct-init callee
	RoleType                       // field or constant type
)

func (r NameRole) String() string {
	switch r {
	case RoleValue:
		return "value"
	case RoleStruct:
		return "struct"
	case RoleType:
		return "type"
	default:
		return "invalid"
	}
}

type nameUse struct {
	name ast.NameID
	role NameRole
}

type pendingImport struct {
	scope ScopeID
	item  ast.ItemID
}

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
}

// Resolver registers declarations, materialises imports and resolves every
// collected name use of one environment.
type Resolver struct {
	table    *Table
	ast      *ast.Builder
	reporter diag.Reporter
	units    []Unit

	selfName  source.StringID
	typeNames []nameUse
	exprNames []nameUse
	imports   []pendingImport
	resolved  map[ast.NameID]Resolved
}

// NewResolver wires a resolver to a table whose scopes were already generated.
func NewResolver(table *Table, b *ast.Builder, units []Unit, opts ResolverOptions) *Resolver {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Resolver{
		table:    table,
		ast:      b,
		reporter: reporter,
		units:    units,
		selfName: table.Strings.InternIdent("self"),
		resolved: make(map[ast.NameID]Resolved),
	}
}

// Table returns the scope graph the resolver writes into.
func (r *Resolver) Table() *Table { return r.table }

// Resolved returns the memoised resolutions keyed by name use. READONLY.
func (r *Resolver) Resolved() map[ast.NameID]Resolved { return r.resolved }

// TypeNames and ExprNames return the collected use sites in walk order.
func (r *Resolver) TypeNames() []ast.NameID { return namesOf(r.typeNames) }
func (r *Resolver) ExprNames() []ast.NameID { return namesOf(r.exprNames) }

func namesOf(uses []nameUse) []ast.NameID {
	out := make([]ast.NameID, 0, len(uses))
	for _, u := range uses {
		out = append(out, u.name)
	}
	return out
}

func (r *Resolver) str(id source.StringID) string {
	s, _ := r.table.Strings.Lookup(id)
	return s
}

func (r *Resolver) path(segments []source.StringID) string {
	return ast.JoinPath(segments, r.table.Strings)
}

func (r *Resolver) errorf(code diag.Code, span source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(r.reporter, code, span, fmt.Sprintf(format, args...))
}
