// Package env builds the checked, read-only Environment of one program.
//
// Construction is a fixed sequence of stages, each a distinct type whose only
// exported method advances to the next one:
//
//	Constructed -> ModulesAdded -> ScopesGenerated -> NamesResolved -> Validated
//
// so scopes cannot be generated before modules exist, names cannot be resolved
// before scopes exist, and no Environment is handed out before validation.
// Every stage value can be advanced once; reusing a spent stage panics.
package env
