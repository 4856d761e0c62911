package symbols

import (
	"errors"
	"fmt"
)

// Validate walks the scope arena checking structural invariants. Returns nil
// if everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error
	scopes := t.Scopes.All()
	if len(scopes) == 0 || scopes[0].Kind != ScopeGlobal {
		return errors.New("first scope is not the global scope")
	}

	globals := 0
	for i := range scopes {
		s := &scopes[i]
		switch s.Kind {
		case ScopeGlobal:
			globals++
			if s.Parent.IsValid() {
				errs = append(errs, fmt.Errorf("global scope %d has parent %d", s.ID, s.Parent))
			}
		case ScopeModule:
			if s.Parent != GlobalScopeID {
				errs = append(errs, fmt.Errorf("module scope %d has parent %d, want global", s.ID, s.Parent))
			}
			if len(s.Path) == 0 {
				errs = append(errs, fmt.Errorf("module scope %d has no path", s.ID))
			}
		case ScopeStruct, ScopeBlock, ScopeContent:
			if !s.Parent.IsValid() || s.Parent >= s.ID {
				errs = append(errs, fmt.Errorf("%s scope %d has invalid parent %d", s.Kind, s.ID, s.Parent))
			}
		default:
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", s.ID))
		}

		for name, mod := range s.Modules {
			if int(mod) > len(scopes) || !mod.IsValid() || scopes[mod-1].Kind != ScopeModule {
				errs = append(errs, fmt.Errorf("scope %d binds module name %d to non-module %d", s.ID, name, mod))
			}
		}
		for _, w := range s.Wildcards {
			if int(w) > len(scopes) || !w.IsValid() || scopes[w-1].Kind != ScopeModule {
				errs = append(errs, fmt.Errorf("scope %d wildcard-imports non-module %d", s.ID, w))
			}
		}
		if len(s.order) != len(s.Declared) {
			errs = append(errs, fmt.Errorf("scope %d declaration order out of sync", s.ID))
		}
	}
	if globals != 1 {
		errs = append(errs, fmt.Errorf("found %d global scopes", globals))
	}
	return errors.Join(errs...)
}
