package symbols

// ScopeID identifies a scope in the scope arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
	// GlobalScopeID is the root every module hangs off. It is the first scope
	// a Table allocates.
	GlobalScopeID ScopeID = 1
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }
