package symbols

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // file scope, lives for the whole compilation
	ScopeFunction           // parameters
	ScopeBlock              // compound statement
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope maps names to symbols declared directly in it.
type Scope struct {
	Kind    ScopeKind
	names   map[string]SymbolID
	Symbols []SymbolID
}

func newScope(kind ScopeKind) *Scope {
	return &Scope{Kind: kind, names: make(map[string]SymbolID)}
}

func (s *Scope) lookup(name string) (SymbolID, bool) {
	id, ok := s.names[name]
	return id, ok
}

func (s *Scope) bind(name string, id SymbolID) {
	if _, ok := s.names[name]; !ok {
		s.Symbols = append(s.Symbols, id)
	}
	s.names[name] = id
}
