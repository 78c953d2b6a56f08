package teamsai

import (
	"sort"
	"strings"
	"sync"
)

// Memory is the scope-qualified key-value state a template renders against.
// A path is "scope.property" or a bare "property" in the temp scope. Scope
// and property names are case-insensitive. The engine treats a nil
// *TurnState like a nil Memory: no scopes exist.
type Memory interface {
	Get(path string) (any, bool)
	Set(path string, value any) error
	Has(path string) bool
	Delete(path string)
	HasScope(name string) bool
}

// StateScope is a named set of values. Keys keep the casing of their first
// write; lookups go through a lower-cased index maintained on every write.
type StateScope struct {
	mu      sync.RWMutex
	name    string
	values  map[string]any
	index   map[string]string
	changed bool
	deleted bool
}

// NewStateScope creates a scope holding a copy of values.
func NewStateScope(name string, values map[string]any) *StateScope {
	s := &StateScope{
		name:   name,
		values: make(map[string]any, len(values)),
		index:  make(map[string]string, len(values)),
	}
	for k, v := range values {
		s.put(k, v)
	}
	return s
}

// Name returns the scope name.
func (s *StateScope) Name() string { return s.name }

// Get returns the value stored under key.
func (s *StateScope) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orig, ok := s.index[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	return s.values[orig], true
}

// Has reports whether key is set.
func (s *StateScope) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores a value and marks the scope changed.
func (s *StateScope) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(key, value)
	s.changed = true
	s.deleted = false
}

// put writes without locking or change tracking.
func (s *StateScope) put(key string, value any) {
	lower := strings.ToLower(key)
	if orig, ok := s.index[lower]; ok {
		key = orig
	}
	s.index[lower] = key
	s.values[key] = value
}

// Delete removes key from the scope.
func (s *StateScope) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(key)
	orig, ok := s.index[lower]
	if !ok {
		return
	}
	delete(s.index, lower)
	delete(s.values, orig)
	s.changed = true
}

// Clear removes every value and marks the scope for deletion from storage.
func (s *StateScope) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]any)
	s.index = make(map[string]string)
	s.changed = true
	s.deleted = true
}

// Keys returns the stored keys in sorted order.
func (s *StateScope) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a shallow copy of the scope contents.
func (s *StateScope) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Changed reports whether the scope was written since it was created or
// last marked saved.
func (s *StateScope) Changed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// Deleted reports whether the scope was cleared.
func (s *StateScope) Deleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleted
}

// markSaved resets change tracking after persistence.
func (s *StateScope) markSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = false
	s.deleted = false
}

// TurnState is the Memory implementation used for a single turn. It always
// has a temp scope; conversation and user scopes are added by the
// TurnStateManager or by the caller.
type TurnState struct {
	mu     sync.RWMutex
	scopes map[string]*StateScope // lower-cased name -> scope
}

// NewTurnState creates a state with an empty temp scope.
func NewTurnState() *TurnState {
	ts := &TurnState{scopes: make(map[string]*StateScope)}
	ts.scopes[ScopeTemp] = NewStateScope(ScopeTemp, nil)
	return ts
}

// NewTurnStateFromMap creates a state with one scope per top-level entry of
// scopes. Entries that are not maps are ignored. A temp scope is always present.
func NewTurnStateFromMap(scopes map[string]any) *TurnState {
	ts := &TurnState{scopes: make(map[string]*StateScope)}
	for name, raw := range scopes {
		values, ok := raw.(map[string]any)
		if !ok || strings.EqualFold(name, ScopeActivity) {
			continue
		}
		ts.scopes[strings.ToLower(name)] = NewStateScope(name, values)
	}
	if _, ok := ts.scopes[ScopeTemp]; !ok {
		ts.scopes[ScopeTemp] = NewStateScope(ScopeTemp, nil)
	}
	return ts
}

// AddScope registers a scope. Names are case-insensitive; the activity scope
// name is reserved.
func (ts *TurnState) AddScope(scope *StateScope) error {
	lower := strings.ToLower(scope.Name())
	if lower == ScopeActivity {
		return NewStateError(ErrMsgScopeReserved + ": " + scope.Name())
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.scopes[lower]; exists {
		return NewStateError(ErrMsgScopeExists + ": " + scope.Name())
	}
	ts.scopes[lower] = scope
	return nil
}

// Scope returns a scope by case-insensitive name.
func (ts *TurnState) Scope(name string) (*StateScope, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	s, ok := ts.scopes[strings.ToLower(name)]
	return s, ok
}

// ScopeNames returns the registered scope names in sorted order.
func (ts *TurnState) ScopeNames() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	names := make([]string, 0, len(ts.scopes))
	for _, s := range ts.scopes {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}

// Temp returns the temp scope.
func (ts *TurnState) Temp() *StateScope {
	s, _ := ts.Scope(ScopeTemp)
	return s
}

// Conversation returns the conversation scope, or nil if not loaded.
func (ts *TurnState) Conversation() *StateScope {
	s, _ := ts.Scope(ScopeConversation)
	return s
}

// User returns the user scope, or nil if not loaded.
func (ts *TurnState) User() *StateScope {
	s, _ := ts.Scope(ScopeUser)
	return s
}

// HasScope reports whether a scope with the given name exists.
func (ts *TurnState) HasScope(name string) bool {
	_, ok := ts.Scope(name)
	return ok
}

// Get returns the value at path. Malformed paths and unknown scopes are misses.
func (ts *TurnState) Get(path string) (any, bool) {
	scopeName, key, err := ParsePath(path)
	if err != nil {
		return nil, false
	}
	scope, ok := ts.Scope(scopeName)
	if !ok {
		return nil, false
	}
	return scope.Get(key)
}

// Set stores value at path. The scope must exist.
func (ts *TurnState) Set(path string, value any) error {
	scopeName, key, err := ParsePath(path)
	if err != nil {
		return err
	}
	scope, ok := ts.Scope(scopeName)
	if !ok {
		return NewScopeNotFoundError(scopeName)
	}
	scope.Set(key, value)
	return nil
}

// Has reports whether path holds a value.
func (ts *TurnState) Has(path string) bool {
	_, ok := ts.Get(path)
	return ok
}

// Delete removes the value at path. Unknown paths are ignored.
func (ts *TurnState) Delete(path string) {
	scopeName, key, err := ParsePath(path)
	if err != nil {
		return
	}
	if scope, ok := ts.Scope(scopeName); ok {
		scope.Delete(key)
	}
}

// ParsePath splits "scope.property" or "property" (temp scope).
// Empty segments and paths with more than two segments are rejected.
func ParsePath(path string) (scope, property string, err error) {
	parts := strings.Split(path, PathSeparator)
	switch len(parts) {
	case 1:
		scope, property = ScopeTemp, parts[0]
	case 2:
		scope, property = parts[0], parts[1]
	default:
		return "", "", NewInvalidPathError(path)
	}
	if scope == "" || property == "" {
		return "", "", NewInvalidPathError(path)
	}
	return scope, property, nil
}
