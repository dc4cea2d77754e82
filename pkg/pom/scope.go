// SPDX-License-Identifier: MPL-2.0

package pom

import (
	"errors"
	"fmt"
	"strings"
)

// Dependency scopes. The zero value is ScopeCompile, matching Maven's
// implicit default for a dependency without a <scope> element.
const (
	ScopeCompile Scope = iota
	ScopeSystem
	ScopeRuntime
	ScopeProvided
	ScopeTest
)

// ErrIllegalScope is the sentinel error wrapped by IllegalScopeError.
var ErrIllegalScope = errors.New("illegal dependency scope")

var scopeNames = map[Scope]string{
	ScopeCompile:  "compile",
	ScopeSystem:   "system",
	ScopeRuntime:  "runtime",
	ScopeProvided: "provided",
	ScopeTest:     "test",
}

type (
	// Scope is a Maven dependency scope.
	Scope int

	// IllegalScopeError is returned when a descriptor declares a scope name
	// that is not one of the known scopes.
	IllegalScopeError struct {
		Value string
		// Dependency identifies the declaring dependency ("group:artifact"), when known.
		Dependency string
	}
)

// ScopeByName returns the scope with the given name.
func ScopeByName(name string) (Scope, error) {
	for s, n := range scopeNames {
		if n == name {
			return s, nil
		}
	}
	return ScopeCompile, &IllegalScopeError{Value: name}
}

// Scopes returns every known scope in declaration order.
func Scopes() []Scope {
	return []Scope{ScopeSystem, ScopeCompile, ScopeRuntime, ScopeProvided, ScopeTest}
}

// String returns the scope name as written in a descriptor.
func (s Scope) String() string {
	if n, ok := scopeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	if _, ok := scopeNames[s]; !ok {
		return nil, fmt.Errorf("unknown scope %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ScopeByName(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Error implements the error interface.
func (e *IllegalScopeError) Error() string {
	if e.Dependency != "" {
		return fmt.Sprintf("illegal scope %q for dependency %s", e.Value, e.Dependency)
	}
	return fmt.Sprintf("illegal scope %q", e.Value)
}

// Unwrap returns ErrIllegalScope for errors.Is() compatibility.
func (e *IllegalScopeError) Unwrap() error { return ErrIllegalScope }
