// SPDX-License-Identifier: MPL-2.0

package xmldoc

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	lru "github.com/hashicorp/golang-lru/v2"
)

const compiledPathCacheSize = 256

// ErrInvalidPath is the sentinel error wrapped by InvalidPathError.
var ErrInvalidPath = errors.New("invalid path")

// compiledPaths memoizes compiled query paths. Compiled paths are immutable
// and the cache is internally synchronized.
var compiledPaths = mustNewPathCache()

type (
	// Path is a compiled etree path such as "/project/dependencies/dependency".
	Path struct {
		raw      string
		compiled etree.Path
	}

	// InvalidPathError is returned when a path expression does not compile.
	InvalidPathError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %v", e.Path, e.Err)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// CompilePath compiles a path expression, reusing a cached compilation when available.
func CompilePath(raw string) (Path, error) {
	if p, ok := compiledPaths.Get(raw); ok {
		return p, nil
	}
	compiled, err := etree.CompilePath(raw)
	if err != nil {
		return Path{}, &InvalidPathError{Path: raw, Err: err}
	}
	p := Path{raw: raw, compiled: compiled}
	compiledPaths.Add(raw, p)
	return p, nil
}

// MustCompilePath is like CompilePath but panics if the expression is invalid.
// It is meant for package-level path constants.
func MustCompilePath(raw string) Path {
	p, err := CompilePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression of the path.
func (p Path) String() string { return p.raw }

func mustNewPathCache() *lru.Cache[string, Path] {
	cache, err := lru.New[string, Path](compiledPathCacheSize)
	if err != nil {
		panic(fmt.Sprintf("xmldoc: path cache: %v", err))
	}
	return cache
}
