// SPDX-License-Identifier: MPL-2.0

package merger

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/mvnmerge/mvnmerge/pkg/pom"
)

// Aggregate collects the dependencies of the given module descriptors into
// the dependency set of the module they are merged into.
//
// Every key must be declared with a single version (or consistently without
// one) across all descriptors. Surviving dependencies get compile scope, and
// dependencies on any of the merged modules themselves are dropped. The
// result is sorted by key and does not depend on the order of descriptors.
func Aggregate(descriptors ...*pom.Descriptor) ([]pom.Dependency, error) {
	groups := make(map[pom.Key][]pom.Dependency)
	self := make(map[pom.Key]struct{}, len(descriptors))

	for _, d := range descriptors {
		deps, err := d.Dependencies()
		if err != nil {
			return nil, fmt.Errorf("failed to read dependencies of %s: %w", d.Key(), err)
		}
		for _, dep := range deps {
			groups[dep.Key()] = append(groups[dep.Key()], dep)
		}
		self[d.Key()] = struct{}{}
	}

	keys := make([]pom.Key, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, pom.Key.Compare)

	result := make([]pom.Dependency, 0, len(keys))
	for _, key := range keys {
		entries := groups[key]
		if distinctVersions(entries) > 1 {
			conflict := slices.Clone(entries)
			pom.SortDependencies(conflict)
			return nil, &VersionConflictError{Key: key, Entries: conflict}
		}
		if _, ok := self[key]; ok {
			continue
		}
		result = append(result, pom.Dependency{
			GroupID:    key.GroupID,
			ArtifactID: key.ArtifactID,
			Version:    entries[0].Version,
			Scope:      pom.ScopeCompile,
		})
	}
	return result, nil
}

func distinctVersions(deps []pom.Dependency) int {
	seen := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		seen[d.Version] = struct{}{}
	}
	return len(seen)
}
