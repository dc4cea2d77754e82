// SPDX-License-Identifier: MPL-2.0

// Package merger folds several sibling Maven modules into one synthetic module.
//
// A merge copies the subdirectories selected by a Mode from every eligible
// module into a new module directory, aggregates the modules' dependencies
// into a freshly generated descriptor, registers the new module in the root
// descriptor and writes the list of modules a CI pipeline should run next.
package merger
