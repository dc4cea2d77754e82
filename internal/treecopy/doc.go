// SPDX-License-Identifier: MPL-2.0

// Package treecopy merges directory trees into a shared destination.
//
// Files that land on an existing destination file must be byte-identical to
// it; identical files are treated as already merged, differing files abort the
// copy with a ContentConflictError naming both sources.
package treecopy
