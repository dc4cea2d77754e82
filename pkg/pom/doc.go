// SPDX-License-Identifier: MPL-2.0

// Package pom reads and edits Maven build descriptors (pom.xml).
//
// It understands only the narrow part of the schema the modules merger needs:
// the project's artifactId/groupId/version, its parent reference, the direct
// dependency list and the child module list. Everything else in a descriptor
// is preserved untouched when the document is written back.
package pom
