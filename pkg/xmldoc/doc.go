// SPDX-License-Identifier: MPL-2.0

// Package xmldoc is a small mutable XML tree API built on etree.
//
// It covers what build-descriptor editing needs: parse from a file or a
// stream, query elements by path (zero, one or many results), mutate the tree
// through the returned *etree.Element values, and serialize back to a writer
// or file, optionally pretty-printed.
//
// A Document holds no references to package-level parser or writer state, so
// independent documents can be read, queried and written from concurrent
// goroutines. A single Document is not safe for concurrent mutation.
package xmldoc
