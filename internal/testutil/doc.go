// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, MustUnsetenv),
// file operations (MustChdir, MustMkdirAll, MustWriteFile, MustReadFile) and the
// Project fixture builder for Maven project trees on any go-billy filesystem.
package testutil
