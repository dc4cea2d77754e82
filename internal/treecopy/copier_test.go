// SPDX-License-Identifier: MPL-2.0

package treecopy

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fsys billy.Filesystem, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fsys, name, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, fsys billy.Filesystem, name string) string {
	t.Helper()
	data, err := util.ReadFile(fsys, name)
	require.NoError(t, err)
	return string(data)
}

func TestCopyTreeDisjoint(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"m1/src/main/java/A.java": "class A {}",
		"m2/src/main/java/B.java": "class B {}",
	})

	c := New(fsys)
	require.NoError(t, c.CopyTree("m1/src", "merged/src"))
	require.NoError(t, c.CopyTree("m2/src", "merged/src"))

	assert.Equal(t, "class A {}", readFile(t, fsys, "merged/src/main/java/A.java"))
	assert.Equal(t, "class B {}", readFile(t, fsys, "merged/src/main/java/B.java"))
	assert.Equal(t, 2, c.Stats().Copied)
	assert.Equal(t, 0, c.Stats().Identical)

	// sources are left untouched
	assert.Equal(t, "class A {}", readFile(t, fsys, "m1/src/main/java/A.java"))
}

func TestCopyTreeIdenticalFilesAreSkipped(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"m1/src/test/resources/allure.properties": "allure.results.directory=target/allure-results\n",
		"m2/src/test/resources/allure.properties": "allure.results.directory=target/allure-results\n",
	})

	c := New(fsys)
	require.NoError(t, c.CopyTree("m1/src", "merged/src"))
	require.NoError(t, c.CopyTree("m2/src", "merged/src"))

	assert.Equal(t, 1, c.Stats().Copied)
	assert.Equal(t, 1, c.Stats().Identical)
}

func TestCopyTreeConflict(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"m1/src/main/resources/app.properties": "a=1",
		"m2/src/main/resources/app.properties": "a=2",
	})

	c := New(fsys)
	require.NoError(t, c.CopyTree("m1/src", "merged/src"))
	err := c.CopyTree("m2/src", "merged/src")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContentConflict))

	var conflict *ContentConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "m2/src/main/resources/app.properties", conflict.Source)
	assert.Equal(t, "m1/src/main/resources/app.properties", conflict.Existing)
	assert.Equal(t, "merged/src/main/resources/app.properties", conflict.Destination)
	assert.NotEqual(t, conflict.SourceDigest, conflict.ExistingDigest)
	assert.Contains(t, err.Error(), "m1/src/main/resources/app.properties")
	assert.Contains(t, err.Error(), "m2/src/main/resources/app.properties")

	// the first module's content wins on disk
	assert.Equal(t, "a=1", readFile(t, fsys, "merged/src/main/resources/app.properties"))
}

func TestCopyTreeConflictSameSizeDifferentBytes(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"m1/x/data.bin": "abcd",
		"m2/x/data.bin": "abce",
	})

	c := New(fsys)
	require.NoError(t, c.CopyTree("m1/x", "out"))
	err := c.CopyTree("m2/x", "out")
	assert.ErrorIs(t, err, ErrContentConflict)
}

func TestCopyTreeLargeIdenticalFiles(t *testing.T) {
	t.Parallel()

	big := make([]byte, 3*compareChunkSize+17)
	for i := range big {
		big[i] = byte(i % 251)
	}

	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "m1/x/big.bin", big, 0o644))
	require.NoError(t, util.WriteFile(fsys, "m2/x/big.bin", big, 0o644))

	c := New(fsys)
	require.NoError(t, c.CopyTree("m1/x", "out"))
	require.NoError(t, c.CopyTree("m2/x", "out"))
	assert.Equal(t, 1, c.Stats().Identical)
}

func TestCopyTreePreexistingDestination(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"m1/src/a.txt": "new",
		"out/a.txt":    "old",
	})

	err := CopyTree(fsys, "m1/src", "out")
	var conflict *ContentConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "out/a.txt", conflict.Existing)
}

func TestCopyTreeExistingDirectoryIsNotConflict(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"m1/src/thing":       "file",
		"out/thing/keep.txt": "dir content",
	})

	require.NoError(t, CopyTree(fsys, "m1/src", "out"))
	assert.Equal(t, "dir content", readFile(t, fsys, "out/thing/keep.txt"))
}

func TestCopyTreeMissingSource(t *testing.T) {
	t.Parallel()

	err := CopyTree(memfs.New(), "absent", "out")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrContentConflict)
}

func TestCopyTreeSkipsSymlinks(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{"m1/src/real.txt": "x"})
	require.NoError(t, fsys.Symlink("real.txt", "m1/src/link.txt"))

	c := New(fsys)
	require.NoError(t, c.CopyTree("m1/src", "out"))

	_, err := fsys.Lstat("out/link.txt")
	assert.Error(t, err)
	assert.Equal(t, 1, c.Stats().Copied)
}
