// SPDX-License-Identifier: MPL-2.0

package treecopy

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/minio/highwayhash"
)

const compareChunkSize = 32 * 1024

var digestKey = []byte("mvnmerge-content-digest-key-0001")

type (
	// Copier copies trees within one filesystem and remembers where every
	// destination file came from, so conflicts can name both sources.
	// A Copier is not safe for concurrent use.
	Copier struct {
		fs      billy.Filesystem
		origins map[string]string
		stats   Stats
	}

	// Stats counts what a Copier has done so far.
	Stats struct {
		// Copied is the number of files written to a destination.
		Copied int `yaml:"copied"`
		// Identical is the number of files skipped because an identical file was already there.
		Identical int `yaml:"identical"`
		// Directories is the number of directories visited (created or already present).
		Directories int `yaml:"directories"`
	}
)

// New creates a Copier over fsys.
func New(fsys billy.Filesystem) *Copier {
	return &Copier{
		fs:      fsys,
		origins: make(map[string]string),
	}
}

// CopyTree copies a single tree with a fresh Copier.
func CopyTree(fsys billy.Filesystem, src, dst string) error {
	return New(fsys).CopyTree(src, dst)
}

// Stats returns the counters accumulated across all CopyTree calls.
func (c *Copier) Stats() Stats {
	return c.stats
}

// CopyTree copies every entry under src to the same relative path under dst.
// Directories are created as needed; an existing directory is reused. Symlinks
// are skipped. The first conflict or I/O failure stops the copy.
func (c *Copier) CopyTree(src, dst string) error {
	return util.Walk(c.fs, src, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("failed to read %s: %w", path, walkErr)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			return nil
		case info.IsDir():
			if err := c.fs.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			c.stats.Directories++
			return nil
		default:
			return c.copyFile(path, target, info)
		}
	})
}

func (c *Copier) copyFile(src, dst string, srcInfo os.FileInfo) error {
	dstInfo, err := c.fs.Stat(dst)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := c.writeFile(src, dst, srcInfo.Mode().Perm()); err != nil {
			return err
		}
		c.origins[dst] = src
		c.stats.Copied++
		return nil
	case err != nil:
		return fmt.Errorf("failed to stat %s: %w", dst, err)
	case dstInfo.IsDir():
		// A directory already occupies the path; nothing to compare.
		return nil
	}

	same, err := c.sameContent(src, dst, srcInfo.Size(), dstInfo.Size())
	if err != nil {
		return err
	}
	if same {
		c.stats.Identical++
		return nil
	}
	return c.conflict(src, dst)
}

func (c *Copier) writeFile(src, dst string, perm os.FileMode) (err error) {
	in, err := c.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := c.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dst, closeErr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

func (c *Copier) sameContent(a, b string, sizeA, sizeB int64) (bool, error) {
	if sizeA != sizeB {
		return false, nil
	}
	fa, err := c.fs.Open(a)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", a, err)
	}
	defer fa.Close()
	fb, err := c.fs.Open(b)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", b, err)
	}
	defer fb.Close()

	bufA := make([]byte, compareChunkSize)
	bufB := make([]byte, compareChunkSize)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		doneB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if errA != nil && !doneA {
			return false, fmt.Errorf("failed to read %s: %w", a, errA)
		}
		if errB != nil && !doneB {
			return false, fmt.Errorf("failed to read %s: %w", b, errB)
		}
		if doneA || doneB {
			return doneA == doneB, nil
		}
	}
}

func (c *Copier) conflict(src, dst string) error {
	existing := dst
	if origin, ok := c.origins[dst]; ok {
		existing = origin
	}
	srcDigest, err := c.digest(src)
	if err != nil {
		return err
	}
	dstDigest, err := c.digest(dst)
	if err != nil {
		return err
	}
	return &ContentConflictError{
		Source:         src,
		Existing:       existing,
		Destination:    dst,
		SourceDigest:   srcDigest,
		ExistingDigest: dstDigest,
	}
}

func (c *Copier) digest(name string) (string, error) {
	f, err := c.fs.Open(name)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	h, err := highwayhash.New64(digestKey)
	if err != nil {
		return "", fmt.Errorf("failed to init content digest: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
