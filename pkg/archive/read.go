// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Entry describes one member of a package.
type Entry struct {
	Name  string
	Size  int64
	Mode  int64
	IsDir bool
}

// Entries lists the members of the package at path in archive order.
func Entries(path string) ([]Entry, error) {
	var entries []Entry
	err := Walk(path, func(hdr *tar.Header, _ io.Reader) error {
		entries = append(entries, Entry{
			Name:  hdr.Name,
			Size:  hdr.Size,
			Mode:  hdr.Mode,
			IsDir: hdr.Typeflag == tar.TypeDir,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Walk decompresses the package at path and calls fn for each member with
// a reader positioned at the member's content.
func Walk(path string, fn func(hdr *tar.Header, r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open package: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read package %s: %w", path, err)
	}
	defer dec.Close()

	tr := tar.NewReader(dec)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read package %s: %w", path, err)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}
