// Package archive extracts gzip-compressed tarballs.
package archive

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Extractor implements ports.ArchiveExtractor.
type Extractor struct{}

// New creates a new Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract unpacks the .tar.gz at archivePath into dest. Entry names are kept
// as they are, so an archive rooted at node-v22.6.0/ yields dest/node-v22.6.0.
// Entries that would land outside dest are rejected.
func (e *Extractor) Extract(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", archivePath)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", archivePath)
	}
	defer func() { _ = gz.Close() }()

	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create extraction directory"), "path", dest)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", archivePath)
		}

		if err := extractEntry(tr, hdr, dest); err != nil {
			return zerr.With(err, "archive", archivePath)
		}
	}
}

func extractEntry(tr *tar.Reader, hdr *tar.Header, dest string) error {
	switch hdr.Typeflag {
	case tar.TypeXHeader, tar.TypeXGlobalHeader:
		return nil
	}

	target, err := safeJoin(dest, hdr.Name)
	if err != nil {
		return err
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
		}
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(target))
		}
		if err := writeFile(target, tr, os.FileMode(hdr.Mode).Perm()|0o200); err != nil { //nolint:gosec // mode comes from a trusted header archive
			return err
		}
	case tar.TypeSymlink:
		if err := checkLink(dest, target, hdr.Linkname); err != nil {
			return zerr.With(err, "entry", hdr.Name)
		}
		if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(target))
		}
		if err := os.Symlink(hdr.Linkname, target); err != nil && !os.IsExist(err) {
			return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", target)
		}
	}
	return nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", path)
	}
	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // archive size is bounded by the download
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", path)
	}
	return nil
}

// safeJoin joins name onto dest and fails if the result leaves dest.
// checkLink rejects a symlink at target whose destination, resolved from the
// link's own directory, leaves dest.
func checkLink(dest, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return domain.ErrUnsafeArchivePath
	}
	resolved := filepath.Join(filepath.Dir(target), filepath.FromSlash(linkname))
	rel, err := filepath.Rel(dest, resolved)
	if err != nil {
		return domain.ErrUnsafeArchivePath
	}
	if _, err := safeJoin(dest, rel); err != nil {
		return domain.ErrUnsafeArchivePath
	}
	return nil
}

func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(domain.ErrUnsafeArchivePath, "entry", name)
	}
	return target, nil
}
