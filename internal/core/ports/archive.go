package ports

// ArchiveExtractor unpacks compressed archives.
//
//go:generate mockgen -source=archive.go -destination=mocks/mock_archive.go -package=mocks
type ArchiveExtractor interface {
	// Extract unpacks the gzip-compressed tarball at archivePath into dest.
	Extract(archivePath, dest string) error
}
