package genotype

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// NoDataMemberError is returned when a zip archive contains no entry that
// looks like the genome data file. It names the entries that were found so
// the caller can surface them.
type NoDataMemberError struct {
	Entries []string
}

func (e *NoDataMemberError) Error() string {
	return fmt.Sprintf("no genome data file found in zip archive (entries: %s)", strings.Join(e.Entries, ", "))
}

// extractFromZip locates and decompresses the single archive member most
// likely to hold the genome data. Consumer exports usually contain one
// text file whose name includes "genome"; some platforms ship a bare
// extensionless member instead.
func extractFromZip(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip archive: %w", err)
	}
	defer archive.Close()

	var entries []string
	var member *zip.File
	for _, f := range archive.File {
		entries = append(entries, f.Name)
		if member == nil && isDataMember(f) {
			member = f
		}
	}

	if member == nil {
		return "", &NoDataMemberError{Entries: entries}
	}

	rc, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("open zip member %s: %w", member.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("decompress zip member %s: %w", member.Name, err)
	}
	return string(data), nil
}

// isDataMember applies the member-name heuristic: contains "genome", or
// ends in .txt, or has no extension and is not a directory.
func isDataMember(f *zip.File) bool {
	if f.FileInfo().IsDir() {
		return false
	}
	name := strings.ToLower(f.Name)
	if strings.Contains(name, "genome") {
		return true
	}
	if strings.HasSuffix(name, ".txt") {
		return true
	}
	base := name
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	return !strings.Contains(base, ".")
}
