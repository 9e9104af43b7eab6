package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Artifact is one file materialized in a workspace's output area. The
// produced artifact set is always discovered by scanning the output area, not
// enumerated in code, so new toolchain output types are published without
// code changes.
type Artifact struct {
	Path   string
	Name   string
	Size   int64
	SHA256 string
}

// ManifestEntryCreator is an interface for data that can describe itself as a
// manifest entry under a destination key prefix
type ManifestEntryCreator interface {
	ManifestEntry(bucket, keyPrefix string) ManifestEntry
}

// ManifestEntry implements the ManifestEntryCreator interface
func (a Artifact) ManifestEntry(bucket, keyPrefix string) ManifestEntry {
	return ManifestEntry{
		Bucket:   bucket,
		Key:      keyPrefix + "/" + a.Name,
		Size:     a.Size,
		Checksum: a.SHA256,
	}
}

// ScanOutputDir enumerates the regular files directly under dir as the
// produced artifact set, computing a content checksum for each. Results are
// sorted by name so repeated scans are deterministic.
func ScanOutputDir(dir string) ([]Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		checksum, err := ChecksumFile(path)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{
			Path:   path,
			Name:   entry.Name(),
			Size:   info.Size(),
			SHA256: checksum,
		})
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts, nil
}

// ChecksumFile returns the hex SHA-256 digest of a file's contents
func ChecksumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("checksumming %s: %w", path, err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
