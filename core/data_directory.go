package core

import (
	"os"
	"path/filepath"
)

// Well-known data subdirectories produced and consumed by the pipeline.
const (
	SubdirReddit   = "reddit"
	SubdirAnalysis = "analysis"
	SubdirMasks    = "output/masks"
	SubdirEnhanced = "output/enhanced"
)

// GetDataPath returns the path to a subdirectory of the data directory,
// creating it if it doesn't exist. An empty subdir returns the data
// directory itself.
//
// This mirrors the directory layout the rest of the pipeline expects:
//
//	data/reddit            collected post snapshots
//	data/analysis          trend analysis results
//	data/output/masks      generated product masks
//	data/output/enhanced   enhanced product images
func GetDataPath(dataDir, subdir string) (string, error) {
	path := dataDir
	if subdir != "" {
		path = filepath.Join(dataDir, subdir)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}

// GetDataFilePath returns the full path for a file within a data
// subdirectory, creating the subdirectory if needed.
func GetDataFilePath(dataDir, subdir, filename string) (string, error) {
	dir, err := GetDataPath(dataDir, subdir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// EnsureDataDirectories creates every subdirectory the pipeline writes to.
// Returns the first error encountered.
func EnsureDataDirectories(dataDir string) error {
	for _, subdir := range []string{"", SubdirReddit, SubdirAnalysis, SubdirMasks, SubdirEnhanced} {
		if _, err := GetDataPath(dataDir, subdir); err != nil {
			return err
		}
	}
	return nil
}
