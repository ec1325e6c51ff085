// Package storage gives read access to template and resource directories.
package storage

import "time"

// Entry describes one file below a storage root.
type Entry struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for read-only file access below a root.
type Provider interface {
	// List returns every file under dir (relative to root) whose name ends in ext.
	// An empty ext matches all files.
	List(dir, ext string) ([]Entry, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Root returns the absolute root directory.
	Root() string
}
