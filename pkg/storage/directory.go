package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory. location of persisted DataAccess files. an empty location keeps everything in RAM,
// Flush and LoadExisting are no-ops then.
type Directory struct {
	location string
}

func NewDirectory(location string) *Directory {
	return &Directory{location: location}
}

func NewRAMDirectory() *Directory {
	return &Directory{}
}

func (d *Directory) GetLocation() string {
	return d.location
}

func (d *Directory) IsStoring() bool {
	return d.location != ""
}

func (d *Directory) Create(name string) *DataAccess {
	return newDataAccess(name, d)
}

func (d *Directory) path(name string) string {
	return filepath.Join(d.location, name)
}

func (d *Directory) ensureExists() error {
	if err := os.MkdirAll(d.location, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", d.location, err)
	}
	return nil
}

// Remove deletes the persisted file of name, missing files are ignored.
func (d *Directory) Remove(name string) error {
	if !d.IsStoring() {
		return nil
	}
	err := os.Remove(d.path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
