package filestorage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Report categories.
const (
	CategoryEmployees = "employees"
	CategoryStudents  = "students"
)

var (
	// ErrFileNotFound is returned when a stored report does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidName is returned for unknown categories and names that are not plain file names.
	ErrInvalidName = errors.New("invalid file name")
)

// FileInfo describes a stored report.
type FileInfo struct {
	Category   string    `json:"category"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	Location   string    `json:"location,omitempty"`
}

// ReportStore saves, lists and deletes generated reports by category.
type ReportStore interface {
	// Save stores data under category/name and returns its location.
	Save(ctx context.Context, category, name string, data []byte) (string, error)

	// List returns the reports of a category, newest first.
	List(ctx context.Context, category string) ([]FileInfo, error)

	// Delete removes category/name. A missing file yields ErrFileNotFound.
	Delete(ctx context.Context, category, name string) error
}

// Categories lists every report category.
func Categories() []string {
	return []string{CategoryEmployees, CategoryStudents}
}

func validateKey(category, name string) error {
	if category != CategoryEmployees && category != CategoryStudents {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidName, category)
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
