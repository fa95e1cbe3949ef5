package filestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
)

// LocalStorage keeps reports on the local filesystem, one directory per category.
type LocalStorage struct {
	basePath string // root directory of the report tree
	baseURL  string // optional public prefix for returned locations
}

// NewLocalStorage creates the base directory and every category directory.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	for _, category := range Categories() {
		dir := filepath.Join(basePath, category)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error().Err(err).Str("path", dir).Msg("Failed to create report directory")
			return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}
	logger.Info().Str("path", basePath).Msg("Local report storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// Save writes data to basePath/category/name, replacing an existing file.
func (ls *LocalStorage) Save(ctx context.Context, category, name string, data []byte) (string, error) {
	if err := validateKey(category, name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dstPath := ls.GetFullPath(category, name)
	tmpPath := dstPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", tmpPath).Msg("Failed to write report file")
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move report file into place")
		return "", fmt.Errorf("failed to save report file: %w", err)
	}

	location := filepath.Join(category, name)
	if ls.baseURL != "" {
		location = strings.TrimRight(ls.baseURL, "/") + "/" + category + "/" + name
	}

	logger.Info().Str("category", category).Str("name", name).Int("bytes", len(data)).Msg("Report saved")
	return location, nil
}

// List returns the files of category ordered by modification time, newest first.
func (ls *LocalStorage) List(ctx context.Context, category string) ([]FileInfo, error) {
	if err := validateKey(category, "x"); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(ls.basePath, category))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Category:   category,
			Name:       entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModifiedAt.Equal(files[j].ModifiedAt) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
	return files, nil
}

// Delete removes category/name.
func (ls *LocalStorage) Delete(ctx context.Context, category, name string) error {
	if err := validateKey(category, name); err != nil {
		return err
	}

	physicalPath := ls.GetFullPath(category, name)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s/%s", ErrFileNotFound, category, name)
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete report file")
		return fmt.Errorf("failed to delete report file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("Report deleted")
	return nil
}

// GetFullPath returns the filesystem path of category/name.
func (ls *LocalStorage) GetFullPath(category, name string) string {
	return filepath.Join(ls.basePath, category, filepath.Base(name))
}
