package filestorage

import (
	"context"
	"errors"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/pkg/logger"
)

// MirroredStorage serves reads from a primary store and copies writes to an archive.
// Archive failures are logged and never fail the request.
type MirroredStorage struct {
	primary ReportStore
	archive ReportStore
}

// NewMirroredStorage returns primary unchanged when archive is nil.
func NewMirroredStorage(primary, archive ReportStore) ReportStore {
	if archive == nil {
		return primary
	}
	return &MirroredStorage{primary: primary, archive: archive}
}

// Save writes to the primary store, then to the archive.
func (m *MirroredStorage) Save(ctx context.Context, category, name string, data []byte) (string, error) {
	location, err := m.primary.Save(ctx, category, name, data)
	if err != nil {
		return "", err
	}
	if archived, err := m.archive.Save(ctx, category, name, data); err != nil {
		logger.Warn().Err(err).Str("category", category).Str("name", name).Msg("Failed to archive report")
	} else {
		logger.Debug().Str("location", archived).Msg("Report archived")
	}
	return location, nil
}

// List reads the primary store only.
func (m *MirroredStorage) List(ctx context.Context, category string) ([]FileInfo, error) {
	return m.primary.List(ctx, category)
}

// Delete removes the file from both stores. A file missing from the archive is ignored.
func (m *MirroredStorage) Delete(ctx context.Context, category, name string) error {
	if err := m.primary.Delete(ctx, category, name); err != nil {
		return err
	}
	if err := m.archive.Delete(ctx, category, name); err != nil && !errors.Is(err, ErrFileNotFound) {
		logger.Warn().Err(err).Str("category", category).Str("name", name).Msg("Failed to delete archived report")
	}
	return nil
}
