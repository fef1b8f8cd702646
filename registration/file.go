package registration

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

const (
	queueFileName   = "queue.json"
	mappingFileName = "registration_mapping.json"
)

// FileBackend keeps each collection in its own JSON file inside a directory.
type FileBackend struct {
	dir       string
	paths     map[interfaces.RecordKind]string
	available bool
	log       *slog.Logger
}

// NewFileBackend ensures both collection files exist under dir and hold at
// least an empty array. If the directory or files cannot be created the
// backend is returned disabled and the failure is logged once.
func NewFileBackend(dir string, log *slog.Logger) *FileBackend {
	b := &FileBackend{
		dir: dir,
		paths: map[interfaces.RecordKind]string{
			interfaces.QueueKind:   filepath.Join(dir, queueFileName),
			interfaces.MappingKind: filepath.Join(dir, mappingFileName),
		},
		log: log,
	}

	if err := b.init(); err != nil {
		log.Error("Failed to create item registration files",
			slog.String("dir", dir),
			"err", err)
		return b
	}

	b.available = true
	return b
}

func (b *FileBackend) init() error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("failed to create registration directory: %w", err)
	}

	for _, kind := range []interfaces.RecordKind{interfaces.QueueKind, interfaces.MappingKind} {
		path := b.paths[kind]

		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}

		info, err := f.Stat()
		if err == nil && info.Size() == 0 {
			_, err = f.Write(emptyCollection)
		}
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("failed to initialize %s: %w", path, err)
		}
		if closeErr != nil {
			return fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}

	return nil
}

// Read returns the content of the collection file.
func (b *FileBackend) Read(ctx context.Context, kind interfaces.RecordKind) ([]byte, error) {
	if !b.available {
		return nil, interfaces.ErrStorageUnavailable
	}

	data, err := os.ReadFile(b.paths[kind])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	return data, nil
}

// Write replaces the collection file by writing a temporary file in the same
// directory and renaming it over the old one.
func (b *FileBackend) Write(ctx context.Context, kind interfaces.RecordKind, data []byte) error {
	if !b.available {
		return interfaces.ErrStorageUnavailable
	}

	path := b.paths[kind]
	tmp, err := os.CreateTemp(b.dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary %s file: %w", kind, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", kind, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", kind, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", kind, err)
	}

	b.log.Debug("Wrote registration collection",
		slog.String("kind", kind.String()),
		slog.String("path", path),
		slog.Int("size", len(data)))

	return nil
}

// Available reports whether the files were initialized.
func (b *FileBackend) Available() bool {
	return b.available
}

// Name returns a unique identifier for this backend.
func (b *FileBackend) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(b.dir))
}
