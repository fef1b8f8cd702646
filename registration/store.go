package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// Store loads and saves the two registration collections as ordered record
// lists on top of a Backend.
//
// LoadQueue and LoadMapping never fail: an unavailable backend or an
// undecodable collection yields an empty list. The ForUpdate variants report
// those failures instead, so a mutation never writes back a collection it
// could not read. Saves replace the whole collection and report failures,
// including interfaces.ErrStorageUnavailable.
type Store struct {
	backend Backend
	log     *slog.Logger
}

// NewStore wraps backend.
func NewStore(backend Backend, log *slog.Logger) *Store {
	return &Store{backend: backend, log: log}
}

// Available reports whether the backend was initialized.
func (s *Store) Available() bool {
	return s.backend.Available()
}

// LoadQueue returns the pending registrations in storage order.
func (s *Store) LoadQueue(ctx context.Context) []interfaces.PendingRegistration {
	return load[interfaces.PendingRegistration](ctx, s, interfaces.QueueKind)
}

// LoadQueueForUpdate returns the pending registrations or the reason they
// could not be read.
func (s *Store) LoadQueueForUpdate(ctx context.Context) ([]interfaces.PendingRegistration, error) {
	return loadForUpdate[interfaces.PendingRegistration](ctx, s, interfaces.QueueKind)
}

// SaveQueue replaces the pending registrations.
func (s *Store) SaveQueue(ctx context.Context, records []interfaces.PendingRegistration) error {
	return save(ctx, s, interfaces.QueueKind, records)
}

// LoadMapping returns the approved registrations in storage order.
func (s *Store) LoadMapping(ctx context.Context) []interfaces.ApprovedRegistration {
	return load[interfaces.ApprovedRegistration](ctx, s, interfaces.MappingKind)
}

// LoadMappingForUpdate returns the approved registrations or the reason they
// could not be read.
func (s *Store) LoadMappingForUpdate(ctx context.Context) ([]interfaces.ApprovedRegistration, error) {
	return loadForUpdate[interfaces.ApprovedRegistration](ctx, s, interfaces.MappingKind)
}

// SaveMapping replaces the approved registrations.
func (s *Store) SaveMapping(ctx context.Context, records []interfaces.ApprovedRegistration) error {
	return save(ctx, s, interfaces.MappingKind, records)
}

// ErrCorruptCollection is returned by the ForUpdate loads when the stored
// collection is not a JSON array of records. The stored data is left as is.
var ErrCorruptCollection = errors.New("registration collection is corrupt")

func load[T any](ctx context.Context, s *Store, kind interfaces.RecordKind) []T {
	if !s.backend.Available() {
		return []T{}
	}

	records, err := loadForUpdate[T](ctx, s, kind)
	if err != nil {
		s.log.Error("Failed to load registration collection",
			slog.String("kind", kind.String()),
			slog.String("backend", s.backend.Name()),
			"err", err)
		return []T{}
	}
	return records
}

func loadForUpdate[T any](ctx context.Context, s *Store, kind interfaces.RecordKind) ([]T, error) {
	if !s.backend.Available() {
		return nil, interfaces.ErrStorageUnavailable
	}

	data, err := s.backend.Read(ctx, kind)
	if err != nil {
		if errors.Is(err, interfaces.ErrStorageUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to load %s from %s: %w", interfaces.ErrStorageUnavailable, kind, s.backend.Name(), err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s in %s: %w", ErrCorruptCollection, kind, s.backend.Name(), err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func save[T any](ctx context.Context, s *Store, kind interfaces.RecordKind, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	if err := s.backend.Write(ctx, kind, data); err != nil {
		return fmt.Errorf("failed to save %s to %s: %w", kind, s.backend.Name(), err)
	}
	return nil
}
