package registration

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// Service implements interfaces.RegistrationService over a Store.
//
// Every mutation is load-whole-collection, modify in memory, save-whole-
// collection. A mutation whose load fails returns the error and writes
// nothing. A mutex serializes these cycles inside one process; separate
// processes sharing the same backend still race and the last writer wins.
type Service struct {
	mu    sync.RWMutex
	store *Store
	log   *slog.Logger
}

// NewService creates a registration service backed by store.
func NewService(store *Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// QueueRegistration appends a pending record. Duplicate keys are not
// rejected here.
func (s *Service) QueueRegistration(ctx context.Context, proposedItemName, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, err := s.store.LoadQueueForUpdate(ctx)
	if err != nil {
		return err
	}
	queue = append(queue, interfaces.PendingRegistration{
		ProposedItemName: proposedItemName,
		Domain:           domain,
	})
	if err := s.store.SaveQueue(ctx, queue); err != nil {
		return err
	}

	s.log.Info("Queued item registration",
		slog.String("proposedItemName", proposedItemName),
		slog.String("domain", domain),
		slog.Int("queueLength", len(queue)))
	return nil
}

// CheckQueue reports whether a pending record with the exact key exists.
func (s *Service) CheckQueue(ctx context.Context, proposedItemName, domain string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.store.LoadQueue(ctx) {
		if r.Matches(proposedItemName, domain) {
			return true
		}
	}
	return false
}

// RemoveRegistrationFromQueue rewrites the queue without any record matching
// the key. Removing an absent key still rewrites the queue.
func (s *Service) RemoveRegistrationFromQueue(ctx context.Context, proposedItemName, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, err := s.store.LoadQueueForUpdate(ctx)
	if err != nil {
		return err
	}
	kept := make([]interfaces.PendingRegistration, 0, len(queue))
	for _, r := range queue {
		if !r.Matches(proposedItemName, domain) {
			kept = append(kept, r)
		}
	}
	if err := s.store.SaveQueue(ctx, kept); err != nil {
		return err
	}

	s.log.Info("Removed item registration from queue",
		slog.String("proposedItemName", proposedItemName),
		slog.String("domain", domain),
		slog.Int("removed", len(queue)-len(kept)))
	return nil
}

// AssignRegistrationToItem appends an approved record. A key that is already
// assigned gets a second record which lookups never reach.
func (s *Service) AssignRegistrationToItem(ctx context.Context, proposedItemName, domain, itemName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, err := s.store.LoadMappingForUpdate(ctx)
	if err != nil {
		return err
	}
	mapping = append(mapping, interfaces.ApprovedRegistration{
		ProposedItemName: proposedItemName,
		Domain:           domain,
		ItemName:         itemName,
	})
	if err := s.store.SaveMapping(ctx, mapping); err != nil {
		return err
	}

	s.log.Info("Assigned item registration",
		slog.String("proposedItemName", proposedItemName),
		slog.String("domain", domain),
		slog.String("itemName", itemName))
	return nil
}

// CheckRegistration scans the mapping in insertion order and returns the item
// name of the first record with the key.
func (s *Service) CheckRegistration(ctx context.Context, proposedItemName, domain string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.store.LoadMapping(ctx) {
		if r.Matches(proposedItemName, domain) {
			return r.ItemName, true
		}
	}
	return "", false
}

// GetQueue returns the pending records in storage order.
func (s *Service) GetQueue(ctx context.Context) []interfaces.PendingRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.LoadQueue(ctx)
}

// GetRegistrationMapping returns the approved records in storage order.
func (s *Service) GetRegistrationMapping(ctx context.Context) []interfaces.ApprovedRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.LoadMapping(ctx)
}
