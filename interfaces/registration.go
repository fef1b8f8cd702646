package interfaces

import (
	"context"
	"errors"
)

// PendingRegistration is a request from a domain to use a local item name.
// The pair (ProposedItemName, Domain) is its key.
type PendingRegistration struct {
	ProposedItemName string `json:"proposedItemName"`
	Domain           string `json:"domain"`
}

// Matches reports whether the record has exactly the given key.
// Comparison is case-sensitive.
func (r PendingRegistration) Matches(proposedItemName, domain string) bool {
	return r.ProposedItemName == proposedItemName && r.Domain == domain
}

// ApprovedRegistration binds a domain-local item name to the canonical
// on-chain item name.
type ApprovedRegistration struct {
	ProposedItemName string `json:"proposedItemName"`
	Domain           string `json:"domain"`
	ItemName         string `json:"itemName"`
}

// Matches reports whether the record has exactly the given key.
// Comparison is case-sensitive.
func (r ApprovedRegistration) Matches(proposedItemName, domain string) bool {
	return r.ProposedItemName == proposedItemName && r.Domain == domain
}

// RecordKind selects one of the two registration collections.
type RecordKind int

const (
	// QueueKind is the pending registration queue.
	QueueKind RecordKind = iota
	// MappingKind is the approved registration mapping.
	MappingKind
)

// String returns the collection name.
func (k RecordKind) String() string {
	switch k {
	case QueueKind:
		return "queue"
	case MappingKind:
		return "registration_mapping"
	default:
		return "unknown"
	}
}

// ErrStorageUnavailable is returned by registration mutations when the
// underlying storage could not be initialized or a collection could not be
// read or written.
var ErrStorageUnavailable = errors.New("registration storage unavailable")

// RegistrationService manages the pending queue and the approved mapping.
//
// The service performs no existence checks before mutating: callers are
// expected to consult CheckQueue/CheckRegistration first. Queueing or
// assigning the same key twice produces two records, and lookups resolve to
// the first record in insertion order.
type RegistrationService interface {
	// QueueRegistration appends a pending record.
	QueueRegistration(ctx context.Context, proposedItemName, domain string) error

	// CheckQueue reports whether a pending record with the key exists.
	CheckQueue(ctx context.Context, proposedItemName, domain string) bool

	// RemoveRegistrationFromQueue drops every pending record with the key.
	RemoveRegistrationFromQueue(ctx context.Context, proposedItemName, domain string) error

	// AssignRegistrationToItem appends an approved record.
	AssignRegistrationToItem(ctx context.Context, proposedItemName, domain, itemName string) error

	// CheckRegistration returns the canonical item name of the first approved
	// record with the key.
	CheckRegistration(ctx context.Context, proposedItemName, domain string) (string, bool)

	// GetQueue returns the pending records in storage order.
	GetQueue(ctx context.Context) []PendingRegistration

	// GetRegistrationMapping returns the approved records in storage order.
	GetRegistrationMapping(ctx context.Context) []ApprovedRegistration
}
