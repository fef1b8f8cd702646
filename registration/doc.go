// Package registration lets third-party domains register a local item name
// against a canonical on-chain item name.
//
// Two ordered collections back the package: a queue of pending
// registrations and a mapping of approved ones. Both are persisted as JSON
// arrays by a Backend:
//
//	queue.json                 [{"proposedItemName": "...", "domain": "..."}]
//	registration_mapping.json  [{"proposedItemName": "...", "domain": "...", "itemName": "..."}]
//
// FileBackend keeps them as files in a directory, RedisBackend as two keys.
// NewBackendFromURI picks one from a file:// or redis:// URI.
//
// # Lifecycle of a key
//
// A (proposedItemName, domain) pair moves from unregistered to pending with
// QueueRegistration, and from pending to removed or approved with
// RemoveRegistrationFromQueue or AssignRegistrationToItem. Assignment does
// not dequeue. None of the transitions are guarded: the HTTP layer checks
// CheckRegistration and CheckQueue before queueing, and lookups resolve to
// the first approved record in insertion order.
//
// # Failure model
//
// A backend that cannot be initialized logs once and stays disabled. Reads
// from a disabled backend return empty collections; writes return
// interfaces.ErrStorageUnavailable. Authorization is not checked here.
package registration
