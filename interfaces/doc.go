// Package interfaces defines the core types and interfaces of the review
// gateway, separating interface definitions from implementations.
//
// # Registration
//
// PendingRegistration and ApprovedRegistration are the two record kinds kept
// by the registration subsystem, keyed by (ProposedItemName, Domain).
// RegistrationService manages the pending queue and the approved mapping.
// ErrStorageUnavailable is returned when a write cannot reach storage.
//
// # Review Contract
//
// ReviewRegistry is the read side of the on-chain review contract,
// TransactionBuilder prepares unsigned calls for a wallet to sign, and
// ReviewContract combines both. AuthorizationGate is the editor check used to
// guard mutating operations.
//
// # Content Storage
//
// StorageBackend keeps item info documents (IPFS, file, S3 or Vault), and
// StorageBackendFactory creates backends from location URIs.
package interfaces
