// Package store defines the transactional key-value interface the execution
// pipeline persists through. Keys are structured as (path, key) pairs; every
// read reports the bytes it touched so fee settlement can price the work.
// Two implementations are provided: an in-memory store used by tests and
// admission-time dry runs, and a badger-backed persistent store.
package store

import "errors"

// ErrNotFound is returned by Get when no value exists under (path, key).
// A missing entity is an expected outcome for validators, never a failure.
var ErrNotFound = errors.New("store: key not found")

// Well-known paths. The physical layout below a path is the store's own
// concern; the pipeline only addresses (path, key).
const (
	PathIdentity      = "identity"
	PathBalance       = "balance"
	PathNonce         = "nonce"
	PathContract      = "contract"
	PathDocument      = "document"
	PathDocumentIndex = "documentIndex"
	PathTokenBalance  = "tokenBalance"
	PathTokenInfo     = "tokenInfo"
	PathTokenStatus   = "tokenStatus"
	PathTokenSupply   = "tokenSupply"
	PathVotePoll      = "votePoll"
	PathVote          = "vote"
	PathGroupAction   = "groupAction"
	PathAssetLock     = "assetLock"
	PathWithdrawal    = "withdrawal"
	PathRelease       = "release"
)

// Store opens transactions. One transaction is exclusively owned by one
// block-processing call for its whole duration.
type Store interface {
	// BeginTransaction starts a read-write transaction. All state touched by
	// a block goes through a single transaction and is committed or rolled
	// back atomically.
	BeginTransaction() (Tx, error)
	Close() error
}

// Tx is one atomic store transaction. Reads observe the transaction's own
// uncommitted writes.
type Tx interface {
	// Get returns the value under (path, key) together with the number of
	// bytes read, which includes the key. Returns ErrNotFound if absent;
	// bytesRead is still reported for the lookup work.
	Get(path string, key []byte) (value []byte, bytesRead uint64, err error)

	// Has reports existence without returning the value.
	Has(path string, key []byte) (ok bool, bytesRead uint64, err error)

	Put(path string, key, value []byte) error
	Delete(path string, key []byte) error

	// RootHash computes the deterministic root over the transaction's view
	// of the whole store, pending writes included.
	RootHash() ([32]byte, error)

	Commit() error
	Rollback()
}

// compositeKey joins path and key with a zero byte. Paths contain no zero
// bytes, so the mapping is injective.
func compositeKey(path string, key []byte) []byte {
	out := make([]byte, 0, len(path)+1+len(key))
	out = append(out, path...)
	out = append(out, 0)
	out = append(out, key...)
	return out
}
