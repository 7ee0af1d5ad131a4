package store

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
	"sync"
)

// MemoryStore is a deterministic in-memory store. It backs tests and
// admission-time fee estimation; the badger store is the persistent twin.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) BeginTransaction() (Tx, error) {
	return &memoryTx{
		store:   s,
		pending: make(map[string]pendingWrite),
	}, nil
}

func (s *MemoryStore) Close() error { return nil }

type pendingWrite struct {
	value   []byte
	deleted bool
}

type memoryTx struct {
	store   *MemoryStore
	pending map[string]pendingWrite
	done    bool
}

func (tx *memoryTx) Get(path string, key []byte) ([]byte, uint64, error) {
	ck := string(compositeKey(path, key))
	if w, ok := tx.pending[ck]; ok {
		if w.deleted {
			return nil, uint64(len(ck)), ErrNotFound
		}
		return append([]byte(nil), w.value...), uint64(len(ck) + len(w.value)), nil
	}

	tx.store.mu.Lock()
	value, ok := tx.store.data[ck]
	tx.store.mu.Unlock()
	if !ok {
		return nil, uint64(len(ck)), ErrNotFound
	}
	return append([]byte(nil), value...), uint64(len(ck) + len(value)), nil
}

func (tx *memoryTx) Has(path string, key []byte) (bool, uint64, error) {
	_, bytesRead, err := tx.Get(path, key)
	if err == ErrNotFound {
		return false, bytesRead, nil
	}
	if err != nil {
		return false, bytesRead, err
	}
	return true, bytesRead, nil
}

func (tx *memoryTx) Put(path string, key, value []byte) error {
	ck := string(compositeKey(path, key))
	tx.pending[ck] = pendingWrite{value: append([]byte(nil), value...)}
	return nil
}

func (tx *memoryTx) Delete(path string, key []byte) error {
	ck := string(compositeKey(path, key))
	tx.pending[ck] = pendingWrite{deleted: true}
	return nil
}

// RootHash hashes the merged view of base data and pending writes in key
// order. Key order, not insertion order, keeps the root independent of the
// sequence writes happened in.
func (tx *memoryTx) RootHash() ([32]byte, error) {
	merged := make(map[string][]byte)
	tx.store.mu.Lock()
	for k, v := range tx.store.data {
		merged[k] = v
	}
	tx.store.mu.Unlock()
	for k, w := range tx.pending {
		if w.deleted {
			delete(merged, k)
		} else {
			merged[k] = w.value
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	var lenBuf [8]byte
	for _, k := range keys {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(k)))
		h.Write(lenBuf[:])
		h.Write([]byte(k))
		v := merged[k]
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(v)))
		h.Write(lenBuf[:])
		h.Write(v)
	}

	var root [32]byte
	copy(root[:], h.Sum(nil))
	return root, nil
}

func (tx *memoryTx) Commit() error {
	if tx.done {
		return nil
	}
	tx.done = true

	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for k, w := range tx.pending {
		if w.deleted {
			delete(tx.store.data, k)
		} else {
			tx.store.data[k] = w.value
		}
	}
	return nil
}

func (tx *memoryTx) Rollback() {
	tx.done = true
	tx.pending = make(map[string]pendingWrite)
}
