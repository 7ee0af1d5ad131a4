package store

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v2"
)

// BadgerStore is the persistent store implementation. It maps the (path, key)
// space onto badger's flat key space via compositeKey.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (and creates if needed) a badger store at dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open store at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) BeginTransaction() (Tx, error) {
	return &badgerTx{txn: s.db.NewTransaction(true)}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

type badgerTx struct {
	txn *badger.Txn
}

func (tx *badgerTx) Get(path string, key []byte) ([]byte, uint64, error) {
	ck := compositeKey(path, key)
	item, err := tx.txn.Get(ck)
	if err == badger.ErrKeyNotFound {
		return nil, uint64(len(ck)), ErrNotFound
	}
	if err != nil {
		return nil, uint64(len(ck)), err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, uint64(len(ck)), err
	}
	return value, uint64(len(ck) + len(value)), nil
}

func (tx *badgerTx) Has(path string, key []byte) (bool, uint64, error) {
	ck := compositeKey(path, key)
	_, err := tx.txn.Get(ck)
	if err == badger.ErrKeyNotFound {
		return false, uint64(len(ck)), nil
	}
	if err != nil {
		return false, uint64(len(ck)), err
	}
	return true, uint64(len(ck)), nil
}

func (tx *badgerTx) Put(path string, key, value []byte) error {
	return tx.txn.Set(compositeKey(path, key), value)
}

func (tx *badgerTx) Delete(path string, key []byte) error {
	return tx.txn.Delete(compositeKey(path, key))
}

// RootHash iterates the transaction's view in key order and hashes it the
// same way the memory store does, so both backends agree on roots.
func (tx *badgerTx) RootHash() ([32]byte, error) {
	var root [32]byte

	it := tx.txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	h := sha256.New()
	var lenBuf [8]byte
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		k := item.KeyCopy(nil)
		v, err := item.ValueCopy(nil)
		if err != nil {
			return root, err
		}
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(k)))
		h.Write(lenBuf[:])
		h.Write(k)
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(v)))
		h.Write(lenBuf[:])
		h.Write(v)
	}

	copy(root[:], h.Sum(nil))
	return root, nil
}

func (tx *badgerTx) Commit() error {
	return tx.txn.Commit()
}

func (tx *badgerTx) Rollback() {
	tx.txn.Discard()
}
