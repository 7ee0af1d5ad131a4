// Package state gives the pipeline typed access to chain state through one
// atomic store transaction. Every fetch reports its read work to the
// execution context's operation recorder so fee settlement can price it,
// including fetches that end in a rejection.
package state

import (
	"encoding/binary"

	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/fees"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/store"
)

// OperationRecorder receives fee-relevant work as it happens. Implemented by
// the per-transition execution context.
type OperationRecorder interface {
	AddOperation(op fees.Operation)
}

// Repository wraps a store transaction with typed accessors. It owns no
// state of its own; it is recreated cheaply per block.
type Repository struct {
	tx  store.Tx
	ops OperationRecorder
}

func NewRepository(tx store.Tx, ops OperationRecorder) *Repository {
	return &Repository{tx: tx, ops: ops}
}

// get reads one record, records the read operation, and maps storage errors
// to a fatal failure. found=false is an expected outcome, not an error.
func (r *Repository) get(path string, key []byte) (value []byte, found bool, err error) {
	value, bytesRead, err := r.tx.Get(path, key)
	r.ops.AddOperation(fees.ReadOperation{BytesRead: bytesRead})
	if err == store.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, sterrors.NewStorageFailure(err)
	}
	return value, true, nil
}

func (r *Repository) put(path string, key, value []byte) error {
	if err := r.tx.Put(path, key, value); err != nil {
		return sterrors.NewStorageFailure(err)
	}
	r.ops.AddOperation(fees.WriteOperation{
		KeyBytes:   uint64(len(key)),
		ValueBytes: uint64(len(value)),
	})
	return nil
}

// delete removes a record and credits the freed bytes to refundOwner.
func (r *Repository) delete(path string, key []byte, refundOwner platform.Identifier) error {
	value, _, err := r.tx.Get(path, key)
	if err == store.ErrNotFound {
		value = nil
	} else if err != nil {
		return sterrors.NewStorageFailure(err)
	}
	if err := r.tx.Delete(path, key); err != nil {
		return sterrors.NewStorageFailure(err)
	}
	r.ops.AddOperation(fees.DeleteOperation{
		KeyBytes:      uint64(len(key)),
		ValueBytes:    uint64(len(value)),
		RefundOwnerID: refundOwner,
	})
	return nil
}

func (r *Repository) putRecord(path string, key []byte, record interface{}) error {
	data, err := platform.MarshalCanonical(record)
	if err != nil {
		return sterrors.NewEncodingFailure(err)
	}
	return r.put(path, key, data)
}

func (r *Repository) getRecord(path string, key []byte, record interface{}) (bool, error) {
	data, found, err := r.get(path, key)
	if err != nil || !found {
		return found, err
	}
	if err := platform.Unmarshal(data, record); err != nil {
		// our own records failing to decode means local corruption
		return false, sterrors.NewEncodingFailure(err)
	}
	return true, nil
}

func encodeUint64(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[:]
}

func decodeUint64(data []byte) uint64 {
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}
