package store

// OverlayTx buffers writes on top of an inner transaction. The execution
// pipeline opens one per state transition so a rejection can drop that
// transition's mutations without losing the rest of the block.
//
// Flush pushes the buffered writes into the inner transaction; Discard drops
// them. OverlayTx is not itself committable: Commit and Rollback act on the
// overlay only, never on the inner transaction.
type OverlayTx struct {
	inner   Tx
	pending map[string]pendingWrite
	order   []string
}

func NewOverlay(inner Tx) *OverlayTx {
	return &OverlayTx{
		inner:   inner,
		pending: make(map[string]pendingWrite),
	}
}

func (tx *OverlayTx) Get(path string, key []byte) ([]byte, uint64, error) {
	ck := string(compositeKey(path, key))
	if w, ok := tx.pending[ck]; ok {
		if w.deleted {
			return nil, uint64(len(ck)), ErrNotFound
		}
		return append([]byte(nil), w.value...), uint64(len(ck) + len(w.value)), nil
	}
	return tx.inner.Get(path, key)
}

func (tx *OverlayTx) Has(path string, key []byte) (bool, uint64, error) {
	_, bytesRead, err := tx.Get(path, key)
	if err == ErrNotFound {
		return false, bytesRead, nil
	}
	if err != nil {
		return false, bytesRead, err
	}
	return true, bytesRead, nil
}

func (tx *OverlayTx) Put(path string, key, value []byte) error {
	tx.record(string(compositeKey(path, key)), pendingWrite{value: append([]byte(nil), value...)})
	return nil
}

func (tx *OverlayTx) Delete(path string, key []byte) error {
	tx.record(string(compositeKey(path, key)), pendingWrite{deleted: true})
	return nil
}

func (tx *OverlayTx) record(ck string, w pendingWrite) {
	if _, seen := tx.pending[ck]; !seen {
		tx.order = append(tx.order, ck)
	}
	tx.pending[ck] = w
}

// RootHash delegates to the inner transaction. Overlay writes are excluded
// on purpose: the root only ever reflects flushed state.
func (tx *OverlayTx) RootHash() ([32]byte, error) {
	return tx.inner.RootHash()
}

// Flush applies the buffered writes to the inner transaction in the order
// they first happened, then resets the overlay for reuse.
func (tx *OverlayTx) Flush() error {
	for _, ck := range tx.order {
		w := tx.pending[ck]
		path, key := splitCompositeKey(ck)
		var err error
		if w.deleted {
			err = tx.inner.Delete(path, key)
		} else {
			err = tx.inner.Put(path, key, w.value)
		}
		if err != nil {
			return err
		}
	}
	tx.Discard()
	return nil
}

// Discard drops the buffered writes and resets the overlay for reuse.
func (tx *OverlayTx) Discard() {
	tx.pending = make(map[string]pendingWrite)
	tx.order = nil
}

// Commit flushes into the inner transaction; committing the inner
// transaction remains the block loop's responsibility.
func (tx *OverlayTx) Commit() error { return tx.Flush() }

func (tx *OverlayTx) Rollback() { tx.Discard() }

func splitCompositeKey(ck string) (string, []byte) {
	for i := 0; i < len(ck); i++ {
		if ck[i] == 0 {
			return ck[:i], []byte(ck[i+1:])
		}
	}
	return ck, nil
}
