package drive

import (
	lru "github.com/hashicorp/golang-lru"

	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/fees"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
)

// ExecutionContext is the per-transition mutable scratch space. It
// accumulates the fee-relevant operations performed so far and carries the
// dry-run flag. It is owned exclusively by the pipeline invocation for one
// transition and discarded afterwards.
type ExecutionContext struct {
	DryRun bool

	ops []fees.Operation
}

func NewExecutionContext(dryRun bool) *ExecutionContext {
	return &ExecutionContext{DryRun: dryRun}
}

// AddOperation records fee-relevant work. Recorded work is charged even when
// the transition is later rejected: the lookup was performed either way.
func (ec *ExecutionContext) AddOperation(op fees.Operation) {
	ec.ops = append(ec.ops, op)
}

// Operations returns the operations recorded so far.
func (ec *ExecutionContext) Operations() []fees.Operation {
	return ec.ops
}

// Checkpoint marks the current operation count so TruncateOperations can
// drop everything recorded past it. Used on rejection during action
// application: the applied writes are rolled back, so their cost must not be
// charged either.
func (ec *ExecutionContext) Checkpoint() int {
	return len(ec.ops)
}

func (ec *ExecutionContext) TruncateOperations(checkpoint int) {
	if checkpoint <= len(ec.ops) {
		ec.ops = ec.ops[:checkpoint]
	}
}

// contractCache is the per-block LRU of fetched data contracts. It replaces
// a process-wide cache on purpose: the cache lives and dies with the block,
// so a contract updated mid-block is re-read by the next block without any
// cross-block invalidation protocol.
type contractCache struct {
	lru *lru.Cache
}

func newContractCache(size int) (*contractCache, error) {
	if size <= 0 {
		size = defaultContractCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &contractCache{lru: cache}, nil
}

// FetchContract returns the contract from the cache or the repository. The
// read operation is recorded only on a cache miss, matching the work done.
func (c *contractCache) FetchContract(
	repo *state.Repository,
	id platform.Identifier,
) (*platform.DataContract, error) {
	if cached, ok := c.lru.Get(id); ok {
		return cached.(*platform.DataContract), nil
	}
	contract, found, err := repo.FetchContract(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, sterrors.NewDataContractNotFoundError(id)
	}
	c.lru.Add(id, contract)
	return contract, nil
}

// Invalidate drops a contract after a contract update so later transitions
// in the same block observe the new version.
func (c *contractCache) Invalidate(id platform.Identifier) {
	c.lru.Remove(id)
}
