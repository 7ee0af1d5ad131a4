package drive

import (
	"fmt"
	"time"

	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/fees"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/store"
	"github.com/dashpay/platform-engine/version"
)

// VM drives ordered batches of raw state transitions through the processor
// chain against a transactional store. One VM serves one store; callers run
// one block at a time.
type VM struct {
	store      store.Store
	ctx        Context
	processors []TransitionProcessor
}

// NewVM constructs a VM over the given store.
func NewVM(s store.Store, ctx Context) *VM {
	return &VM{
		store: s,
		ctx:   ctx,
		processors: []TransitionProcessor{
			NewTransitionStructureValidator(),
			NewTransitionSignatureValidator(),
			NewTransitionNonceValidator(),
			NewTransitionStateValidator(),
			NewTransitionTriggerExecutor(),
			NewTransitionInvoker(),
			NewTransitionFeeSettler(),
		},
	}
}

// SimulateBlock executes the block under a dry-run child context and rolls
// every write back, returning the results a real execution would produce.
// Callers use it to price transitions against current state.
func (vm *VM) SimulateBlock(block platform.BlockInfo, rawTransitions [][]byte) (*BlockResult, error) {
	sim := &VM{
		store:      vm.store,
		ctx:        NewContextFromParent(vm.ctx, WithDryRun(true)),
		processors: vm.processors,
	}
	return sim.ExecuteBlock(block, rawTransitions)
}

// ExecuteBlock processes the block's transitions in order inside a single
// store transaction and returns the per-transition outcomes and the
// post-block state root. A returned error is node-fatal: the block made no
// durable change and the caller must not report a result to consensus.
//
// Per-transition rejections never surface here. Each transition runs against
// its own write overlay; a rejection discards the overlay, charges the
// signer for the validation work when one was resolved, and is reported in
// its TransitionResult.
//
// In a dry-run context the transaction is rolled back instead of committed,
// so the same call prices transitions without persisting anything.
func (vm *VM) ExecuteBlock(block platform.BlockInfo, rawTransitions [][]byte) (*BlockResult, error) {
	start := time.Now()

	protocolVersion := block.ProtocolVersion
	if protocolVersion == 0 {
		protocolVersion = vm.ctx.ProtocolVersion
	}
	pv, err := version.Get(protocolVersion)
	if err != nil {
		return nil, fmt.Errorf("block at height %d: %w", block.Height, err)
	}

	tx, err := vm.store.BeginTransaction()
	if err != nil {
		return nil, sterrors.NewStorageFailure(err)
	}

	contracts, err := newContractCache(vm.ctx.ContractCacheSize)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	results := make([]TransitionResult, 0, len(rawTransitions))
	for i, raw := range rawTransitions {
		result, err := vm.executeTransition(tx, contracts, pv, block, raw)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("transition %d in block at height %d: %w", i, block.Height, err)
		}
		vm.ctx.Metrics.transitionProcessed(result.Kind.String(), result.IsSuccess())
		results = append(results, result)
	}

	root, err := tx.RootHash()
	if err != nil {
		tx.Rollback()
		return nil, sterrors.NewStorageFailure(err)
	}

	if vm.ctx.DryRun {
		tx.Rollback()
	} else if err := tx.Commit(); err != nil {
		return nil, sterrors.NewStorageFailure(err)
	}

	vm.ctx.Metrics.blockExecuted(start)
	vm.ctx.Log.Info().
		Uint64("height", block.Height).
		Int("transitions", len(results)).
		Bool("dryRun", vm.ctx.DryRun).
		Msg("executed block")
	return &BlockResult{Results: results, StateRoot: root}, nil
}

// executeTransition runs one transition through the full chain. The returned
// error is node-fatal; every rejection lands in the result instead.
func (vm *VM) executeTransition(
	tx store.Tx,
	contracts *contractCache,
	pv *version.PlatformVersion,
	block platform.BlockInfo,
	raw []byte,
) (TransitionResult, error) {
	transition, err := platform.DecodeTransition(raw)
	if err != nil {
		// Undecodable payloads have no signer to charge.
		return TransitionResult{Err: sterrors.NewStateTransitionDecodingError(err)}, nil
	}

	execCtx := NewExecutionContext(vm.ctx.DryRun)
	overlay := store.NewOverlay(tx)
	repo := state.NewRepository(overlay, execCtx)
	proc := &TransitionProcedure{
		Transition:      transition,
		ExecCtx:         execCtx,
		Block:           block,
		PlatformVersion: pv,
		Contracts:       contracts,
		applyCheckpoint: -1,
	}

	runErr := proc.Run(vm.ctx, vm.processors, repo)
	coded, fatal := sterrors.SplitErrorTypes(runErr)
	if fatal != nil {
		return TransitionResult{}, fatal
	}
	if coded != nil {
		overlay.Discard()
		return vm.settleRejection(tx, proc, coded)
	}

	if err := overlay.Flush(); err != nil {
		return TransitionResult{}, sterrors.NewStorageFailure(err)
	}
	return TransitionResult{
		Kind:    transition.Kind(),
		Paid:    true,
		Charged: proc.Charged,
	}, nil
}

// settleRejection charges a rejected transition's signer for the validation
// work performed. The charge goes to the block transaction directly, outside
// the discarded overlay. Rejections before signature resolution stay unpaid:
// there is no authenticated payer to debit.
func (vm *VM) settleRejection(
	tx store.Tx,
	proc *TransitionProcedure,
	coded sterrors.CodedError,
) (TransitionResult, error) {
	result := TransitionResult{Kind: proc.Transition.Kind(), Err: coded}
	if proc.Identity == nil {
		return result, nil
	}

	if proc.applyCheckpoint >= 0 {
		proc.ExecCtx.TruncateOperations(proc.applyCheckpoint)
	}
	feeResult := fees.CalculateFee(proc.ExecCtx.Operations())
	payer := proc.Transition.OwnerID()

	// Settlement's own reads and the balance write are not priced.
	repo := state.NewRepository(tx, noopRecorder{})
	charged, err := repo.ApplyBalanceChange(payer, feeResult.BalanceChangeForPayer(payer))
	if err != nil {
		if _, fatal := sterrors.SplitErrorTypes(err); fatal != nil {
			return TransitionResult{}, fatal
		}
		vm.ctx.Log.Debug().
			Str("payer", payer.String()).
			Err(err).
			Msg("rejection fee could not be charged")
		return result, nil
	}
	result.Paid = true
	result.Charged = charged
	return result, nil
}

type noopRecorder struct{}

func (noopRecorder) AddOperation(fees.Operation) {}
