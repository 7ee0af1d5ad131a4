package drive

import (
	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/fees"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// TransitionProcedure carries one transition through the processor chain.
// Processors communicate through it: the signature processor leaves the
// resolved identity, the state processors leave the resolved actions, the
// fee processor leaves the settlement outcome.
type TransitionProcedure struct {
	Transition platform.StateTransition
	ExecCtx    *ExecutionContext
	Block      platform.BlockInfo

	// PlatformVersion is the rule table active for the block.
	PlatformVersion *version.PlatformVersion

	// Identity is the signer, resolved by the signature processor. Nil for
	// asset-lock funded transitions, which are not identity signed.
	Identity *platform.PartialIdentity

	// Actions is the FIFO list produced by the state processors and extended
	// by data triggers. Execution applies it in order.
	Actions []actions.Action

	// Contracts is the block's shared contract cache.
	Contracts *contractCache

	// Fees and Charged are left by the fee settler: the priced operations of
	// the whole transition and the amount actually taken from the payer.
	Fees    fees.FeeResult
	Charged platform.Credits

	// applyCheckpoint is the operation count when action application began,
	// -1 while validation is still running. A rejection during application
	// discards the applied writes, so settlement truncates the recorded
	// operations back to this point before pricing them.
	applyCheckpoint int
}

// TransitionProcessor is one stage of the pipeline. A returned CodedError
// rejects the transition; a Failure aborts the block.
type TransitionProcessor interface {
	Process(ctx Context, proc *TransitionProcedure, repo *state.Repository) error
}

// Run sends the procedure through the processors in order, stopping at the
// first error. Errors are partitioned by the caller into per-transition
// rejections and node-fatal failures.
func (proc *TransitionProcedure) Run(
	ctx Context,
	processors []TransitionProcessor,
	repo *state.Repository,
) error {
	for _, p := range processors {
		if err := p.Process(ctx, proc, repo); err != nil {
			return err
		}
	}
	return nil
}

// TransitionResult is the consensus-visible outcome of one transition.
type TransitionResult struct {
	Kind platform.TransitionKind

	// Err is nil on success, otherwise the coded rejection reason.
	Err sterrors.CodedError

	// Paid reports whether fees were settled. Structural and signature
	// rejections are unpaid; state-stage rejections still charge for the
	// validation work performed.
	Paid bool

	// Charged is the amount actually removed from the payer.
	Charged platform.Credits
}

// IsSuccess reports whether the transition was applied.
func (r TransitionResult) IsSuccess() bool { return r.Err == nil }

// BlockResult is what ExecuteBlock hands back to the consensus layer.
type BlockResult struct {
	Results []TransitionResult

	// StateRoot is the deterministic root over post-block state.
	StateRoot [32]byte
}
