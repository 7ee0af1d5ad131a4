package drive

import (
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// TransitionStateValidator runs the per-kind business rules against current
// chain state and, when they pass, leaves the resolved actions on the
// procedure. One evaluator per transition kind; every evaluator is reached
// through the version registry so rule revisions can diverge per protocol
// version.
type TransitionStateValidator struct{}

func NewTransitionStateValidator() TransitionStateValidator {
	return TransitionStateValidator{}
}

func (v TransitionStateValidator) Process(
	ctx Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	method, eval := v.evaluator(proc.Transition)
	if eval == nil {
		return sterrors.NewCodedError(
			sterrors.ErrCodeStateTransitionDecodingError,
			"no state evaluator for transition kind %s", proc.Transition.Kind())
	}
	if _, err := proc.PlatformVersion.Resolve(method); err != nil {
		return sterrors.WrapVersionError(err)
	}
	return eval(ctx, proc, repo)
}

type stateEvaluator func(ctx Context, proc *TransitionProcedure, repo *state.Repository) error

func (v TransitionStateValidator) evaluator(
	st platform.StateTransition,
) (string, stateEvaluator) {
	switch st.(type) {
	case *platform.DataContractCreateTransition:
		return version.MethodStateContractCreate, evaluateContractCreate
	case *platform.DataContractUpdateTransition:
		return version.MethodStateContractUpdate, evaluateContractUpdate
	case *platform.DocumentsBatchTransition:
		return version.MethodStateDocumentsBatch, evaluateDocumentsBatch
	case *platform.IdentityCreateTransition:
		return version.MethodStateIdentityCreate, evaluateIdentityCreate
	case *platform.IdentityTopUpTransition:
		return version.MethodStateIdentityTopUp, evaluateIdentityTopUp
	case *platform.IdentityUpdateTransition:
		return version.MethodStateIdentityUpdate, evaluateIdentityUpdate
	case *platform.IdentityCreditTransferTransition:
		return version.MethodStateCreditTransfer, evaluateCreditTransfer
	case *platform.IdentityCreditWithdrawalTransition:
		return version.MethodStateCreditWithdrawal, evaluateCreditWithdrawal
	case *platform.MasternodeVoteTransition:
		return version.MethodStateMasternodeVote, evaluateMasternodeVote
	case *platform.TokenMintTransition:
		return version.MethodStateTokenMint, evaluateTokenMint
	case *platform.TokenBurnTransition:
		return version.MethodStateTokenBurn, evaluateTokenBurn
	case *platform.TokenTransferTransition:
		return version.MethodStateTokenTransfer, evaluateTokenTransfer
	case *platform.TokenFreezeTransition:
		return version.MethodStateTokenFreeze, evaluateTokenFreeze
	case *platform.TokenUnfreezeTransition:
		return version.MethodStateTokenUnfreeze, evaluateTokenUnfreeze
	case *platform.TokenEmergencyActionTransition:
		return version.MethodStateTokenEmergencyAction, evaluateTokenEmergencyAction
	case *platform.TokenDestroyFrozenFundsTransition:
		return version.MethodStateTokenDestroyFrozen, evaluateTokenDestroyFrozenFunds
	case *platform.TokenReleaseTransition:
		return version.MethodStateTokenRelease, evaluateTokenRelease
	default:
		return "", nil
	}
}
