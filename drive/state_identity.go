package drive

import (
	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
)

// MinLeftoverCredits is the minimum balance an identity keeps after a credit
// transfer or withdrawal, so the sender can still pay for a later transition.
const MinLeftoverCredits platform.Credits = 10_000

func evaluateIdentityCreate(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.IdentityCreateTransition)

	exists, err := repo.HasIdentity(t.IdentityID)
	if err != nil {
		return err
	}
	if exists {
		return sterrors.NewIdentityAlreadyExistsError(t.IdentityID)
	}

	if err := checkAssetLock(proc, repo, t.AssetLock); err != nil {
		return err
	}

	proc.Actions = append(proc.Actions, &actions.IdentityCreateAction{
		IdentityID: t.IdentityID,
		PublicKeys: t.PublicKeys,
		Credits:    t.AssetLock.Credits,
		OutPoint:   t.AssetLock.OutPoint,
	})
	return nil
}

func evaluateIdentityTopUp(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.IdentityTopUpTransition)

	exists, err := repo.HasIdentity(t.IdentityID)
	if err != nil {
		return err
	}
	if !exists {
		return sterrors.NewIdentityNotFoundStateError(t.IdentityID)
	}

	if err := checkAssetLock(proc, repo, t.AssetLock); err != nil {
		return err
	}

	proc.Actions = append(proc.Actions, &actions.IdentityTopUpAction{
		IdentityID: t.IdentityID,
		Credits:    t.AssetLock.Credits,
		OutPoint:   t.AssetLock.OutPoint,
	})
	return nil
}

// checkAssetLock enforces the single-use rule on the outpoint and the core
// chain height bound on the proof.
func checkAssetLock(
	proc *TransitionProcedure,
	repo *state.Repository,
	proof platform.AssetLockProof,
) error {
	spent, err := repo.IsAssetLockSpent(proof.OutPoint)
	if err != nil {
		return err
	}
	if spent {
		return sterrors.NewAssetLockAlreadySpentError()
	}

	// Only the upper bound is enforced. The v20 fork height was meant to be
	// a lower bound as well, but observed mainnet proofs violated the
	// expected inequality.
	// TODO: pin down the fork-height lower bound once the core team confirms
	// which heights historic proofs were actually locked at.
	if proof.CoreChainLockedHeight > proc.Block.CoreChainLockedHeight {
		return sterrors.CoreChainLockedHeightOutOfBoundsError{
			Requested: proof.CoreChainLockedHeight,
			Best:      proc.Block.CoreChainLockedHeight,
		}
	}
	return nil
}

func evaluateIdentityUpdate(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.IdentityUpdateTransition)

	// The signature stage already resolved the identity; it exists.
	identity := proc.Identity

	if t.Revision != identity.Revision+1 {
		return sterrors.InvalidIdentityRevisionError{
			IdentityID:       t.IdentityID,
			CurrentRevision:  identity.Revision,
			ReceivedRevision: t.Revision,
		}
	}

	for _, key := range t.AddPublicKeys {
		if _, exists := identity.Key(key.ID); exists {
			return sterrors.NewCodedError(
				sterrors.ErrCodeDuplicatedIdentityPublicKeyIDError,
				"identity %s already has a key with id %d", t.IdentityID, key.ID)
		}
	}
	for _, keyID := range t.DisablePublicKeys {
		key, exists := identity.Key(keyID)
		if !exists {
			return sterrors.MissingPublicKeyError{IdentityID: t.IdentityID, KeyID: keyID}
		}
		if key.Disabled {
			return sterrors.PublicKeyIsDisabledError{KeyID: keyID}
		}
		if key.ReadOnly {
			return sterrors.NewCodedError(
				sterrors.ErrCodeValueOutOfBoundsError,
				"read only key %d cannot be disabled", keyID)
		}
	}

	proc.Actions = append(proc.Actions, &actions.IdentityUpdateAction{
		IdentityID: t.IdentityID,
		Revision:   t.Revision,
		Add:        t.AddPublicKeys,
		Disable:    t.DisablePublicKeys,
	})
	return nil
}

func evaluateCreditTransfer(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.IdentityCreditTransferTransition)

	recipientExists, err := repo.HasIdentity(t.RecipientID)
	if err != nil {
		return err
	}
	if !recipientExists {
		return sterrors.NewRecipientIdentityNotFoundError(t.RecipientID)
	}

	if proc.Identity.Balance < t.Amount+MinLeftoverCredits {
		return sterrors.InsufficientBalanceError{
			IdentityID: t.IdentityID,
			Balance:    proc.Identity.Balance,
			Required:   t.Amount + MinLeftoverCredits,
		}
	}

	proc.Actions = append(proc.Actions, &actions.CreditTransferAction{
		SenderID:    t.IdentityID,
		RecipientID: t.RecipientID,
		Amount:      t.Amount,
	})
	return nil
}

func evaluateCreditWithdrawal(
	_ Context,
	proc *TransitionProcedure,
	_ *state.Repository,
) error {
	t := proc.Transition.(*platform.IdentityCreditWithdrawalTransition)

	if proc.Identity.Balance < t.Amount+MinLeftoverCredits {
		return sterrors.InsufficientBalanceError{
			IdentityID: t.IdentityID,
			Balance:    proc.Identity.Balance,
			Required:   t.Amount + MinLeftoverCredits,
		}
	}

	proc.Actions = append(proc.Actions, &actions.CreditWithdrawalAction{
		IdentityID:     t.IdentityID,
		Amount:         t.Amount,
		CoreFeePerByte: t.CoreFeePerByte,
		OutputScript:   t.OutputScript,
		Nonce:          t.Nonce,
	})
	return nil
}
