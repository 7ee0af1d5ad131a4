package drive

import (
	"bytes"
	"sort"

	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// TransitionInvoker applies the procedure's resolved actions to state, in
// FIFO order, and advances the owner's nonce. It runs against the
// transition's overlay, so a later rejection (including fee settlement)
// still discards everything written here.
type TransitionInvoker struct{}

// NewTransitionInvoker constructs the execution stage.
func NewTransitionInvoker() TransitionInvoker {
	return TransitionInvoker{}
}

func (inv TransitionInvoker) Process(
	ctx Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	if _, err := proc.PlatformVersion.Resolve(version.MethodApplyActions); err != nil {
		return sterrors.WrapVersionError(err)
	}
	proc.applyCheckpoint = proc.ExecCtx.Checkpoint()

	for _, action := range proc.Actions {
		if err := inv.apply(proc, repo, action); err != nil {
			return err
		}
	}

	if nonced, ok := proc.Transition.(platform.NoncedTransition); ok {
		err := repo.SetNonce(proc.Transition.OwnerID(), nonced.NonceContractID(), nonced.TransitionNonce())
		if err != nil {
			return err
		}
	}
	return nil
}

func (inv TransitionInvoker) apply(
	proc *TransitionProcedure,
	repo *state.Repository,
	action actions.Action,
) error {
	switch a := action.(type) {
	case *actions.ContractCreateAction:
		return inv.applyContractCreate(repo, a)
	case *actions.ContractUpdateAction:
		if err := repo.PutContract(a.Contract); err != nil {
			return err
		}
		proc.Contracts.Invalidate(a.Contract.ID)
		return nil
	case *actions.DocumentAction:
		return inv.applyDocument(repo, a)
	case *actions.IdentityCreateAction:
		if err := repo.CreateIdentity(a.IdentityID, a.PublicKeys, a.Credits); err != nil {
			return err
		}
		return repo.MarkAssetLockSpent(a.OutPoint)
	case *actions.IdentityTopUpAction:
		if err := repo.AddToIdentityBalance(a.IdentityID, a.Credits); err != nil {
			return err
		}
		return repo.MarkAssetLockSpent(a.OutPoint)
	case *actions.IdentityUpdateAction:
		return repo.UpdateIdentityKeys(a.IdentityID, a.Revision, a.Add, a.Disable)
	case *actions.CreditTransferAction:
		return inv.applyCreditTransfer(repo, a)
	case *actions.CreditWithdrawalAction:
		return inv.applyCreditWithdrawal(repo, a)
	case *actions.MasternodeVoteAction:
		return repo.PutVote(a.VotePollID, a.ProTxHash.Bytes(), a.VoterID, a.Choice)
	case *actions.TokenMintAction:
		return inv.applyGrouped(repo, &a.TokenBase, a.GroupContent, func() error {
			if err := addTokenBalance(repo, a.TokenID, a.RecipientID, a.Amount); err != nil {
				return err
			}
			return addTokenSupply(repo, a.TokenID, a.Amount)
		})
	case *actions.TokenBurnAction:
		return inv.applyGrouped(repo, &a.TokenBase, a.GroupContent, func() error {
			if err := subTokenBalance(repo, a.TokenID, a.Owner, a.Amount); err != nil {
				return err
			}
			return subTokenSupply(repo, a.TokenID, a.Amount)
		})
	case *actions.TokenTransferAction:
		if err := subTokenBalance(repo, a.TokenID, a.Owner, a.Amount); err != nil {
			return err
		}
		return addTokenBalance(repo, a.TokenID, a.RecipientID, a.Amount)
	case *actions.TokenFreezeAction:
		return inv.applyGrouped(repo, &a.TokenBase, a.GroupContent, func() error {
			return repo.SetTokenInfo(a.TokenID, a.TargetID, platform.IdentityTokenInfo{Frozen: a.Freeze})
		})
	case *actions.TokenEmergencyAction:
		return inv.applyGrouped(repo, &a.TokenBase, a.GroupContent, func() error {
			return repo.SetTokenStatus(a.TokenID, platform.TokenStatus{Paused: a.Pause})
		})
	case *actions.TokenDestroyFrozenFundsAction:
		return inv.applyGrouped(repo, &a.TokenBase, a.GroupContent, func() error {
			return destroyFrozenFunds(repo, a.TokenID, a.TargetID)
		})
	case *actions.TokenReleaseAction:
		if err := addTokenBalance(repo, a.TokenID, a.Recipient.IdentityID, a.Amount); err != nil {
			return err
		}
		if err := addTokenSupply(repo, a.TokenID, a.Amount); err != nil {
			return err
		}
		return repo.SetLastReleaseHeight(a.TokenID, a.ReleaseHeight)
	default:
		return sterrors.NewCorruptedStateFailure("unknown action kind %s", action.Kind())
	}
}

// applyContractCreate stores the contract and seeds each defined token: the
// base supply is credited to the configured mint destination, falling back
// to the contract owner. Token positions are walked in order so seeding is
// deterministic.
func (inv TransitionInvoker) applyContractCreate(
	repo *state.Repository,
	a *actions.ContractCreateAction,
) error {
	if err := repo.PutContract(a.Contract); err != nil {
		return err
	}

	positions := make([]platform.TokenPosition, 0, len(a.Contract.Tokens))
	for pos := range a.Contract.Tokens {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

	for _, pos := range positions {
		config := a.Contract.Tokens[pos]
		tokenID := a.Contract.TokenID(pos)
		holder := a.Contract.OwnerID
		if config.MintDestinationID != nil {
			holder = *config.MintDestinationID
		}
		if err := repo.SetTokenBalance(tokenID, holder, config.BaseSupply); err != nil {
			return err
		}
		if err := repo.SetTokenSupply(tokenID, config.BaseSupply); err != nil {
			return err
		}
	}
	return nil
}

func (inv TransitionInvoker) applyDocument(repo *state.Repository, a *actions.DocumentAction) error {
	docType, ok := a.Contract.DocumentType(a.Document.Type)
	if !ok {
		return sterrors.NewCorruptedStateFailure(
			"document type %s vanished from contract %s between validation and execution",
			a.Document.Type, a.Contract.ID)
	}

	switch a.ActionKind {
	case actions.KindDocumentCreate:
		if err := repo.PutDocument(a.Document); err != nil {
			return err
		}
		for _, index := range docType.UniqueIndices {
			values, err := indexValues(index, a.Document.Data)
			if err != nil {
				return err
			}
			err = repo.PutIndexEntry(a.Document.ContractID, a.Document.Type, index.Name, values, a.Document.ID)
			if err != nil {
				return err
			}
		}
		if a.TokenPayment != nil {
			return inv.applyTokenPayment(repo, a.Document.OwnerID, a.TokenPayment)
		}
		return nil

	case actions.KindDocumentReplace:
		if err := repo.PutDocument(a.Document); err != nil {
			return err
		}
		// Only index slots whose packed values changed move; untouched slots
		// keep their original entry, so no refund churn on stable fields.
		for _, index := range docType.UniqueIndices {
			oldValues, err := indexValues(index, a.Previous.Data)
			if err != nil {
				return err
			}
			newValues, err := indexValues(index, a.Document.Data)
			if err != nil {
				return err
			}
			if string(oldValues) == string(newValues) {
				continue
			}
			err = repo.DeleteIndexEntry(a.Document.ContractID, a.Document.Type, index.Name, oldValues, a.Previous.OwnerID)
			if err != nil {
				return err
			}
			err = repo.PutIndexEntry(a.Document.ContractID, a.Document.Type, index.Name, newValues, a.Document.ID)
			if err != nil {
				return err
			}
		}
		return nil

	case actions.KindDocumentDelete:
		if err := repo.DeleteDocument(a.Document); err != nil {
			return err
		}
		for _, index := range docType.UniqueIndices {
			values, err := indexValues(index, a.Document.Data)
			if err != nil {
				return err
			}
			err = repo.DeleteIndexEntry(a.Document.ContractID, a.Document.Type, index.Name, values, a.Document.OwnerID)
			if err != nil {
				return err
			}
		}
		return nil

	default:
		return sterrors.NewCorruptedStateFailure("document action with kind %s", a.ActionKind)
	}
}

// applyTokenPayment settles a document type's creation cost, validated
// upstream against the payer's balance on this same overlay.
func (inv TransitionInvoker) applyTokenPayment(
	repo *state.Repository,
	payer platform.Identifier,
	payment *actions.ResolvedTokenPayment,
) error {
	if err := subTokenBalance(repo, payment.TokenID, payer, payment.Amount); err != nil {
		return err
	}
	return addTokenBalance(repo, payment.TokenID, payment.PayeeID, payment.Amount)
}

func (inv TransitionInvoker) applyCreditTransfer(repo *state.Repository, a *actions.CreditTransferAction) error {
	balance, found, err := repo.FetchIdentityBalance(a.SenderID)
	if err != nil {
		return err
	}
	if !found || balance < a.Amount {
		return sterrors.InsufficientBalanceError{IdentityID: a.SenderID, Balance: balance, Required: a.Amount}
	}
	if err := repo.SetIdentityBalance(a.SenderID, balance-a.Amount); err != nil {
		return err
	}
	return repo.AddToIdentityBalance(a.RecipientID, a.Amount)
}

func (inv TransitionInvoker) applyCreditWithdrawal(repo *state.Repository, a *actions.CreditWithdrawalAction) error {
	balance, found, err := repo.FetchIdentityBalance(a.IdentityID)
	if err != nil {
		return err
	}
	if !found || balance < a.Amount {
		return sterrors.InsufficientBalanceError{IdentityID: a.IdentityID, Balance: balance, Required: a.Amount}
	}
	if err := repo.SetIdentityBalance(a.IdentityID, balance-a.Amount); err != nil {
		return err
	}
	return repo.EnqueueWithdrawal(a.IdentityID, a.Nonce, a.Amount, a.CoreFeePerByte, a.OutputScript)
}

// applyGrouped gates a token mutation behind its group's power threshold.
// Directly authorized actions (nil group info) execute immediately. Group
// actions accumulate signer power in a shared record; the mutation fires
// exactly once, on the signature that first reaches the threshold. Later
// signers still land in the record but never re-trigger execution.
//
// The proposer's canonical payload is persisted in the record, and every
// co-signature must carry the identical payload. A signer cannot reuse an
// action id to push different parameters through someone else's power.
func (inv TransitionInvoker) applyGrouped(
	repo *state.Repository,
	base *actions.TokenBase,
	content func() ([]byte, error),
	execute func() error,
) error {
	g := base.Group
	if g == nil {
		return execute()
	}

	payload, err := content()
	if err != nil {
		return sterrors.NewEncodingFailure(err)
	}

	record, found, err := repo.FetchGroupAction(g.ContractID, g.Position, g.ActionID)
	if err != nil {
		return err
	}
	if !found {
		if !g.IsProposer {
			return sterrors.NewGroupActionNotFoundError(g.ActionID)
		}
		record = state.GroupActionState{Content: payload}
	} else if !bytes.Equal(record.Content, payload) {
		return sterrors.NewGroupActionContentMismatchError(g.ActionID)
	}
	if record.HasSigned(base.Owner) {
		return sterrors.NewGroupActionAlreadySignedError(g.ActionID, base.Owner)
	}

	record.SignedPower += g.SignerPower
	record.Signers = append(record.Signers, base.Owner)

	if !record.Executed && record.SignedPower >= g.RequiredPower {
		if err := execute(); err != nil {
			return err
		}
		record.Executed = true
	}
	return repo.PutGroupAction(g.ContractID, g.Position, g.ActionID, record)
}

// destroyFrozenFunds burns whatever the frozen account holds at execution
// time, which for a threshold-deferred group action can differ from the
// balance observed when the action was proposed.
func destroyFrozenFunds(repo *state.Repository, tokenID, targetID platform.Identifier) error {
	balance, found, err := repo.FetchTokenBalance(tokenID, targetID)
	if err != nil {
		return err
	}
	if !found || balance == 0 {
		return nil
	}
	if err := repo.SetTokenBalance(tokenID, targetID, 0); err != nil {
		return err
	}
	return subTokenSupply(repo, tokenID, balance)
}

func addTokenBalance(repo *state.Repository, tokenID, id platform.Identifier, amount platform.TokenAmount) error {
	balance, _, err := repo.FetchTokenBalance(tokenID, id)
	if err != nil {
		return err
	}
	return repo.SetTokenBalance(tokenID, id, balance+amount)
}

func subTokenBalance(repo *state.Repository, tokenID, id platform.Identifier, amount platform.TokenAmount) error {
	balance, _, err := repo.FetchTokenBalance(tokenID, id)
	if err != nil {
		return err
	}
	if balance < amount {
		return sterrors.IdentityInsufficientTokenBalanceError{
			TokenID:    tokenID,
			IdentityID: id,
			Required:   amount,
			Available:  balance,
		}
	}
	return repo.SetTokenBalance(tokenID, id, balance-amount)
}

func addTokenSupply(repo *state.Repository, tokenID platform.Identifier, amount platform.TokenAmount) error {
	supply, _, err := repo.FetchTokenSupply(tokenID)
	if err != nil {
		return err
	}
	return repo.SetTokenSupply(tokenID, supply+amount)
}

func subTokenSupply(repo *state.Repository, tokenID platform.Identifier, amount platform.TokenAmount) error {
	supply, _, err := repo.FetchTokenSupply(tokenID)
	if err != nil {
		return err
	}
	if supply < amount {
		return sterrors.NewCorruptedStateFailure(
			"token %s supply %d below burn amount %d", tokenID, supply, amount)
	}
	return repo.SetTokenSupply(tokenID, supply-amount)
}
