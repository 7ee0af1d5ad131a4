package drive

import (
	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// tokenContext bundles what every token evaluator needs: the contract, the
// token's configuration and derived id, and the action base with group
// bookkeeping already resolved and membership-checked.
type tokenContext struct {
	contract *platform.DataContract
	config   platform.TokenConfiguration
	tokenID  platform.Identifier
	base     actions.TokenBase
}

func resolveTokenContext(
	proc *TransitionProcedure,
	repo *state.Repository,
	t *platform.TokenBaseTransition,
) (*tokenContext, error) {
	contract, err := proc.Contracts.FetchContract(repo, t.ContractID)
	if err != nil {
		return nil, err
	}
	config, ok := contract.Token(t.Position)
	if !ok {
		return nil, sterrors.NewTokenNotFoundError(t.ContractID, t.Position)
	}
	tokenID := contract.TokenID(t.Position)

	base := actions.TokenBase{
		ContractID: t.ContractID,
		TokenID:    tokenID,
		Position:   t.Position,
		Owner:      t.Owner,
	}

	if info := t.GroupInfo(); info != nil {
		group, ok := contract.Group(info.GroupContractPosition)
		if !ok {
			return nil, sterrors.NewGroupNotFoundError(t.ContractID, info.GroupContractPosition)
		}
		power := group.MemberPower(t.Owner)
		if power == 0 {
			return nil, sterrors.NewUnauthorizedTokenActionError(
				tokenID, t.Owner, "sign group action")
		}
		base.Group = &actions.GroupInfo{
			ContractID:    t.ContractID,
			Position:      info.GroupContractPosition,
			ActionID:      info.ActionID,
			IsProposer:    info.IsProposer,
			SignerPower:   power,
			RequiredPower: group.RequiredPower,
		}
	}

	return &tokenContext{
		contract: contract,
		config:   config,
		tokenID:  tokenID,
		base:     base,
	}, nil
}

// authorize checks the actor against the change control rules guarding the
// operation. Group-guarded rules require the transition to carry the
// matching group bookkeeping: a group member acting alone must aggregate
// power through the group action record, never bypass it.
func (tc *tokenContext) authorize(rules platform.ChangeControlRules, actorID platform.Identifier, operation string) error {
	takers := rules.AuthorizedToMakeChange
	groupGuarded := takers.Kind == platform.ActionTakersMainGroup || takers.Kind == platform.ActionTakersGroup

	if groupGuarded {
		if tc.base.Group == nil {
			return sterrors.NewUnauthorizedTokenActionError(tc.tokenID, actorID, operation)
		}
		authorizedPos := takers.GroupPosition
		if takers.Kind == platform.ActionTakersMainGroup {
			if tc.config.MainControlGroup == nil {
				return sterrors.NewUnauthorizedTokenActionError(tc.tokenID, actorID, operation)
			}
			authorizedPos = *tc.config.MainControlGroup
		}
		if tc.base.Group.Position != authorizedPos {
			return sterrors.NewUnauthorizedTokenActionError(tc.tokenID, actorID, operation)
		}
		// Membership was checked when the group info was resolved.
		return nil
	}

	if tc.base.Group != nil {
		// Group bookkeeping on a directly guarded operation is a misuse.
		return sterrors.NewUnauthorizedTokenActionError(tc.tokenID, actorID, operation)
	}
	if !rules.CanMakeChange(tc.contract.OwnerID, tc.config.MainControlGroup, tc.contract.Groups, actorID) {
		return sterrors.NewUnauthorizedTokenActionError(tc.tokenID, actorID, operation)
	}
	return nil
}

// checkNotPaused rejects value-moving operations on a paused token.
// Emergency actions stay allowed: resuming a paused token must be possible.
func checkNotPaused(repo *state.Repository, tokenID platform.Identifier) error {
	status, _, err := repo.FetchTokenStatus(tokenID)
	if err != nil {
		return err
	}
	if status.Paused {
		return sterrors.NewTokenIsPausedError(tokenID)
	}
	return nil
}

func checkNotFrozen(
	repo *state.Repository,
	tokenID, identityID platform.Identifier,
	operation string,
) error {
	info, _, err := repo.FetchTokenInfo(tokenID, identityID)
	if err != nil {
		return err
	}
	if info.Frozen {
		return sterrors.IdentityTokenAccountFrozenError{
			TokenID:    tokenID,
			IdentityID: identityID,
			Operation:  operation,
		}
	}
	return nil
}

func checkTokenBalance(
	repo *state.Repository,
	tokenID, identityID platform.Identifier,
	required platform.TokenAmount,
) error {
	balance, _, err := repo.FetchTokenBalance(tokenID, identityID)
	if err != nil {
		return err
	}
	if balance < required {
		return sterrors.IdentityInsufficientTokenBalanceError{
			TokenID:    tokenID,
			IdentityID: identityID,
			Required:   required,
			Available:  balance,
		}
	}
	return nil
}

func checkMaxSupply(
	repo *state.Repository,
	tokenID platform.Identifier,
	config platform.TokenConfiguration,
	amount platform.TokenAmount,
) error {
	if config.MaxSupply == 0 {
		return nil
	}
	supply, _, err := repo.FetchTokenSupply(tokenID)
	if err != nil {
		return err
	}
	if supply+amount > config.MaxSupply {
		return sterrors.TokenMintPastMaxSupplyError{
			TokenID:   tokenID,
			Requested: amount,
			MaxSupply: config.MaxSupply,
		}
	}
	return nil
}

func evaluateTokenMint(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.TokenMintTransition)
	tc, err := resolveTokenContext(proc, repo, &t.TokenBaseTransition)
	if err != nil {
		return err
	}
	if err := tc.authorize(tc.config.ManualMintingRules, t.Owner, "mint"); err != nil {
		return err
	}
	if err := checkNotPaused(repo, tc.tokenID); err != nil {
		return err
	}
	if err := checkMaxSupply(repo, tc.tokenID, tc.config, t.Amount); err != nil {
		return err
	}

	if _, err := proc.PlatformVersion.Resolve(version.MethodTransformIntoAction); err != nil {
		return sterrors.WrapVersionError(err)
	}
	recipient, err := resolveMintDestination(tc.tokenID, tc.config, t.IssuedToIdentityID)
	if err != nil {
		return err
	}
	exists, err := repo.HasIdentity(recipient)
	if err != nil {
		return err
	}
	if !exists {
		return sterrors.NewRecipientIdentityNotFoundError(recipient)
	}

	proc.Actions = append(proc.Actions, &actions.TokenMintAction{
		TokenBase:   tc.base,
		RecipientID: recipient,
		Amount:      t.Amount,
		Note:        t.Note,
	})
	return nil
}

func evaluateTokenBurn(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.TokenBurnTransition)
	tc, err := resolveTokenContext(proc, repo, &t.TokenBaseTransition)
	if err != nil {
		return err
	}
	if err := tc.authorize(tc.config.ManualBurningRules, t.Owner, "burn"); err != nil {
		return err
	}
	if err := checkNotPaused(repo, tc.tokenID); err != nil {
		return err
	}
	if err := checkNotFrozen(repo, tc.tokenID, t.Owner, "tokenBurn"); err != nil {
		return err
	}
	if err := checkTokenBalance(repo, tc.tokenID, t.Owner, t.Amount); err != nil {
		return err
	}

	proc.Actions = append(proc.Actions, &actions.TokenBurnAction{
		TokenBase: tc.base,
		Amount:    t.Amount,
		Note:      t.Note,
	})
	return nil
}

func evaluateTokenTransfer(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.TokenTransferTransition)
	tc, err := resolveTokenContext(proc, repo, &t.TokenBaseTransition)
	if err != nil {
		return err
	}
	// Transfers are never group actions and need no control-rule check;
	// holding the tokens is the authorization.
	if tc.base.Group != nil {
		return sterrors.NewUnauthorizedTokenActionError(tc.tokenID, t.Owner, "transfer")
	}
	if err := checkNotPaused(repo, tc.tokenID); err != nil {
		return err
	}
	if err := checkNotFrozen(repo, tc.tokenID, t.Owner, "tokenTransfer"); err != nil {
		return err
	}
	if err := checkTokenBalance(repo, tc.tokenID, t.Owner, t.Amount); err != nil {
		return err
	}
	exists, err := repo.HasIdentity(t.RecipientID)
	if err != nil {
		return err
	}
	if !exists {
		return sterrors.NewRecipientIdentityNotFoundError(t.RecipientID)
	}

	proc.Actions = append(proc.Actions, &actions.TokenTransferAction{
		TokenBase:   tc.base,
		RecipientID: t.RecipientID,
		Amount:      t.Amount,
		Note:        t.Note,
	})
	return nil
}

func evaluateTokenFreeze(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.TokenFreezeTransition)
	tc, err := resolveTokenContext(proc, repo, &t.TokenBaseTransition)
	if err != nil {
		return err
	}
	if err := tc.authorize(tc.config.FreezeRules, t.Owner, "freeze"); err != nil {
		return err
	}

	info, _, err := repo.FetchTokenInfo(tc.tokenID, t.FrozenIdentityID)
	if err != nil {
		return err
	}
	if info.Frozen {
		return sterrors.IdentityTokenAccountFrozenError{
			TokenID:    tc.tokenID,
			IdentityID: t.FrozenIdentityID,
			Operation:  "tokenFreeze",
		}
	}

	proc.Actions = append(proc.Actions, &actions.TokenFreezeAction{
		TokenBase: tc.base,
		TargetID:  t.FrozenIdentityID,
		Freeze:    true,
	})
	return nil
}

func evaluateTokenUnfreeze(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.TokenUnfreezeTransition)
	tc, err := resolveTokenContext(proc, repo, &t.TokenBaseTransition)
	if err != nil {
		return err
	}
	if err := tc.authorize(tc.config.UnfreezeRules, t.Owner, "unfreeze"); err != nil {
		return err
	}

	info, _, err := repo.FetchTokenInfo(tc.tokenID, t.FrozenIdentityID)
	if err != nil {
		return err
	}
	if !info.Frozen {
		return sterrors.IdentityTokenAccountNotFrozenError{
			TokenID:    tc.tokenID,
			IdentityID: t.FrozenIdentityID,
		}
	}

	proc.Actions = append(proc.Actions, &actions.TokenFreezeAction{
		TokenBase: tc.base,
		TargetID:  t.FrozenIdentityID,
		Freeze:    false,
	})
	return nil
}

func evaluateTokenEmergencyAction(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.TokenEmergencyActionTransition)
	tc, err := resolveTokenContext(proc, repo, &t.TokenBaseTransition)
	if err != nil {
		return err
	}
	if err := tc.authorize(tc.config.EmergencyActionRules, t.Owner, "emergency action"); err != nil {
		return err
	}

	proc.Actions = append(proc.Actions, &actions.TokenEmergencyAction{
		TokenBase: tc.base,
		Pause:     t.Action == platform.TokenEmergencyActionPause,
	})
	return nil
}

func evaluateTokenDestroyFrozenFunds(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.TokenDestroyFrozenFundsTransition)
	tc, err := resolveTokenContext(proc, repo, &t.TokenBaseTransition)
	if err != nil {
		return err
	}
	if err := tc.authorize(tc.config.DestroyFrozenFundsRules, t.Owner, "destroy frozen funds"); err != nil {
		return err
	}

	info, _, err := repo.FetchTokenInfo(tc.tokenID, t.FrozenIdentityID)
	if err != nil {
		return err
	}
	if !info.Frozen {
		return sterrors.IdentityTokenAccountNotFrozenError{
			TokenID:    tc.tokenID,
			IdentityID: t.FrozenIdentityID,
		}
	}

	balance, _, err := repo.FetchTokenBalance(tc.tokenID, t.FrozenIdentityID)
	if err != nil {
		return err
	}

	proc.Actions = append(proc.Actions, &actions.TokenDestroyFrozenFundsAction{
		TokenBase: tc.base,
		TargetID:  t.FrozenIdentityID,
		Amount:    balance,
	})
	return nil
}

func evaluateTokenRelease(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.TokenReleaseTransition)
	tc, err := resolveTokenContext(proc, repo, &t.TokenBaseTransition)
	if err != nil {
		return err
	}

	dist := tc.config.PerpetualDistribution
	if dist == nil || dist.IntervalBlocks == 0 {
		return sterrors.NewNothingToReleaseError(tc.tokenID)
	}
	if err := checkNotPaused(repo, tc.tokenID); err != nil {
		return err
	}

	last, _, err := repo.FetchLastReleaseHeight(tc.tokenID)
	if err != nil {
		return err
	}
	if proc.Block.Height <= last {
		return sterrors.NewNothingToReleaseError(tc.tokenID)
	}
	intervals := (proc.Block.Height - last) / dist.IntervalBlocks
	if intervals == 0 {
		return sterrors.NewNothingToReleaseError(tc.tokenID)
	}
	amount := platform.TokenAmount(intervals) * dist.AmountPerInterval
	if err := checkMaxSupply(repo, tc.tokenID, tc.config, amount); err != nil {
		return err
	}

	if _, err := proc.PlatformVersion.Resolve(version.MethodTransformIntoAction); err != nil {
		return sterrors.WrapVersionError(err)
	}
	recipient, err := resolveReleaseRecipient(dist.Recipient, tc.contract.OwnerID)
	if err != nil {
		return err
	}

	proc.Actions = append(proc.Actions, &actions.TokenReleaseAction{
		TokenBase:     tc.base,
		Recipient:     recipient,
		Amount:        amount,
		ReleaseHeight: last + intervals*dist.IntervalBlocks,
	})
	return nil
}
