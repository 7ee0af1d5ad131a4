package drive

import (
	"github.com/hashicorp/go-multierror"

	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// TransitionStructureValidator checks shape rules that need no state access:
// field presence, protocol maxima, and the deterministic id derivations. It
// is a pure function of the transition and the protocol version, so it can
// be re-run at admission time before ordering.
type TransitionStructureValidator struct{}

func NewTransitionStructureValidator() TransitionStructureValidator {
	return TransitionStructureValidator{}
}

func (v TransitionStructureValidator) Process(
	ctx Context,
	proc *TransitionProcedure,
	_ *state.Repository,
) error {
	if !version.IsKnown(proc.Transition.ProtocolVersion()) {
		_, err := version.Get(proc.Transition.ProtocolVersion())
		return sterrors.WrapVersionError(err)
	}
	if method := v.structureMethod(proc.Transition); method != "" {
		if _, err := proc.PlatformVersion.Resolve(method); err != nil {
			return sterrors.WrapVersionError(err)
		}
	}

	result := v.validate(proc.Transition)
	if result == nil || len(result.Errors) == 0 {
		return nil
	}

	// All structural findings are logged; the first one is the consensus
	// visible rejection reason.
	ctx.Log.Debug().
		Str("kind", proc.Transition.Kind().String()).
		Int("errors", len(result.Errors)).
		Msg("transition failed structural validation")
	return result.Errors[0]
}

// structureMethod names the versioned structural rule for the kinds whose
// shape rules carry revision history. Kinds with plain field-presence checks
// are not versioned.
func (v TransitionStructureValidator) structureMethod(st platform.StateTransition) string {
	switch st.(type) {
	case *platform.DataContractCreateTransition:
		return version.MethodStructureContractCreate
	case *platform.DataContractUpdateTransition:
		return version.MethodStructureContractUpdate
	case *platform.DocumentsBatchTransition:
		return version.MethodStructureDocumentsBatch
	case *platform.IdentityCreateTransition:
		return version.MethodStructureIdentityCreate
	case *platform.IdentityUpdateTransition:
		return version.MethodStructureIdentityUpdate
	default:
		return ""
	}
}

// validate aggregates every structural finding instead of stopping at the
// first, so admission-time callers can report them all to the client.
func (v TransitionStructureValidator) validate(st platform.StateTransition) *multierror.Error {
	var result *multierror.Error

	switch t := st.(type) {
	case *platform.DataContractCreateTransition:
		result = v.validateContractCreate(t)
	case *platform.DataContractUpdateTransition:
		result = v.validateContract(&t.DataContract)
	case *platform.DocumentsBatchTransition:
		result = v.validateDocumentsBatch(t)
	case *platform.IdentityCreateTransition:
		result = v.validateIdentityCreate(t)
	case *platform.IdentityTopUpTransition:
		result = v.validateAssetLock(t.AssetLock, result)
	case *platform.IdentityUpdateTransition:
		result = v.validateIdentityUpdate(t)
	case *platform.IdentityCreditTransferTransition:
		if t.Amount == 0 {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("amount"))
		}
	case *platform.IdentityCreditWithdrawalTransition:
		if t.Amount == 0 {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("amount"))
		}
		if len(t.OutputScript) == 0 {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("outputScript"))
		}
	case *platform.MasternodeVoteTransition:
		result = v.validateVote(t)
	case *platform.TokenMintTransition:
		if t.Amount == 0 {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("amount"))
		}
	case *platform.TokenBurnTransition:
		if t.Amount == 0 {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("amount"))
		}
	case *platform.TokenTransferTransition:
		if t.Amount == 0 {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("amount"))
		}
		if t.RecipientID.IsZero() {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("recipientId"))
		}
	case *platform.TokenFreezeTransition:
		if t.FrozenIdentityID.IsZero() {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("frozenIdentityId"))
		}
	case *platform.TokenUnfreezeTransition:
		if t.FrozenIdentityID.IsZero() {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("frozenIdentityId"))
		}
	case *platform.TokenDestroyFrozenFundsTransition:
		if t.FrozenIdentityID.IsZero() {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("frozenIdentityId"))
		}
	}

	return result
}

func (v TransitionStructureValidator) validateContractCreate(
	t *platform.DataContractCreateTransition,
) *multierror.Error {
	var result *multierror.Error

	if len(t.Entropy) == 0 {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("entropy"))
	} else if len(t.Entropy) > MaxEntropyLength {
		result = multierror.Append(result, sterrors.NewValueOutOfBoundsError(
			"entropy", uint64(len(t.Entropy)), MaxEntropyLength))
	} else {
		expected := platform.NewIdentifier(t.DataContract.OwnerID, t.Entropy)
		if t.DataContract.ID != expected {
			result = multierror.Append(result, sterrors.InvalidContractIDError{
				Expected: expected,
				Received: t.DataContract.ID,
			})
		}
	}

	if sub := v.validateContract(&t.DataContract); sub != nil {
		result = multierror.Append(result, sub)
	}
	return result
}

func (v TransitionStructureValidator) validateContract(
	dc *platform.DataContract,
) *multierror.Error {
	var result *multierror.Error

	if dc.OwnerID.IsZero() {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("ownerId"))
	}
	if len(dc.DocumentTypes) == 0 && len(dc.Tokens) == 0 {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("documentTypes"))
	}
	if len(dc.Tokens) > MaxDataContractTokens {
		result = multierror.Append(result, sterrors.NewValueOutOfBoundsError(
			"tokens", uint64(len(dc.Tokens)), MaxDataContractTokens))
	}

	for _, group := range dc.Groups {
		var total platform.GroupMemberPower
		for _, power := range group.Members {
			if power == 0 {
				result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("group.memberPower"))
				continue
			}
			total += power
		}
		if group.RequiredPower == 0 || group.RequiredPower > total {
			result = multierror.Append(result, sterrors.NewValueOutOfBoundsError(
				"group.requiredPower", uint64(group.RequiredPower), uint64(total)))
		}
	}

	for _, cfg := range dc.Tokens {
		if cfg.MaxSupply > 0 && cfg.BaseSupply > cfg.MaxSupply {
			result = multierror.Append(result, sterrors.NewValueOutOfBoundsError(
				"token.baseSupply", uint64(cfg.BaseSupply), uint64(cfg.MaxSupply)))
		}
	}

	return result
}

func (v TransitionStructureValidator) validateDocumentsBatch(
	t *platform.DocumentsBatchTransition,
) *multierror.Error {
	var result *multierror.Error

	if len(t.Transitions) == 0 {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("transitions"))
	}
	if len(t.Transitions) > MaxDocumentsPerBatch {
		result = multierror.Append(result, sterrors.NewMaxDocumentsInBatchExceededError(
			len(t.Transitions), MaxDocumentsPerBatch))
	}

	for _, dt := range t.Transitions {
		if dt.Type == "" {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("type"))
			continue
		}
		if dt.ContractID.IsZero() {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("contractId"))
			continue
		}
		switch dt.Action {
		case platform.DocumentTransitionCreate:
			if len(dt.Entropy) == 0 {
				result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("entropy"))
				continue
			}
			expected := platform.NewDocumentID(t.Owner, dt.ContractID, dt.Type, dt.Entropy)
			if dt.ID != expected {
				result = multierror.Append(result, sterrors.NewCodedError(
					sterrors.ErrCodeInvalidDocumentIDError,
					"document id %s does not match derived id %s", dt.ID, expected))
			}
		case platform.DocumentTransitionReplace, platform.DocumentTransitionDelete:
			if dt.ID.IsZero() {
				result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("id"))
			}
		default:
			result = multierror.Append(result, sterrors.NewValueOutOfBoundsError(
				"action", uint64(dt.Action), uint64(platform.DocumentTransitionDelete)))
		}
	}

	return result
}

func (v TransitionStructureValidator) validateIdentityCreate(
	t *platform.IdentityCreateTransition,
) *multierror.Error {
	var result *multierror.Error

	result = v.validatePublicKeys(t.PublicKeys, result)
	if len(t.PublicKeys) == 0 {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("publicKeys"))
	}
	if t.IdentityID != t.AssetLock.IdentityID() {
		result = multierror.Append(result, sterrors.NewInvalidAssetLockProofError(
			"identity id does not match the asset lock outpoint"))
	}
	return v.validateAssetLock(t.AssetLock, result)
}

func (v TransitionStructureValidator) validateIdentityUpdate(
	t *platform.IdentityUpdateTransition,
) *multierror.Error {
	var result *multierror.Error

	if len(t.AddPublicKeys) == 0 && len(t.DisablePublicKeys) == 0 {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("addPublicKeys"))
	}
	return v.validatePublicKeys(t.AddPublicKeys, result)
}

func (v TransitionStructureValidator) validatePublicKeys(
	keys []platform.IdentityPublicKey,
	result *multierror.Error,
) *multierror.Error {
	if len(keys) > MaxPublicKeysPerOp {
		result = multierror.Append(result, sterrors.NewValueOutOfBoundsError(
			"publicKeys", uint64(len(keys)), MaxPublicKeysPerOp))
	}
	seen := make(map[platform.KeyID]struct{}, len(keys))
	for _, key := range keys {
		if len(key.Data) == 0 {
			result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("publicKey.data"))
		}
		if _, dup := seen[key.ID]; dup {
			result = multierror.Append(result, sterrors.NewCodedError(
				sterrors.ErrCodeDuplicatedIdentityPublicKeyIDError,
				"duplicate public key id %d", key.ID))
		}
		seen[key.ID] = struct{}{}
	}
	return result
}

func (v TransitionStructureValidator) validateAssetLock(
	proof platform.AssetLockProof,
	result *multierror.Error,
) *multierror.Error {
	if len(proof.OutPoint) == 0 {
		result = multierror.Append(result, sterrors.NewInvalidAssetLockProofError("outpoint is empty"))
	}
	if proof.Credits == 0 {
		result = multierror.Append(result, sterrors.NewInvalidAssetLockProofError("locked credits are zero"))
	}
	if len(proof.OneTimePublicKeyHash) != 20 {
		result = multierror.Append(result, sterrors.NewInvalidAssetLockProofError("one-time public key hash must be 20 bytes"))
	}
	return result
}

func (v TransitionStructureValidator) validateVote(
	t *platform.MasternodeVoteTransition,
) *multierror.Error {
	var result *multierror.Error

	if t.VotePollID.IsZero() {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("votePollId"))
	}
	if t.ProTxHash.IsZero() {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("proTxHash"))
	}

	choices := 0
	if t.Choice.TowardsIdentity != nil {
		choices++
	}
	if t.Choice.Abstain {
		choices++
	}
	if t.Choice.Lock {
		choices++
	}
	if choices != 1 {
		result = multierror.Append(result, sterrors.NewMissingRequiredFieldError("choice"))
	}

	return result
}
