package actions

import "github.com/dashpay/platform-engine/model/platform"

// GroupInfo is the resolved group bookkeeping of a group-authorized token
// action: which group within the contract, which shared action id, whether
// this signer proposes the action, and the power the signer contributes.
type GroupInfo struct {
	ContractID  platform.Identifier
	Position    platform.GroupPosition
	ActionID    platform.Identifier
	IsProposer  bool
	SignerPower platform.GroupMemberPower
	// RequiredPower is the group's threshold, copied from the contract so
	// execution does not re-read it.
	RequiredPower platform.GroupMemberPower
}

// TokenBase carries the fields shared by every token action.
type TokenBase struct {
	ContractID platform.Identifier
	TokenID    platform.Identifier
	Position   platform.TokenPosition
	Owner      platform.Identifier
	Group      *GroupInfo
}

func (b *TokenBase) OwnerID() platform.Identifier { return b.Owner }

// GroupInfo returns the group bookkeeping, nil when the action is directly
// authorized.
func (b *TokenBase) GroupInfo() *GroupInfo { return b.Group }

// TokenMintAction issues tokens to a resolved recipient. RecipientID has
// already been resolved through the explicit-then-configured fallback chain.
type TokenMintAction struct {
	TokenBase
	RecipientID platform.Identifier
	Amount      platform.TokenAmount
	Note        string
}

func (a *TokenMintAction) Kind() Kind { return KindTokenMint }

// GroupContent returns the canonical payload a group action record stores
// for this action.
func (a *TokenMintAction) GroupContent() ([]byte, error) {
	return platform.MarshalCanonical([]interface{}{
		a.Kind().String(), a.TokenID.Bytes(), a.RecipientID.Bytes(), a.Amount, a.Note,
	})
}

// TokenBurnAction destroys tokens held by the action owner.
type TokenBurnAction struct {
	TokenBase
	Amount platform.TokenAmount
	Note   string
}

func (a *TokenBurnAction) Kind() Kind { return KindTokenBurn }

func (a *TokenBurnAction) GroupContent() ([]byte, error) {
	return platform.MarshalCanonical([]interface{}{
		a.Kind().String(), a.TokenID.Bytes(), a.Amount, a.Note,
	})
}

// TokenTransferAction moves tokens between identities.
type TokenTransferAction struct {
	TokenBase
	RecipientID platform.Identifier
	Amount      platform.TokenAmount
	Note        string
}

func (a *TokenTransferAction) Kind() Kind { return KindTokenTransfer }

// TokenFreezeAction freezes or unfreezes a holder's token account.
type TokenFreezeAction struct {
	TokenBase
	TargetID platform.Identifier
	Freeze   bool
}

func (a *TokenFreezeAction) Kind() Kind {
	if a.Freeze {
		return KindTokenFreeze
	}
	return KindTokenUnfreeze
}

func (a *TokenFreezeAction) GroupContent() ([]byte, error) {
	return platform.MarshalCanonical([]interface{}{
		a.Kind().String(), a.TokenID.Bytes(), a.TargetID.Bytes(),
	})
}

// TokenEmergencyAction pauses or resumes a token.
type TokenEmergencyAction struct {
	TokenBase
	Pause bool
}

func (a *TokenEmergencyAction) Kind() Kind { return KindTokenEmergencyAction }

func (a *TokenEmergencyAction) GroupContent() ([]byte, error) {
	return platform.MarshalCanonical([]interface{}{
		a.Kind().String(), a.TokenID.Bytes(), a.Pause,
	})
}

// TokenDestroyFrozenFundsAction burns the full balance of a frozen account.
// Amount is the balance observed at validation time.
type TokenDestroyFrozenFundsAction struct {
	TokenBase
	TargetID platform.Identifier
	Amount   platform.TokenAmount
}

func (a *TokenDestroyFrozenFundsAction) Kind() Kind { return KindTokenDestroyFrozenFunds }

// GroupContent excludes the observed Amount: the balance is re-read at
// execution time, so signers agree on the target, not a snapshot.
func (a *TokenDestroyFrozenFundsAction) GroupContent() ([]byte, error) {
	return platform.MarshalCanonical([]interface{}{
		a.Kind().String(), a.TokenID.Bytes(), a.TargetID.Bytes(),
	})
}

// ResolvedRecipientKind is the closed set of concrete recipients a perpetual
// distribution release can pay. Evonodes-by-participation never resolves
// under the simple resolver and is rejected at transform time, so it has no
// variant here.
type ResolvedRecipientKind uint8

const (
	ResolvedRecipientContractOwner ResolvedRecipientKind = iota
	ResolvedRecipientIdentity
)

// ResolvedRecipient is a distribution recipient resolved to an identity.
type ResolvedRecipient struct {
	Kind       ResolvedRecipientKind
	IdentityID platform.Identifier
}

// TokenReleaseAction pays out the accrued perpetual distribution.
type TokenReleaseAction struct {
	TokenBase
	Recipient ResolvedRecipient
	Amount    platform.TokenAmount
	// ReleaseHeight becomes the token's new last-release marker.
	ReleaseHeight uint64
}

func (a *TokenReleaseAction) Kind() Kind { return KindTokenRelease }
