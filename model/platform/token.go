package platform

// TokenPosition addresses a token within its data contract.
type TokenPosition uint16

// AuthorizedActionTakers describes who may perform a guarded token control
// change: nobody, the contract owner, a specific identity, the contract's
// main control group, or a group at an explicit position.
type AuthorizedActionTakers struct {
	Kind          ActionTakersKind `cbor:"kind"`
	IdentityID    Identifier       `cbor:"identityId,omitempty"`
	GroupPosition GroupPosition    `cbor:"groupPosition,omitempty"`
}

type ActionTakersKind uint8

const (
	ActionTakersNoOne ActionTakersKind = iota
	ActionTakersContractOwner
	ActionTakersIdentity
	ActionTakersMainGroup
	ActionTakersGroup
)

// ChangeControlRules guard a class of token control changes (mint, burn,
// freeze, ...). AdminActionTakers may change the rules themselves; that is
// out of scope for transition execution and kept for completeness.
type ChangeControlRules struct {
	AuthorizedToMakeChange AuthorizedActionTakers `cbor:"authorizedToMakeChange"`
	AdminActionTakers      AuthorizedActionTakers `cbor:"adminActionTakers"`
}

// CanMakeChange is the single capability check for group- and owner-guarded
// token operations. It is the only place authorization against control
// groups is evaluated; callers must not duplicate this logic.
func (r ChangeControlRules) CanMakeChange(
	contractOwnerID Identifier,
	mainGroup *GroupPosition,
	groups map[GroupPosition]Group,
	actorID Identifier,
) bool {
	takers := r.AuthorizedToMakeChange
	switch takers.Kind {
	case ActionTakersNoOne:
		return false
	case ActionTakersContractOwner:
		return actorID == contractOwnerID
	case ActionTakersIdentity:
		return actorID == takers.IdentityID
	case ActionTakersMainGroup:
		if mainGroup == nil {
			return false
		}
		group, ok := groups[*mainGroup]
		return ok && group.MemberPower(actorID) > 0
	case ActionTakersGroup:
		group, ok := groups[takers.GroupPosition]
		return ok && group.MemberPower(actorID) > 0
	default:
		return false
	}
}

// DistributionRecipientKind enumerates the abstract recipient descriptors a
// perpetual distribution may name.
type DistributionRecipientKind uint8

const (
	DistributionRecipientContractOwner DistributionRecipientKind = iota
	DistributionRecipientIdentity
	DistributionRecipientEvonodesByParticipation
)

// DistributionRecipient is the abstract, not yet resolved recipient of a
// perpetual token distribution.
type DistributionRecipient struct {
	Kind       DistributionRecipientKind `cbor:"kind"`
	IdentityID Identifier                `cbor:"identityId,omitempty"`
}

// TokenPerpetualDistribution emits tokens on a fixed block interval to a
// descriptor-addressed recipient.
type TokenPerpetualDistribution struct {
	IntervalBlocks    uint64                `cbor:"intervalBlocks"`
	AmountPerInterval TokenAmount           `cbor:"amountPerInterval"`
	Recipient         DistributionRecipient `cbor:"recipient"`
}

// TokenConfiguration is the contract-embedded configuration of one token.
type TokenConfiguration struct {
	BaseSupply              TokenAmount                 `cbor:"baseSupply"`
	MaxSupply               TokenAmount                 `cbor:"maxSupply,omitempty"`
	MintDestinationID       *Identifier                 `cbor:"mintDestinationId,omitempty"`
	MainControlGroup        *GroupPosition              `cbor:"mainControlGroup,omitempty"`
	ManualMintingRules      ChangeControlRules          `cbor:"manualMintingRules"`
	ManualBurningRules      ChangeControlRules          `cbor:"manualBurningRules"`
	FreezeRules             ChangeControlRules          `cbor:"freezeRules"`
	UnfreezeRules           ChangeControlRules          `cbor:"unfreezeRules"`
	DestroyFrozenFundsRules ChangeControlRules          `cbor:"destroyFrozenFundsRules"`
	EmergencyActionRules    ChangeControlRules          `cbor:"emergencyActionRules"`
	PerpetualDistribution   *TokenPerpetualDistribution `cbor:"perpetualDistribution,omitempty"`
}

// IdentityTokenInfo is the per-(identity, token) record: the frozen flag set
// by freeze transitions and cleared by unfreeze.
type IdentityTokenInfo struct {
	Frozen bool `cbor:"frozen"`
}

// TokenStatus is the token-wide record toggled by emergency actions.
type TokenStatus struct {
	Paused bool `cbor:"paused"`
}

// TokenEmergencyActionKind is what an emergency action does to a token.
type TokenEmergencyActionKind uint8

const (
	TokenEmergencyActionPause TokenEmergencyActionKind = iota
	TokenEmergencyActionResume
)
