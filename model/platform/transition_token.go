package platform

// GroupStateTransitionInfo marks a token transition as one step of a
// multi-party group action. The proposer's transition creates the action
// record; co-signers reference the same action id and only add power.
type GroupStateTransitionInfo struct {
	GroupContractPosition GroupPosition `cbor:"groupContractPosition"`
	ActionID              Identifier    `cbor:"actionId"`
	IsProposer            bool          `cbor:"isProposer"`
}

// TokenBaseTransition carries the fields shared by every token transition.
type TokenBaseTransition struct {
	SignedBase
	Owner      Identifier                `cbor:"ownerId"`
	ContractID Identifier                `cbor:"contractId"`
	Position   TokenPosition             `cbor:"tokenContractPosition"`
	Nonce      Nonce                     `cbor:"nonce"`
	Group      *GroupStateTransitionInfo `cbor:"groupInfo,omitempty"`
}

func (t *TokenBaseTransition) OwnerID() Identifier { return t.Owner }

func (t *TokenBaseTransition) RequiredSecurityLevel() SecurityLevel {
	return SecurityLevelHigh
}

func (t *TokenBaseTransition) TransitionNonce() Nonce { return t.Nonce }
func (t *TokenBaseTransition) NonceContractID() *Identifier {
	id := t.ContractID
	return &id
}

// GroupInfo returns the group bookkeeping of the transition, nil when the
// transition is not part of a group action.
func (t *TokenBaseTransition) GroupInfo() *GroupStateTransitionInfo { return t.Group }

// TokenMintTransition issues new tokens. The destination falls back to the
// token's configured mint destination when IssuedToIdentityID is nil.
type TokenMintTransition struct {
	TokenBaseTransition
	Amount             TokenAmount `cbor:"amount"`
	IssuedToIdentityID *Identifier `cbor:"issuedToIdentityId,omitempty"`
	Note               string      `cbor:"note,omitempty"`
}

func (t *TokenMintTransition) Kind() TransitionKind { return TransitionTokenMint }

func (t *TokenMintTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// TokenBurnTransition destroys tokens held by the signer.
type TokenBurnTransition struct {
	TokenBaseTransition
	Amount TokenAmount `cbor:"amount"`
	Note   string      `cbor:"note,omitempty"`
}

func (t *TokenBurnTransition) Kind() TransitionKind { return TransitionTokenBurn }

func (t *TokenBurnTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// TokenTransferTransition moves tokens between identities.
type TokenTransferTransition struct {
	TokenBaseTransition
	Amount      TokenAmount `cbor:"amount"`
	RecipientID Identifier  `cbor:"recipientId"`
	Note        string      `cbor:"note,omitempty"`
}

func (t *TokenTransferTransition) Kind() TransitionKind { return TransitionTokenTransfer }

func (t *TokenTransferTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// TokenFreezeTransition freezes an identity's token account.
type TokenFreezeTransition struct {
	TokenBaseTransition
	FrozenIdentityID Identifier `cbor:"frozenIdentityId"`
}

func (t *TokenFreezeTransition) Kind() TransitionKind { return TransitionTokenFreeze }

func (t *TokenFreezeTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// TokenUnfreezeTransition lifts a freeze.
type TokenUnfreezeTransition struct {
	TokenBaseTransition
	FrozenIdentityID Identifier `cbor:"frozenIdentityId"`
}

func (t *TokenUnfreezeTransition) Kind() TransitionKind { return TransitionTokenUnfreeze }

func (t *TokenUnfreezeTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// TokenEmergencyActionTransition pauses or resumes a token.
type TokenEmergencyActionTransition struct {
	TokenBaseTransition
	Action TokenEmergencyActionKind `cbor:"action"`
}

func (t *TokenEmergencyActionTransition) Kind() TransitionKind {
	return TransitionTokenEmergencyAction
}

func (t *TokenEmergencyActionTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// TokenDestroyFrozenFundsTransition burns the full balance of a frozen token
// account.
type TokenDestroyFrozenFundsTransition struct {
	TokenBaseTransition
	FrozenIdentityID Identifier `cbor:"frozenIdentityId"`
}

func (t *TokenDestroyFrozenFundsTransition) Kind() TransitionKind {
	return TransitionTokenDestroyFrozenFunds
}

func (t *TokenDestroyFrozenFundsTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// TokenReleaseTransition claims the accrued perpetual distribution of a
// token for its configured recipient.
type TokenReleaseTransition struct {
	TokenBaseTransition
}

func (t *TokenReleaseTransition) Kind() TransitionKind { return TransitionTokenRelease }

func (t *TokenReleaseTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}
