package platform

// AssetLockProof proves that core-chain funds were locked to credit a
// platform identity. The outpoint is single-use: it is marked spent in state
// when consumed, which is the replay protection for identity create and
// top-up.
type AssetLockProof struct {
	OutPoint              []byte  `cbor:"outPoint"`
	Credits               Credits `cbor:"credits"`
	CoreChainLockedHeight uint32  `cbor:"coreChainLockedHeight"`
	// OneTimePublicKeyHash is the hash160 of the one-time key the locked
	// output commits to. The transition's signature must recover to a key
	// with this hash.
	OneTimePublicKeyHash []byte `cbor:"oneTimePublicKeyHash"`
}

// IdentityID derives the identity id an asset lock proof is allowed to fund.
func (p AssetLockProof) IdentityID() Identifier {
	return Identifier(hashDouble(p.OutPoint))
}

// AssetLockSignedTransition is a transition signed with an asset lock's
// one-time key instead of an identity key. The two funding transitions are
// the only implementations.
type AssetLockSignedTransition interface {
	StateTransition
	AssetLockProof() AssetLockProof
	Signature() []byte
}

// IdentityCreateTransition registers a new identity funded by an asset lock.
// It is not identity signed: the signature is made with the asset lock's
// one-time key and is checked against the proof, not against state.
type IdentityCreateTransition struct {
	Protocol      uint32              `cbor:"protocolVersion"`
	IdentityID    Identifier          `cbor:"identityId"`
	PublicKeys    []IdentityPublicKey `cbor:"publicKeys"`
	AssetLock     AssetLockProof      `cbor:"assetLockProof"`
	SignatureData []byte              `cbor:"signature"`
}

func (t *IdentityCreateTransition) Kind() TransitionKind    { return TransitionIdentityCreate }
func (t *IdentityCreateTransition) ProtocolVersion() uint32 { return t.Protocol }
func (t *IdentityCreateTransition) OwnerID() Identifier     { return t.IdentityID }

func (t *IdentityCreateTransition) AssetLockProof() AssetLockProof { return t.AssetLock }
func (t *IdentityCreateTransition) Signature() []byte              { return t.SignatureData }

func (t *IdentityCreateTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// IdentityTopUpTransition adds credits to an existing identity from an asset
// lock. Like identity create, it is proof-signed rather than identity signed.
type IdentityTopUpTransition struct {
	Protocol      uint32         `cbor:"protocolVersion"`
	IdentityID    Identifier     `cbor:"identityId"`
	AssetLock     AssetLockProof `cbor:"assetLockProof"`
	SignatureData []byte         `cbor:"signature"`
}

func (t *IdentityTopUpTransition) Kind() TransitionKind    { return TransitionIdentityTopUp }
func (t *IdentityTopUpTransition) ProtocolVersion() uint32 { return t.Protocol }
func (t *IdentityTopUpTransition) OwnerID() Identifier     { return t.IdentityID }

func (t *IdentityTopUpTransition) AssetLockProof() AssetLockProof { return t.AssetLock }
func (t *IdentityTopUpTransition) Signature() []byte              { return t.SignatureData }

func (t *IdentityTopUpTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

// IdentityUpdateTransition adds or disables public keys on an identity.
// Key management requires the master key.
type IdentityUpdateTransition struct {
	SignedBase
	IdentityID        Identifier          `cbor:"identityId"`
	Revision          uint64              `cbor:"revision"`
	AddPublicKeys     []IdentityPublicKey `cbor:"addPublicKeys,omitempty"`
	DisablePublicKeys []KeyID             `cbor:"disablePublicKeys,omitempty"`
	Nonce             Nonce               `cbor:"nonce"`
}

func (t *IdentityUpdateTransition) Kind() TransitionKind { return TransitionIdentityUpdate }
func (t *IdentityUpdateTransition) OwnerID() Identifier  { return t.IdentityID }

func (t *IdentityUpdateTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

func (t *IdentityUpdateTransition) RequiredSecurityLevel() SecurityLevel {
	return SecurityLevelMaster
}

func (t *IdentityUpdateTransition) TransitionNonce() Nonce       { return t.Nonce }
func (t *IdentityUpdateTransition) NonceContractID() *Identifier { return nil }

// IdentityCreditTransferTransition moves credits between identities.
type IdentityCreditTransferTransition struct {
	SignedBase
	IdentityID  Identifier `cbor:"identityId"`
	RecipientID Identifier `cbor:"recipientId"`
	Amount      Credits    `cbor:"amount"`
	Nonce       Nonce      `cbor:"nonce"`
}

func (t *IdentityCreditTransferTransition) Kind() TransitionKind {
	return TransitionIdentityCreditTransfer
}
func (t *IdentityCreditTransferTransition) OwnerID() Identifier { return t.IdentityID }

func (t *IdentityCreditTransferTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

func (t *IdentityCreditTransferTransition) RequiredSecurityLevel() SecurityLevel {
	return SecurityLevelCritical
}

func (t *IdentityCreditTransferTransition) RequiredKeyPurpose() KeyPurpose {
	return KeyPurposeTransfer
}

func (t *IdentityCreditTransferTransition) TransitionNonce() Nonce       { return t.Nonce }
func (t *IdentityCreditTransferTransition) NonceContractID() *Identifier { return nil }

// IdentityCreditWithdrawalTransition burns platform credits and queues a
// core-chain payout to the given output script.
type IdentityCreditWithdrawalTransition struct {
	SignedBase
	IdentityID     Identifier `cbor:"identityId"`
	Amount         Credits    `cbor:"amount"`
	CoreFeePerByte uint32     `cbor:"coreFeePerByte"`
	OutputScript   []byte     `cbor:"outputScript"`
	Nonce          Nonce      `cbor:"nonce"`
}

func (t *IdentityCreditWithdrawalTransition) Kind() TransitionKind {
	return TransitionIdentityCreditWithdrawal
}
func (t *IdentityCreditWithdrawalTransition) OwnerID() Identifier { return t.IdentityID }

func (t *IdentityCreditWithdrawalTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

func (t *IdentityCreditWithdrawalTransition) RequiredSecurityLevel() SecurityLevel {
	return SecurityLevelCritical
}

func (t *IdentityCreditWithdrawalTransition) RequiredKeyPurpose() KeyPurpose {
	return KeyPurposeTransfer
}

func (t *IdentityCreditWithdrawalTransition) TransitionNonce() Nonce       { return t.Nonce }
func (t *IdentityCreditWithdrawalTransition) NonceContractID() *Identifier { return nil }
