package platform

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// TransitionKind tags the variant of a state transition.
type TransitionKind uint8

const (
	TransitionDataContractCreate TransitionKind = iota
	TransitionDataContractUpdate
	TransitionDocumentsBatch
	TransitionIdentityCreate
	TransitionIdentityTopUp
	TransitionIdentityUpdate
	TransitionIdentityCreditTransfer
	TransitionIdentityCreditWithdrawal
	TransitionMasternodeVote
	TransitionTokenMint
	TransitionTokenBurn
	TransitionTokenTransfer
	TransitionTokenFreeze
	TransitionTokenUnfreeze
	TransitionTokenEmergencyAction
	TransitionTokenDestroyFrozenFunds
	TransitionTokenRelease
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionDataContractCreate:
		return "dataContractCreate"
	case TransitionDataContractUpdate:
		return "dataContractUpdate"
	case TransitionDocumentsBatch:
		return "documentsBatch"
	case TransitionIdentityCreate:
		return "identityCreate"
	case TransitionIdentityTopUp:
		return "identityTopUp"
	case TransitionIdentityUpdate:
		return "identityUpdate"
	case TransitionIdentityCreditTransfer:
		return "identityCreditTransfer"
	case TransitionIdentityCreditWithdrawal:
		return "identityCreditWithdrawal"
	case TransitionMasternodeVote:
		return "masternodeVote"
	case TransitionTokenMint:
		return "tokenMint"
	case TransitionTokenBurn:
		return "tokenBurn"
	case TransitionTokenTransfer:
		return "tokenTransfer"
	case TransitionTokenFreeze:
		return "tokenFreeze"
	case TransitionTokenUnfreeze:
		return "tokenUnfreeze"
	case TransitionTokenEmergencyAction:
		return "tokenEmergencyAction"
	case TransitionTokenDestroyFrozenFunds:
		return "tokenDestroyFrozenFunds"
	case TransitionTokenRelease:
		return "tokenRelease"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// StateTransition is a client-submitted, signed intent to mutate platform
// state. A decoded transition is immutable for the whole validation and
// execution pass.
type StateTransition interface {
	Kind() TransitionKind
	ProtocolVersion() uint32
	OwnerID() Identifier
	// SignableBytes is the canonical serialization the signature commits to:
	// the transition envelope with all signature fields cleared.
	SignableBytes() ([]byte, error)
}

// IdentitySignedTransition is implemented by every transition signed with a
// registered identity key. Identity create and top-up are not identity
// signed; they prove funds through an asset lock instead.
type IdentitySignedTransition interface {
	StateTransition
	SignaturePublicKeyID() KeyID
	Signature() []byte
	RequiredSecurityLevel() SecurityLevel
	RequiredKeyPurpose() KeyPurpose
}

// NoncedTransition is implemented by transitions protected from replay by an
// identity nonce. NonceContractID returns nil when the nonce is scoped to the
// identity alone, or the contract id for identity-contract nonces.
type NoncedTransition interface {
	TransitionNonce() Nonce
	NonceContractID() *Identifier
}

// SignedBase carries the fields shared by all identity-signed transitions.
type SignedBase struct {
	Protocol           uint32 `cbor:"protocolVersion"`
	SignaturePublicKey KeyID  `cbor:"signaturePublicKeyId"`
	SignatureData      []byte `cbor:"signature"`
}

func (b *SignedBase) ProtocolVersion() uint32     { return b.Protocol }
func (b *SignedBase) SignaturePublicKeyID() KeyID { return b.SignaturePublicKey }
func (b *SignedBase) Signature() []byte           { return b.SignatureData }

// RequiredKeyPurpose defaults to authentication; transitions moving credits
// off an identity override it.
func (b *SignedBase) RequiredKeyPurpose() KeyPurpose { return KeyPurposeAuthentication }

type envelope struct {
	Kind    TransitionKind  `cbor:"kind"`
	Payload cbor.RawMessage `cbor:"payload"`
}

type signableEnvelope struct {
	Kind    TransitionKind `cbor:"kind"`
	Payload interface{}    `cbor:"payload"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Canonical form: same transition bytes on every node, required for
	// signature digests and deterministic ids.
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// UnknownTransitionKindError rejects an envelope whose kind tag is not one of
// the supported variants. Unknown kinds are never guessed at.
type UnknownTransitionKindError struct {
	Kind TransitionKind
}

func (e UnknownTransitionKindError) Error() string {
	return fmt.Sprintf("unknown state transition kind %d", uint8(e.Kind))
}

// DecodeTransition decodes a raw transition buffer delivered by the consensus
// layer into its concrete variant.
func DecodeTransition(data []byte) (StateTransition, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed state transition envelope: %w", err)
	}

	var st StateTransition
	switch env.Kind {
	case TransitionDataContractCreate:
		st = &DataContractCreateTransition{}
	case TransitionDataContractUpdate:
		st = &DataContractUpdateTransition{}
	case TransitionDocumentsBatch:
		st = &DocumentsBatchTransition{}
	case TransitionIdentityCreate:
		st = &IdentityCreateTransition{}
	case TransitionIdentityTopUp:
		st = &IdentityTopUpTransition{}
	case TransitionIdentityUpdate:
		st = &IdentityUpdateTransition{}
	case TransitionIdentityCreditTransfer:
		st = &IdentityCreditTransferTransition{}
	case TransitionIdentityCreditWithdrawal:
		st = &IdentityCreditWithdrawalTransition{}
	case TransitionMasternodeVote:
		st = &MasternodeVoteTransition{}
	case TransitionTokenMint:
		st = &TokenMintTransition{}
	case TransitionTokenBurn:
		st = &TokenBurnTransition{}
	case TransitionTokenTransfer:
		st = &TokenTransferTransition{}
	case TransitionTokenFreeze:
		st = &TokenFreezeTransition{}
	case TransitionTokenUnfreeze:
		st = &TokenUnfreezeTransition{}
	case TransitionTokenEmergencyAction:
		st = &TokenEmergencyActionTransition{}
	case TransitionTokenDestroyFrozenFunds:
		st = &TokenDestroyFrozenFundsTransition{}
	case TransitionTokenRelease:
		st = &TokenReleaseTransition{}
	default:
		return nil, UnknownTransitionKindError{Kind: env.Kind}
	}

	if err := decMode.Unmarshal(env.Payload, st); err != nil {
		return nil, fmt.Errorf("malformed %s transition: %w", env.Kind, err)
	}
	return st, nil
}

// EncodeTransition serializes a transition into the wire envelope.
func EncodeTransition(st StateTransition) ([]byte, error) {
	payload, err := encMode.Marshal(st)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(envelope{Kind: st.Kind(), Payload: payload})
}

// marshalSignable serializes the envelope of a signature-cleared transition
// copy. Every SignableBytes implementation routes through here.
func marshalSignable(kind TransitionKind, payload interface{}) ([]byte, error) {
	return encMode.Marshal(signableEnvelope{Kind: kind, Payload: payload})
}
