// Package actions defines the canonical, fully resolved mutations derived
// from validated state transitions. An action differs from its transition in
// that all late-bound references are resolved to concrete identifiers: a
// mint destination is a real identity id, a distribution recipient is one of
// a closed set of resolved variants, and group bookkeeping is attached.
// Actions live only for the processing of one transition inside one block.
package actions

import "github.com/dashpay/platform-engine/model/platform"

// Kind tags the variant of an action. Document actions carry a sub-action
// (create, replace, delete) of their own; the kind stays DocumentOperation
// for trigger dispatch.
type Kind uint8

const (
	KindContractCreate Kind = iota
	KindContractUpdate
	KindDocumentCreate
	KindDocumentReplace
	KindDocumentDelete
	KindIdentityCreate
	KindIdentityTopUp
	KindIdentityUpdate
	KindCreditTransfer
	KindCreditWithdrawal
	KindMasternodeVote
	KindTokenMint
	KindTokenBurn
	KindTokenTransfer
	KindTokenFreeze
	KindTokenUnfreeze
	KindTokenEmergencyAction
	KindTokenDestroyFrozenFunds
	KindTokenRelease
)

func (k Kind) String() string {
	switch k {
	case KindContractCreate:
		return "contractCreate"
	case KindContractUpdate:
		return "contractUpdate"
	case KindDocumentCreate:
		return "documentCreate"
	case KindDocumentReplace:
		return "documentReplace"
	case KindDocumentDelete:
		return "documentDelete"
	case KindIdentityCreate:
		return "identityCreate"
	case KindIdentityTopUp:
		return "identityTopUp"
	case KindIdentityUpdate:
		return "identityUpdate"
	case KindCreditTransfer:
		return "creditTransfer"
	case KindCreditWithdrawal:
		return "creditWithdrawal"
	case KindMasternodeVote:
		return "masternodeVote"
	case KindTokenMint:
		return "tokenMint"
	case KindTokenBurn:
		return "tokenBurn"
	case KindTokenTransfer:
		return "tokenTransfer"
	case KindTokenFreeze:
		return "tokenFreeze"
	case KindTokenUnfreeze:
		return "tokenUnfreeze"
	case KindTokenEmergencyAction:
		return "tokenEmergencyAction"
	case KindTokenDestroyFrozenFunds:
		return "tokenDestroyFrozenFunds"
	case KindTokenRelease:
		return "tokenRelease"
	default:
		return "unknown"
	}
}

// Action is one resolved mutation ready for trigger dispatch and execution.
type Action interface {
	Kind() Kind
	OwnerID() platform.Identifier
}

// ContractCreateAction registers a new data contract and seeds the base
// supply of every token it defines.
type ContractCreateAction struct {
	Contract *platform.DataContract
}

func (a *ContractCreateAction) Kind() Kind                   { return KindContractCreate }
func (a *ContractCreateAction) OwnerID() platform.Identifier { return a.Contract.OwnerID }

// ContractUpdateAction replaces a stored contract with its next version.
type ContractUpdateAction struct {
	Contract *platform.DataContract
}

func (a *ContractUpdateAction) Kind() Kind                   { return KindContractUpdate }
func (a *ContractUpdateAction) OwnerID() platform.Identifier { return a.Contract.OwnerID }

// IdentityCreateAction registers an identity funded by a consumed asset lock.
type IdentityCreateAction struct {
	IdentityID platform.Identifier
	PublicKeys []platform.IdentityPublicKey
	Credits    platform.Credits
	OutPoint   []byte
}

func (a *IdentityCreateAction) Kind() Kind                   { return KindIdentityCreate }
func (a *IdentityCreateAction) OwnerID() platform.Identifier { return a.IdentityID }

// IdentityTopUpAction credits an identity from a consumed asset lock.
type IdentityTopUpAction struct {
	IdentityID platform.Identifier
	Credits    platform.Credits
	OutPoint   []byte
}

func (a *IdentityTopUpAction) Kind() Kind                   { return KindIdentityTopUp }
func (a *IdentityTopUpAction) OwnerID() platform.Identifier { return a.IdentityID }

// IdentityUpdateAction adds and disables identity keys at a new revision.
type IdentityUpdateAction struct {
	IdentityID platform.Identifier
	Revision   uint64
	Add        []platform.IdentityPublicKey
	Disable    []platform.KeyID
}

func (a *IdentityUpdateAction) Kind() Kind                   { return KindIdentityUpdate }
func (a *IdentityUpdateAction) OwnerID() platform.Identifier { return a.IdentityID }

// CreditTransferAction moves credits between two identities.
type CreditTransferAction struct {
	SenderID    platform.Identifier
	RecipientID platform.Identifier
	Amount      platform.Credits
}

func (a *CreditTransferAction) Kind() Kind                   { return KindCreditTransfer }
func (a *CreditTransferAction) OwnerID() platform.Identifier { return a.SenderID }

// CreditWithdrawalAction burns credits and queues a core-chain payout.
type CreditWithdrawalAction struct {
	IdentityID     platform.Identifier
	Amount         platform.Credits
	CoreFeePerByte uint32
	OutputScript   []byte
	Nonce          platform.Nonce
}

func (a *CreditWithdrawalAction) Kind() Kind                   { return KindCreditWithdrawal }
func (a *CreditWithdrawalAction) OwnerID() platform.Identifier { return a.IdentityID }

// MasternodeVoteAction records a vote in a started vote poll.
type MasternodeVoteAction struct {
	ProTxHash  platform.Identifier
	VoterID    platform.Identifier
	VotePollID platform.Identifier
	Choice     platform.ResourceVoteChoice
}

func (a *MasternodeVoteAction) Kind() Kind                   { return KindMasternodeVote }
func (a *MasternodeVoteAction) OwnerID() platform.Identifier { return a.VoterID }
