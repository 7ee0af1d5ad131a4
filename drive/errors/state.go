package errors

import (
	"fmt"

	"github.com/dashpay/platform-engine/model/platform"
)

// InsufficientBalanceError fails fee settlement when the payer cannot cover
// the required portion of the fee.
type InsufficientBalanceError struct {
	IdentityID platform.Identifier
	Balance    platform.Credits
	Required   platform.Credits
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"%s identity %s balance %d is insufficient, required %d",
		e.Code().String(), e.IdentityID, e.Balance, e.Required)
}

func (e InsufficientBalanceError) Code() ErrorCode { return ErrCodeInsufficientBalanceError }

// NewDataContractNotFoundError rejects a reference to a contract that does
// not exist. A missing referenced entity is always a rejection, never a
// panic or a default value.
func NewDataContractNotFoundError(contractID platform.Identifier) CodedError {
	return NewCodedError(
		ErrCodeDataContractNotFoundError,
		"data contract %s not found", contractID)
}

func NewDataContractAlreadyExistsError(contractID platform.Identifier) CodedError {
	return NewCodedError(
		ErrCodeDataContractAlreadyExistsError,
		"data contract %s already exists", contractID)
}

// NewDataContractUpdatePermissionError rejects a contract update submitted
// by anyone but the contract owner.
func NewDataContractUpdatePermissionError(contractID, actorID platform.Identifier) CodedError {
	return NewCodedError(
		ErrCodeDataContractUpdatePermissionError,
		"identity %s may not update data contract %s", actorID, contractID)
}

// InvalidDataContractVersionError rejects a contract update whose version is
// not the stored version plus exactly one.
type InvalidDataContractVersionError struct {
	Expected uint32
	Received uint32
}

func (e InvalidDataContractVersionError) Error() string {
	return fmt.Sprintf(
		"%s data contract version is invalid: expected %d, received %d",
		e.Code().String(), e.Expected, e.Received)
}

func (e InvalidDataContractVersionError) Code() ErrorCode {
	return ErrCodeInvalidDataContractVersionError
}

func NewDocumentNotFoundError(documentID platform.Identifier) CodedError {
	return NewCodedError(ErrCodeDocumentNotFoundError, "document %s not found", documentID)
}

func NewDocumentAlreadyExistsError(documentID platform.Identifier) CodedError {
	return NewCodedError(ErrCodeDocumentAlreadyExistsError, "document %s already exists", documentID)
}

func NewDocumentOwnerMismatchError(documentID, ownerID, actorID platform.Identifier) CodedError {
	return NewCodedError(
		ErrCodeDocumentOwnerMismatchError,
		"document %s belongs to %s, not %s", documentID, ownerID, actorID)
}

// InvalidDocumentRevisionError rejects a replace or delete with a stale
// revision.
type InvalidDocumentRevisionError struct {
	DocumentID       platform.Identifier
	CurrentRevision  uint64
	ReceivedRevision uint64
}

func (e InvalidDocumentRevisionError) Error() string {
	return fmt.Sprintf(
		"%s document %s revision is invalid: current %d, received %d",
		e.Code().String(), e.DocumentID, e.CurrentRevision, e.ReceivedRevision)
}

func (e InvalidDocumentRevisionError) Code() ErrorCode { return ErrCodeInvalidDocumentRevisionError }

func NewDuplicateUniqueIndexError(documentID platform.Identifier, index string) CodedError {
	return NewCodedError(
		ErrCodeDuplicateUniqueIndexError,
		"document %s violates unique index %q", documentID, index)
}

func NewDocumentTypeNotFoundError(contractID platform.Identifier, docType string) CodedError {
	return NewCodedError(
		ErrCodeDocumentTypeNotFoundError,
		"document type %q not found on contract %s", docType, contractID)
}

func NewDocumentNotMutableError(contractID platform.Identifier, docType string) CodedError {
	return NewCodedError(
		ErrCodeDocumentNotMutableError,
		"documents of type %q on contract %s cannot be changed", docType, contractID)
}

func NewIdentityAlreadyExistsError(identityID platform.Identifier) CodedError {
	return NewCodedError(ErrCodeIdentityAlreadyExistsError, "identity %s already exists", identityID)
}

// NewIdentityNotFoundStateError rejects a state-stage reference to a missing
// identity (e.g. a transfer recipient); signature-stage owner resolution
// uses IdentityNotFoundError instead.
func NewIdentityNotFoundStateError(identityID platform.Identifier) CodedError {
	return NewCodedError(ErrCodeIdentityNotFoundStateError, "identity %s not found", identityID)
}

type InvalidIdentityRevisionError struct {
	IdentityID       platform.Identifier
	CurrentRevision  uint64
	ReceivedRevision uint64
}

func (e InvalidIdentityRevisionError) Error() string {
	return fmt.Sprintf(
		"%s identity %s revision is invalid: current %d, received %d",
		e.Code().String(), e.IdentityID, e.CurrentRevision, e.ReceivedRevision)
}

func (e InvalidIdentityRevisionError) Code() ErrorCode { return ErrCodeInvalidIdentityRevisionError }

// InvalidNonceError rejects a stale or reused nonce.
type InvalidNonceError struct {
	IdentityID    platform.Identifier
	CurrentNonce  platform.Nonce
	ReceivedNonce platform.Nonce
}

func (e InvalidNonceError) Error() string {
	return fmt.Sprintf(
		"%s identity %s nonce is invalid: current %d, received %d",
		e.Code().String(), e.IdentityID, e.CurrentNonce, e.ReceivedNonce)
}

func (e InvalidNonceError) Code() ErrorCode { return ErrCodeInvalidNonceError }

func NewAssetLockAlreadySpentError() CodedError {
	return NewCodedError(ErrCodeAssetLockAlreadySpentError, "asset lock outpoint was already spent")
}

// CoreChainLockedHeightOutOfBoundsError rejects an asset lock proof whose
// core height is above the best chain-locked height this platform has seen.
type CoreChainLockedHeightOutOfBoundsError struct {
	Requested uint32
	Best      uint32
}

func (e CoreChainLockedHeightOutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"%s core chain locked height %d is out of bounds, best is %d",
		e.Code().String(), e.Requested, e.Best)
}

func (e CoreChainLockedHeightOutOfBoundsError) Code() ErrorCode {
	return ErrCodeCoreChainLockedHeightOutOfBoundsError
}

func NewRecipientIdentityNotFoundError(identityID platform.Identifier) CodedError {
	return NewCodedError(
		ErrCodeRecipientIdentityNotFoundError,
		"recipient identity %s not found", identityID)
}

func NewTokenNotFoundError(contractID platform.Identifier, position platform.TokenPosition) CodedError {
	return NewCodedError(
		ErrCodeTokenNotFoundError,
		"contract %s has no token at position %d", contractID, position)
}

// IdentityInsufficientTokenBalanceError rejects a token operation the payer
// cannot cover, carrying required vs available amounts.
type IdentityInsufficientTokenBalanceError struct {
	TokenID    platform.Identifier
	IdentityID platform.Identifier
	Required   platform.TokenAmount
	Available  platform.TokenAmount
}

func (e IdentityInsufficientTokenBalanceError) Error() string {
	return fmt.Sprintf(
		"%s identity %s token %s balance is insufficient: required %d, available %d",
		e.Code().String(), e.IdentityID, e.TokenID, e.Required, e.Available)
}

func (e IdentityInsufficientTokenBalanceError) Code() ErrorCode {
	return ErrCodeIdentityInsufficientTokenBalanceError
}

// IdentityTokenAccountFrozenError rejects an operation on a frozen token
// account, naming the operation that was attempted.
type IdentityTokenAccountFrozenError struct {
	TokenID    platform.Identifier
	IdentityID platform.Identifier
	Operation  string
}

func (e IdentityTokenAccountFrozenError) Error() string {
	return fmt.Sprintf(
		"%s identity %s token %s account is frozen, cannot %s",
		e.Code().String(), e.IdentityID, e.TokenID, e.Operation)
}

func (e IdentityTokenAccountFrozenError) Code() ErrorCode {
	return ErrCodeIdentityTokenAccountFrozenError
}

// IdentityTokenAccountNotFrozenError rejects destroy-frozen-funds against an
// account that is not frozen.
type IdentityTokenAccountNotFrozenError struct {
	TokenID    platform.Identifier
	IdentityID platform.Identifier
}

func (e IdentityTokenAccountNotFrozenError) Error() string {
	return fmt.Sprintf(
		"%s identity %s token %s account is not frozen",
		e.Code().String(), e.IdentityID, e.TokenID)
}

func (e IdentityTokenAccountNotFrozenError) Code() ErrorCode {
	return ErrCodeIdentityTokenAccountNotFrozenError
}

func NewTokenIsPausedError(tokenID platform.Identifier) CodedError {
	return NewCodedError(ErrCodeTokenIsPausedError, "token %s is paused", tokenID)
}

type TokenMintPastMaxSupplyError struct {
	TokenID   platform.Identifier
	Requested platform.TokenAmount
	MaxSupply platform.TokenAmount
}

func (e TokenMintPastMaxSupplyError) Error() string {
	return fmt.Sprintf(
		"%s minting %d of token %s would exceed max supply %d",
		e.Code().String(), e.Requested, e.TokenID, e.MaxSupply)
}

func (e TokenMintPastMaxSupplyError) Code() ErrorCode { return ErrCodeTokenMintPastMaxSupplyError }

// DestinationIdentityForMintingNotSetError rejects a mint with neither an
// explicit destination nor a configured default.
type DestinationIdentityForMintingNotSetError struct {
	TokenID platform.Identifier
}

func (e DestinationIdentityForMintingNotSetError) Error() string {
	return fmt.Sprintf(
		"%s token %s has no minting destination: none given and none configured",
		e.Code().String(), e.TokenID)
}

func (e DestinationIdentityForMintingNotSetError) Code() ErrorCode {
	return ErrCodeDestinationIdentityForMintingNotSetError
}

func NewUnauthorizedTokenActionError(tokenID, actorID platform.Identifier, action string) CodedError {
	return NewCodedError(
		ErrCodeUnauthorizedTokenActionError,
		"identity %s is not authorized to %s on token %s", actorID, action, tokenID)
}

func NewUnsupportedDistributionRecipientError(kind string) CodedError {
	return NewCodedError(
		ErrCodeUnsupportedDistributionRecipientError,
		"distribution recipient %s is not supported under simple resolve", kind)
}

func NewNothingToReleaseError(tokenID platform.Identifier) CodedError {
	return NewCodedError(ErrCodeNothingToReleaseError, "token %s has no accrued distribution to release", tokenID)
}

func NewGroupNotFoundError(contractID platform.Identifier, position platform.GroupPosition) CodedError {
	return NewCodedError(
		ErrCodeGroupNotFoundError,
		"contract %s has no group at position %d", contractID, position)
}

func NewGroupActionNotFoundError(actionID platform.Identifier) CodedError {
	return NewCodedError(ErrCodeGroupActionNotFoundError, "group action %s not found", actionID)
}

func NewGroupActionAlreadySignedError(actionID, signerID platform.Identifier) CodedError {
	return NewCodedError(
		ErrCodeGroupActionAlreadySignedError,
		"identity %s already signed group action %s", signerID, actionID)
}

func NewGroupActionContentMismatchError(actionID platform.Identifier) CodedError {
	return NewCodedError(
		ErrCodeGroupActionContentMismatchError,
		"group action %s was proposed with different parameters", actionID)
}

// VotePollNotFoundError rejects a vote on a poll that does not exist,
// distinct from a poll that exists in the wrong status.
type VotePollNotFoundError struct {
	VotePollID platform.Identifier
}

func (e VotePollNotFoundError) Error() string {
	return fmt.Sprintf("%s vote poll %s not found", e.Code().String(), e.VotePollID)
}

func (e VotePollNotFoundError) Code() ErrorCode { return ErrCodeVotePollNotFoundError }

// VotePollNotAvailableForVotingError rejects a vote on a poll that exists
// but is not in the started status, carrying the current status.
type VotePollNotAvailableForVotingError struct {
	VotePollID platform.Identifier
	Status     platform.VotePollStatus
}

func (e VotePollNotAvailableForVotingError) Error() string {
	return fmt.Sprintf(
		"%s vote poll %s is not available for voting: status is %s",
		e.Code().String(), e.VotePollID, e.Status)
}

func (e VotePollNotAvailableForVotingError) Code() ErrorCode {
	return ErrCodeVotePollNotAvailableForVotingError
}

func NewMasternodeVoteAlreadyCastError(voterID, votePollID platform.Identifier) CodedError {
	return NewCodedError(
		ErrCodeMasternodeVoteAlreadyCastError,
		"masternode %s already voted in poll %s", voterID, votePollID)
}
