package errors

import "fmt"

// ErrorCode identifies a consensus-visible rejection reason. Codes are part
// of consensus state: they must be stable across releases and identical on
// every node.
type ErrorCode uint16

func (ec ErrorCode) String() string {
	return fmt.Sprintf("[Error Code: %d]", ec)
}

// FailureCode identifies a fatal node-level failure. Failures are never
// surfaced as transition rejections; they stop block processing.
type FailureCode uint16

func (fc FailureCode) String() string {
	return fmt.Sprintf("[Failure Code: %d]", fc)
}

const (
	// structural errors 1000 - 1099
	ErrCodeStateTransitionDecodingError       ErrorCode = 1000
	ErrCodeUnsupportedProtocolVersionError    ErrorCode = 1001
	ErrCodeMissingRequiredFieldError          ErrorCode = 1002
	ErrCodeValueOutOfBoundsError              ErrorCode = 1003
	ErrCodeInvalidContractIDError             ErrorCode = 1004
	ErrCodeMaxDocumentsInBatchExceededError   ErrorCode = 1005
	ErrCodeInvalidAssetLockProofError         ErrorCode = 1006
	ErrCodeInvalidDocumentIDError             ErrorCode = 1007
	ErrCodeDuplicatedIdentityPublicKeyIDError ErrorCode = 1008

	// version dispatch errors 1100 - 1199
	ErrCodeUnknownVersionMismatchError ErrorCode = 1100

	// signature errors 2000 - 2099
	ErrCodeIdentityNotFoundError                ErrorCode = 2000
	ErrCodeMissingPublicKeyError                ErrorCode = 2001
	ErrCodeInvalidIdentityPublicKeyTypeError    ErrorCode = 2002
	ErrCodePublicKeySecurityLevelNotMetError    ErrorCode = 2003
	ErrCodePublicKeyIsDisabledError             ErrorCode = 2004
	ErrCodeInvalidStateTransitionSignatureError ErrorCode = 2005
	ErrCodeInvalidPublicKeyPurposeError         ErrorCode = 2006

	// fee errors 3000 - 3099
	ErrCodeInsufficientBalanceError ErrorCode = 3000

	// state errors 4000 - 4499
	ErrCodeDataContractNotFoundError                ErrorCode = 4000
	ErrCodeDataContractAlreadyExistsError           ErrorCode = 4001
	ErrCodeInvalidDataContractVersionError          ErrorCode = 4002
	ErrCodeDocumentNotFoundError                    ErrorCode = 4003
	ErrCodeDocumentAlreadyExistsError               ErrorCode = 4004
	ErrCodeDocumentOwnerMismatchError               ErrorCode = 4005
	ErrCodeInvalidDocumentRevisionError             ErrorCode = 4006
	ErrCodeDuplicateUniqueIndexError                ErrorCode = 4007
	ErrCodeDocumentTypeNotFoundError                ErrorCode = 4008
	ErrCodeDocumentNotMutableError                  ErrorCode = 4009
	ErrCodeIdentityAlreadyExistsError               ErrorCode = 4010
	ErrCodeIdentityNotFoundStateError               ErrorCode = 4011
	ErrCodeInvalidIdentityRevisionError             ErrorCode = 4012
	ErrCodeInvalidNonceError                        ErrorCode = 4013
	ErrCodeAssetLockAlreadySpentError               ErrorCode = 4014
	ErrCodeCoreChainLockedHeightOutOfBoundsError    ErrorCode = 4015
	ErrCodeRecipientIdentityNotFoundError           ErrorCode = 4016
	ErrCodeDataContractUpdatePermissionError        ErrorCode = 4017
	ErrCodeTokenNotFoundError                       ErrorCode = 4020
	ErrCodeIdentityInsufficientTokenBalanceError    ErrorCode = 4021
	ErrCodeIdentityTokenAccountFrozenError          ErrorCode = 4022
	ErrCodeIdentityTokenAccountNotFrozenError       ErrorCode = 4023
	ErrCodeTokenIsPausedError                       ErrorCode = 4024
	ErrCodeTokenMintPastMaxSupplyError              ErrorCode = 4025
	ErrCodeDestinationIdentityForMintingNotSetError ErrorCode = 4026
	ErrCodeUnauthorizedTokenActionError             ErrorCode = 4027
	ErrCodeUnsupportedDistributionRecipientError    ErrorCode = 4028
	ErrCodeNothingToReleaseError                    ErrorCode = 4029
	ErrCodeGroupNotFoundError                       ErrorCode = 4030
	ErrCodeGroupActionNotFoundError                 ErrorCode = 4031
	ErrCodeGroupActionAlreadySignedError            ErrorCode = 4032
	ErrCodeGroupActionContentMismatchError          ErrorCode = 4033
	ErrCodeVotePollNotFoundError                    ErrorCode = 4040
	ErrCodeVotePollNotAvailableForVotingError       ErrorCode = 4041
	ErrCodeMasternodeVoteAlreadyCastError           ErrorCode = 4042

	// data trigger errors 4500 - 4599
	ErrCodeDataTriggerExecutionError ErrorCode = 4500
)

const (
	FailureCodeUnknownFailure        FailureCode = 9000
	FailureCodeStorageFailure        FailureCode = 9001
	FailureCodeEncodingFailure       FailureCode = 9002
	FailureCodeCorruptedStateFailure FailureCode = 9003
)
