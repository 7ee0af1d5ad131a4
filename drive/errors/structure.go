package errors

import (
	"fmt"

	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// NewStateTransitionDecodingError rejects a buffer that did not decode into
// any known transition variant.
func NewStateTransitionDecodingError(err error) CodedError {
	return NewCodedError(
		ErrCodeStateTransitionDecodingError,
		"state transition could not be decoded: %s",
		err)
}

// NewUnsupportedProtocolVersionError rejects a transition declaring a
// protocol version the rule registry does not know.
func NewUnsupportedProtocolVersionError(received uint32, known []uint32) CodedError {
	return NewCodedError(
		ErrCodeUnsupportedProtocolVersionError,
		"protocol version %d is not supported, known versions %v",
		received, known)
}

// NewMissingRequiredFieldError rejects a transition with an absent or empty
// required field.
func NewMissingRequiredFieldError(field string) CodedError {
	return NewCodedError(
		ErrCodeMissingRequiredFieldError,
		"required field %q is missing or empty",
		field)
}

// NewValueOutOfBoundsError rejects a declared size or count beyond protocol
// maxima.
func NewValueOutOfBoundsError(field string, value, max uint64) CodedError {
	return NewCodedError(
		ErrCodeValueOutOfBoundsError,
		"field %q value %d exceeds maximum %d",
		field, value, max)
}

// InvalidContractIDError rejects a contract create whose embedded id does
// not match the deterministically derived one.
type InvalidContractIDError struct {
	Expected platform.Identifier
	Received platform.Identifier
}

func (e InvalidContractIDError) Error() string {
	return fmt.Sprintf(
		"%s data contract id is invalid: expected %s, got %s",
		e.Code().String(), e.Expected, e.Received)
}

func (e InvalidContractIDError) Code() ErrorCode { return ErrCodeInvalidContractIDError }

// NewMaxDocumentsInBatchExceededError rejects an oversized document batch.
func NewMaxDocumentsInBatchExceededError(count, max int) CodedError {
	return NewCodedError(
		ErrCodeMaxDocumentsInBatchExceededError,
		"documents batch contains %d transitions, maximum is %d",
		count, max)
}

// NewInvalidAssetLockProofError rejects a malformed asset lock proof.
func NewInvalidAssetLockProofError(msg string, args ...interface{}) CodedError {
	return NewCodedError(
		ErrCodeInvalidAssetLockProofError,
		"asset lock proof is invalid: "+msg,
		args...)
}

// UnknownVersionMismatchError rejects a transition whose active protocol
// version has no registered rule for a required method. It is never
// defaulted to the latest known rule.
type UnknownVersionMismatchError struct {
	Method        string
	KnownVersions []version.RuleVersion
	Received      uint32
}

func (e UnknownVersionMismatchError) Error() string {
	return fmt.Sprintf(
		"%s version mismatch for %q: received protocol version %d, known rule versions %v",
		e.Code().String(), e.Method, e.Received, e.KnownVersions)
}

func (e UnknownVersionMismatchError) Code() ErrorCode { return ErrCodeUnknownVersionMismatchError }

// WrapVersionError converts registry errors into their consensus-visible
// form, passing through anything else untouched.
func WrapVersionError(err error) error {
	switch v := err.(type) {
	case version.UnknownVersionMismatchError:
		return UnknownVersionMismatchError{
			Method:        v.Method,
			KnownVersions: v.KnownVersions,
			Received:      v.Received,
		}
	case version.UnknownProtocolVersionError:
		return NewUnsupportedProtocolVersionError(v.Received, v.Known)
	default:
		return err
	}
}
