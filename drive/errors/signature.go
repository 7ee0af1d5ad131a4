package errors

import (
	"fmt"

	"github.com/dashpay/platform-engine/model/platform"
)

// IdentityNotFoundError rejects a transition whose owner identity does not
// exist in state. Distinct from MissingPublicKeyError on purpose: the two
// are different consensus error codes and must never be collapsed.
type IdentityNotFoundError struct {
	IdentityID platform.Identifier
}

func (e IdentityNotFoundError) Error() string {
	return fmt.Sprintf("%s identity %s not found", e.Code().String(), e.IdentityID)
}

func (e IdentityNotFoundError) Code() ErrorCode { return ErrCodeIdentityNotFoundError }

// MissingPublicKeyError rejects a transition referencing a key id the owner
// identity does not have.
type MissingPublicKeyError struct {
	IdentityID platform.Identifier
	KeyID      platform.KeyID
}

func (e MissingPublicKeyError) Error() string {
	return fmt.Sprintf(
		"%s public key %d not found on identity %s",
		e.Code().String(), e.KeyID, e.IdentityID)
}

func (e MissingPublicKeyError) Code() ErrorCode { return ErrCodeMissingPublicKeyError }

// InvalidIdentityPublicKeyTypeError rejects signing with a key type outside
// the supported allow-list.
type InvalidIdentityPublicKeyTypeError struct {
	KeyType platform.KeyType
}

func (e InvalidIdentityPublicKeyTypeError) Error() string {
	return fmt.Sprintf(
		"%s key type %s is not supported for state transition signing",
		e.Code().String(), e.KeyType)
}

func (e InvalidIdentityPublicKeyTypeError) Code() ErrorCode {
	return ErrCodeInvalidIdentityPublicKeyTypeError
}

// PublicKeySecurityLevelNotMetError rejects a key weaker than the
// transition's declared minimum.
type PublicKeySecurityLevelNotMetError struct {
	KeySecurityLevel      platform.SecurityLevel
	RequiredSecurityLevel platform.SecurityLevel
}

func (e PublicKeySecurityLevelNotMetError) Error() string {
	return fmt.Sprintf(
		"%s key security level %s does not meet required level %s",
		e.Code().String(), e.KeySecurityLevel, e.RequiredSecurityLevel)
}

func (e PublicKeySecurityLevelNotMetError) Code() ErrorCode {
	return ErrCodePublicKeySecurityLevelNotMetError
}

// PublicKeyIsDisabledError rejects signing with a disabled key.
type PublicKeyIsDisabledError struct {
	KeyID platform.KeyID
}

func (e PublicKeyIsDisabledError) Error() string {
	return fmt.Sprintf("%s public key %d is disabled", e.Code().String(), e.KeyID)
}

func (e PublicKeyIsDisabledError) Code() ErrorCode { return ErrCodePublicKeyIsDisabledError }

// InvalidStateTransitionSignatureError rejects a signature that failed
// cryptographic verification. The underlying crypto error is deliberately
// not included: its text must not leak into consensus state.
type InvalidStateTransitionSignatureError struct{}

func (e InvalidStateTransitionSignatureError) Error() string {
	return fmt.Sprintf("%s state transition signature is invalid", e.Code().String())
}

func (e InvalidStateTransitionSignatureError) Code() ErrorCode {
	return ErrCodeInvalidStateTransitionSignatureError
}

// InvalidPublicKeyPurposeError rejects a key whose purpose does not match
// what the transition requires (e.g. transfer for credit movements).
type InvalidPublicKeyPurposeError struct {
	KeyPurpose      platform.KeyPurpose
	RequiredPurpose platform.KeyPurpose
}

func (e InvalidPublicKeyPurposeError) Error() string {
	return fmt.Sprintf(
		"%s key purpose %d does not match required purpose %d",
		e.Code().String(), e.KeyPurpose, e.RequiredPurpose)
}

func (e InvalidPublicKeyPurposeError) Code() ErrorCode { return ErrCodeInvalidPublicKeyPurposeError }
