package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

func TestSplitErrorTypesNil(t *testing.T) {
	coded, fatal := SplitErrorTypes(nil)
	assert.Nil(t, coded)
	assert.Nil(t, fatal)
}

func TestSplitErrorTypesCoded(t *testing.T) {
	err := NewDataContractNotFoundError(platform.Identifier{1})
	coded, fatal := SplitErrorTypes(err)
	require.NotNil(t, coded)
	assert.Nil(t, fatal)
	assert.Equal(t, ErrCodeDataContractNotFoundError, coded.Code())
}

func TestSplitErrorTypesWrappedCoded(t *testing.T) {
	inner := InvalidDataContractVersionError{Expected: 4, Received: 5}
	wrapped := fmt.Errorf("contract update failed: %w", inner)

	coded, fatal := SplitErrorTypes(wrapped)
	require.NotNil(t, coded)
	assert.Nil(t, fatal)
	assert.Equal(t, ErrCodeInvalidDataContractVersionError, coded.Code())
}

func TestSplitErrorTypesFailure(t *testing.T) {
	err := NewStorageFailure(fmt.Errorf("disk corruption"))
	coded, fatal := SplitErrorTypes(err)
	assert.Nil(t, coded)
	require.NotNil(t, fatal)
}

func TestSplitErrorTypesUnknownIsFatal(t *testing.T) {
	// an unrecognized error must never become a rejection
	coded, fatal := SplitErrorTypes(fmt.Errorf("who knows"))
	assert.Nil(t, coded)
	require.NotNil(t, fatal)

	var failure Failure
	require.ErrorAs(t, fatal, &failure)
	assert.Equal(t, FailureCodeUnknownFailure, failure.FailureCode())
}

func TestHasErrorCode(t *testing.T) {
	err := IdentityTokenAccountNotFrozenError{
		TokenID:    platform.Identifier{1},
		IdentityID: platform.Identifier{2},
	}
	assert.True(t, HasErrorCode(err, ErrCodeIdentityTokenAccountNotFrozenError))
	assert.False(t, HasErrorCode(err, ErrCodeIdentityTokenAccountFrozenError))
}

func TestWrapVersionError(t *testing.T) {
	src := version.UnknownVersionMismatchError{
		Method:        "stateTransition.tokenMint.state",
		KnownVersions: []version.RuleVersion{0},
		Received:      1,
	}

	wrapped := WrapVersionError(src)
	coded, fatal := SplitErrorTypes(wrapped)
	require.NotNil(t, coded)
	assert.Nil(t, fatal)
	assert.Equal(t, ErrCodeUnknownVersionMismatchError, coded.Code())
}
