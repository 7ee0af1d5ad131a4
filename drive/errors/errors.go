// Package errors defines the consensus error taxonomy of the execution
// pipeline. A CodedError rejects one transition and is reported back through
// the consensus result channel; a Failure means the node cannot safely
// continue and aborts the block.
package errors

import (
	goerrors "errors"
	"fmt"
)

// CodedError is a consensus-visible rejection with a stable numeric code.
type CodedError interface {
	error
	Code() ErrorCode
}

// Failure is a fatal node-level error. It must never be converted into a
// transition rejection: treating a local fault as a rejection would make
// this node diverge from the network.
type Failure interface {
	error
	FailureCode() FailureCode
}

type codedError struct {
	code ErrorCode
	msg  string
}

// NewCodedError constructs a CodedError with a formatted message. Errors
// that carry structured fields get their own type instead.
func NewCodedError(code ErrorCode, format string, args ...interface{}) CodedError {
	return codedError{code: code, msg: fmt.Sprintf(format, args...)}
}

func (e codedError) Error() string {
	return fmt.Sprintf("%s %s", e.code.String(), e.msg)
}

func (e codedError) Code() ErrorCode { return e.code }

// HasErrorCode reports whether err (or anything it wraps) is a CodedError
// with the given code.
func HasErrorCode(err error, code ErrorCode) bool {
	coded := AsCodedError(err)
	return coded != nil && coded.Code() == code
}

// AsCodedError extracts the CodedError from err's chain, nil if none.
func AsCodedError(err error) CodedError {
	var coded CodedError
	if goerrors.As(err, &coded) {
		return coded
	}
	return nil
}

// SplitErrorTypes partitions any error produced by pipeline processing into
// a consensus-visible rejection and a fatal failure. Exactly one of the
// returns is non-nil for a non-nil input. Unrecognized errors are fatal:
// guessing a rejection code for an unknown error could diverge from other
// nodes.
func SplitErrorTypes(err error) (CodedError, error) {
	if err == nil {
		return nil, nil
	}

	var failure Failure
	if goerrors.As(err, &failure) {
		return nil, err
	}

	if coded := AsCodedError(err); coded != nil {
		return coded, nil
	}

	return nil, NewUnknownFailure(err)
}
