package errors

import "fmt"

// UnknownFailure wraps an error no other category claimed.
type UnknownFailure struct {
	err error
}

func NewUnknownFailure(err error) *UnknownFailure {
	return &UnknownFailure{err: err}
}

func (e *UnknownFailure) Error() string {
	return fmt.Sprintf("%s unknown failure: %s", e.FailureCode().String(), e.err.Error())
}

func (e *UnknownFailure) FailureCode() FailureCode { return FailureCodeUnknownFailure }

func (e *UnknownFailure) Unwrap() error { return e.err }

// StorageFailure wraps a storage-layer error. Storage errors indicate local
// corruption and must stop the node rather than produce a possibly divergent
// result.
type StorageFailure struct {
	err error
}

func NewStorageFailure(err error) *StorageFailure {
	return &StorageFailure{err: err}
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("%s storage failure: %s", e.FailureCode().String(), e.err.Error())
}

func (e *StorageFailure) FailureCode() FailureCode { return FailureCodeStorageFailure }

func (e *StorageFailure) Unwrap() error { return e.err }

// EncodingFailure wraps a serialization error on data the node itself wrote.
type EncodingFailure struct {
	err error
}

func NewEncodingFailure(err error) *EncodingFailure {
	return &EncodingFailure{err: err}
}

func (e *EncodingFailure) Error() string {
	return fmt.Sprintf("%s encoding failure: %s", e.FailureCode().String(), e.err.Error())
}

func (e *EncodingFailure) FailureCode() FailureCode { return FailureCodeEncodingFailure }

func (e *EncodingFailure) Unwrap() error { return e.err }

// CorruptedStateFailure indicates stored state violates an invariant that
// can only be broken by local corruption, e.g. a balance record that must
// exist but does not.
type CorruptedStateFailure struct {
	msg string
}

func NewCorruptedStateFailure(format string, args ...interface{}) *CorruptedStateFailure {
	return &CorruptedStateFailure{msg: fmt.Sprintf(format, args...)}
}

func (e *CorruptedStateFailure) Error() string {
	return fmt.Sprintf("%s corrupted state: %s", e.FailureCode().String(), e.msg)
}

func (e *CorruptedStateFailure) FailureCode() FailureCode { return FailureCodeCorruptedStateFailure }
