// Package fees prices the work a state transition performs and settles the
// outcome against the paying identity's balance. Costs are consensus
// constants: every node must price the same operations identically.
package fees

import (
	"github.com/dashpay/platform-engine/model/platform"
)

// Consensus fee constants, in credits.
const (
	creditsPerByteRead     platform.Credits = 10
	creditsPerByteStored   platform.Credits = 270
	creditsPerByteRefunded platform.Credits = 180
	baseProcessingCost     platform.Credits = 2000
	verifyCostECDSA        platform.Credits = 30000
	verifyCostBLS          platform.Credits = 120000
	verifyCostECDSAHash160 platform.Credits = 34000
)

// Operation is one unit of fee-relevant work recorded during validation or
// execution.
type Operation interface {
	ProcessingCost() platform.Credits
	StorageCost() platform.Credits
}

// ReadOperation prices a state fetch by the bytes it touched.
type ReadOperation struct {
	BytesRead uint64
}

func (op ReadOperation) ProcessingCost() platform.Credits {
	return baseProcessingCost + platform.Credits(op.BytesRead)*creditsPerByteRead
}

func (op ReadOperation) StorageCost() platform.Credits { return 0 }

// WriteOperation prices an insert or update. Storage cost corresponds to
// durably written bytes and is never waived once the write happened.
type WriteOperation struct {
	KeyBytes   uint64
	ValueBytes uint64
}

func (op WriteOperation) ProcessingCost() platform.Credits {
	return baseProcessingCost
}

func (op WriteOperation) StorageCost() platform.Credits {
	return platform.Credits(op.KeyBytes+op.ValueBytes) * creditsPerByteStored
}

// DeleteOperation prices a removal and credits the refund for freed bytes to
// the identity that originally paid for them.
type DeleteOperation struct {
	KeyBytes      uint64
	ValueBytes    uint64
	RefundOwnerID platform.Identifier
}

func (op DeleteOperation) ProcessingCost() platform.Credits {
	return baseProcessingCost
}

func (op DeleteOperation) StorageCost() platform.Credits { return 0 }

// Refund is the amount owed back to the identity whose stored bytes were
// released.
func (op DeleteOperation) Refund() platform.Credits {
	return platform.Credits(op.KeyBytes+op.ValueBytes) * creditsPerByteRefunded
}

// SignatureVerificationOperation prices a signature check by key type.
type SignatureVerificationOperation struct {
	KeyType platform.KeyType
}

func (op SignatureVerificationOperation) ProcessingCost() platform.Credits {
	switch op.KeyType {
	case platform.KeyTypeBLS12381:
		return verifyCostBLS
	case platform.KeyTypeECDSAHash160:
		return verifyCostECDSAHash160
	default:
		return verifyCostECDSA
	}
}

func (op SignatureVerificationOperation) StorageCost() platform.Credits { return 0 }

// PreCalculatedOperation carries a fee result computed elsewhere, used when a
// sub-computation already produced a full FeeResult.
type PreCalculatedOperation struct {
	Fee FeeResult
}

func (op PreCalculatedOperation) ProcessingCost() platform.Credits { return op.Fee.ProcessingFee }
func (op PreCalculatedOperation) StorageCost() platform.Credits    { return op.Fee.StorageFee }
