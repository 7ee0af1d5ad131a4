package fees

import (
	"github.com/dashpay/platform-engine/model/platform"
)

// FeeResult is the priced outcome of a completed fee computation. Storage
// and processing fees are charged to the transition's owner; refunds are
// owed to whichever identities' stored bytes were released, which may not be
// the payer.
type FeeResult struct {
	StorageFee    platform.Credits
	ProcessingFee platform.Credits
	Refunds       map[platform.Identifier]platform.Credits
}

// Add accumulates another fee result into this one.
func (f *FeeResult) Add(other FeeResult) {
	f.StorageFee += other.StorageFee
	f.ProcessingFee += other.ProcessingFee
	for id, amount := range other.Refunds {
		f.addRefund(id, amount)
	}
}

func (f *FeeResult) addRefund(id platform.Identifier, amount platform.Credits) {
	if f.Refunds == nil {
		f.Refunds = make(map[platform.Identifier]platform.Credits)
	}
	f.Refunds[id] += amount
}

// TotalForPayer is the full economically correct amount for the payer: the
// "desired" side of the settlement.
func (f FeeResult) TotalForPayer() platform.Credits {
	return f.StorageFee + f.ProcessingFee
}

// RequiredForPayer is the amount that must be covered for the transition to
// proceed: the storage portion, which corresponds to data already durably
// written and is never waived.
func (f FeeResult) RequiredForPayer() platform.Credits {
	return f.StorageFee
}

// CalculateFee prices a list of recorded operations.
func CalculateFee(ops []Operation) FeeResult {
	var result FeeResult
	for _, op := range ops {
		result.StorageFee += op.StorageCost()
		result.ProcessingFee += op.ProcessingCost()
		if del, ok := op.(DeleteOperation); ok {
			if refund := del.Refund(); refund > 0 {
				result.addRefund(del.RefundOwnerID, refund)
			}
		}
	}
	return result
}
