package fees

import (
	"fmt"

	"github.com/dashpay/platform-engine/model/platform"
)

// BalanceChangeKind tags the settlement outcome for one identity.
type BalanceChangeKind uint8

const (
	// NoBalanceChange means the computation netted out to zero.
	NoBalanceChange BalanceChangeKind = iota
	// AddToBalance credits the identity, e.g. a refund.
	AddToBalance
	// RemoveFromBalance debits the identity with a required/desired split.
	RemoveFromBalance
)

// BalanceChange is the derived, per-identity settlement of a completed fee
// computation.
//
// For RemoveFromBalance, Required is the amount that must be covered for the
// transition to proceed and Desired is the full economically correct amount.
// Shortfall beyond Required is forgiven up to the available balance; a
// balance below Required fails the settlement.
type BalanceChange struct {
	Kind     BalanceChangeKind
	Added    platform.Credits
	Required platform.Credits
	Desired  platform.Credits
}

func (c BalanceChange) String() string {
	switch c.Kind {
	case AddToBalance:
		return fmt.Sprintf("add(%d)", c.Added)
	case RemoveFromBalance:
		return fmt.Sprintf("remove(required=%d desired=%d)", c.Required, c.Desired)
	default:
		return "none"
	}
}

// BalanceChangeForPayer collapses the fee result into the payer's balance
// change. Refunds owed to the payer itself offset the charge; refunds owed
// to other identities are settled separately and are unaffected by the
// payer's shortfall.
func (f FeeResult) BalanceChangeForPayer(payerID platform.Identifier) BalanceChange {
	desired := f.TotalForPayer()
	required := f.RequiredForPayer()

	ownRefund := f.Refunds[payerID]
	switch {
	case ownRefund > desired:
		return BalanceChange{Kind: AddToBalance, Added: ownRefund - desired}
	case ownRefund == desired && required == 0:
		return BalanceChange{Kind: NoBalanceChange}
	default:
		desired -= ownRefund
		if required > desired {
			// own refund ate into the processing portion entirely; the
			// storage portion still caps what must be covered
			required = desired
		}
		return BalanceChange{Kind: RemoveFromBalance, Required: required, Desired: desired}
	}
}

// OtherRefunds returns refunds owed to identities other than the payer, in
// deterministic order of the map's keys left to the caller to sort.
func (f FeeResult) OtherRefunds(payerID platform.Identifier) map[platform.Identifier]platform.Credits {
	if len(f.Refunds) == 0 {
		return nil
	}
	out := make(map[platform.Identifier]platform.Credits, len(f.Refunds))
	for id, amount := range f.Refunds {
		if id == payerID {
			continue
		}
		out[id] = amount
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
