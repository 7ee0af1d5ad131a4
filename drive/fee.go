package drive

import (
	"sort"

	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/fees"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// TransitionFeeSettler prices every operation the transition recorded and
// settles the result against the payer's balance. It runs last: the balances
// it reads already include the transition's own mutations, so an identity
// funded by the transition itself (e.g. an asset-lock create) pays out of
// the credits it just received.
type TransitionFeeSettler struct{}

// NewTransitionFeeSettler constructs the settlement stage.
func NewTransitionFeeSettler() TransitionFeeSettler {
	return TransitionFeeSettler{}
}

func (TransitionFeeSettler) Process(
	ctx Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	if _, err := proc.PlatformVersion.Resolve(version.MethodFeeCalculation); err != nil {
		return sterrors.WrapVersionError(err)
	}

	proc.Fees = fees.CalculateFee(proc.ExecCtx.Operations())
	payer := proc.Transition.OwnerID()

	charged, err := repo.ApplyBalanceChange(payer, proc.Fees.BalanceChangeForPayer(payer))
	if err != nil {
		return err
	}
	proc.Charged = charged

	refunds := proc.Fees.OtherRefunds(payer)
	if len(refunds) == 0 {
		return nil
	}
	owed := make([]platform.Identifier, 0, len(refunds))
	for id := range refunds {
		owed = append(owed, id)
	}
	sort.Slice(owed, func(i, j int) bool { return owed[i].Less(owed[j]) })
	for _, id := range owed {
		if err := repo.AddToIdentityBalance(id, refunds[id]); err != nil {
			return err
		}
	}

	ctx.Log.Debug().
		Str("payer", payer.String()).
		Uint64("charged", uint64(charged)).
		Int("refunds", len(refunds)).
		Msg("settled transition fees")
	return nil
}
