package drive

import (
	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
)

func evaluateContractCreate(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.DataContractCreateTransition)

	_, found, err := repo.FetchContract(t.DataContract.ID)
	if err != nil {
		return err
	}
	if found {
		return sterrors.NewDataContractAlreadyExistsError(t.DataContract.ID)
	}

	contract := t.DataContract
	contract.Version = 1

	proc.Actions = append(proc.Actions, &actions.ContractCreateAction{Contract: &contract})
	return nil
}

func evaluateContractUpdate(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.DataContractUpdateTransition)

	stored, found, err := repo.FetchContract(t.DataContract.ID)
	if err != nil {
		return err
	}
	if !found {
		return sterrors.NewDataContractNotFoundError(t.DataContract.ID)
	}
	if stored.OwnerID != t.DataContract.OwnerID {
		return sterrors.NewDataContractUpdatePermissionError(
			t.DataContract.ID, t.DataContract.OwnerID)
	}

	// Dry runs estimate the fee of an update that may still be in flight, so
	// the version gap rule is skipped and the action produced optimistically.
	// Dry-run contexts never flush state.
	if !proc.ExecCtx.DryRun {
		if t.DataContract.Version != stored.Version+1 {
			return sterrors.InvalidDataContractVersionError{
				Expected: stored.Version + 1,
				Received: t.DataContract.Version,
			}
		}
	}

	contract := t.DataContract
	proc.Actions = append(proc.Actions, &actions.ContractUpdateAction{Contract: &contract})
	return nil
}
