package drive

import (
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// TransitionNonceValidator enforces replay protection. Every nonced
// transition must carry the stored nonce of its scope plus exactly one; the
// nonce itself is advanced during action application, in the same atomic
// write set as the mutations it protects.
type TransitionNonceValidator struct{}

func NewTransitionNonceValidator() TransitionNonceValidator {
	return TransitionNonceValidator{}
}

func (v TransitionNonceValidator) Process(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	nonced, ok := proc.Transition.(platform.NoncedTransition)
	if !ok {
		return nil
	}
	if _, err := proc.PlatformVersion.Resolve(version.MethodNonceValidation); err != nil {
		return sterrors.WrapVersionError(err)
	}

	current, _, err := repo.FetchNonce(proc.Transition.OwnerID(), nonced.NonceContractID())
	if err != nil {
		return err
	}
	if nonced.TransitionNonce() != current+1 {
		return sterrors.InvalidNonceError{
			IdentityID:    proc.Transition.OwnerID(),
			CurrentNonce:  current,
			ReceivedNonce: nonced.TransitionNonce(),
		}
	}
	return nil
}
