package drive

import (
	"github.com/dashpay/platform-engine/drive/crypto"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/fees"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// SupportedSigningKeyTypes is the fixed allow-list of key types usable for
// signing state transitions. The other registered key types exist for
// payment scripts and encryption and must never authorize transitions.
var SupportedSigningKeyTypes = []platform.KeyType{
	platform.KeyTypeECDSASecp256k1,
	platform.KeyTypeBLS12381,
	platform.KeyTypeECDSAHash160,
}

func isSupportedSigningKeyType(t platform.KeyType) bool {
	for _, allowed := range SupportedSigningKeyTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// TransitionSignatureValidator resolves the signing identity and key from
// state and verifies the signature. On success it leaves the resolved
// partial identity on the procedure for the later stages.
//
// Asset-lock funded transitions (identity create and top-up) are not
// identity signed; they are verified against the one-time key their locked
// output commits to, and no identity is resolved for them.
type TransitionSignatureValidator struct{}

func NewTransitionSignatureValidator() TransitionSignatureValidator {
	return TransitionSignatureValidator{}
}

func (v TransitionSignatureValidator) Process(
	ctx Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	if _, err := proc.PlatformVersion.Resolve(version.MethodSignatureValidation); err != nil {
		return sterrors.WrapVersionError(err)
	}

	if proofSigned, ok := proc.Transition.(platform.AssetLockSignedTransition); ok {
		return v.verifyAssetLockSignature(ctx, proc, proofSigned)
	}

	signed, ok := proc.Transition.(platform.IdentitySignedTransition)
	if !ok {
		return nil
	}

	ownerID := signed.OwnerID()
	identity, found, err := repo.FetchIdentity(ownerID)
	if err != nil {
		return err
	}
	if !found {
		return sterrors.IdentityNotFoundError{IdentityID: ownerID}
	}

	key, ok := identity.Key(signed.SignaturePublicKeyID())
	if !ok {
		return sterrors.MissingPublicKeyError{
			IdentityID: ownerID,
			KeyID:      signed.SignaturePublicKeyID(),
		}
	}

	if !isSupportedSigningKeyType(key.Type) {
		return sterrors.InvalidIdentityPublicKeyTypeError{KeyType: key.Type}
	}
	if !key.SecurityLevel.StrongerOrEqual(signed.RequiredSecurityLevel()) {
		return sterrors.PublicKeySecurityLevelNotMetError{
			KeySecurityLevel:      key.SecurityLevel,
			RequiredSecurityLevel: signed.RequiredSecurityLevel(),
		}
	}
	if key.Purpose != signed.RequiredKeyPurpose() {
		return sterrors.InvalidPublicKeyPurposeError{
			KeyPurpose:      key.Purpose,
			RequiredPurpose: signed.RequiredKeyPurpose(),
		}
	}
	if key.Disabled {
		return sterrors.PublicKeyIsDisabledError{KeyID: key.ID}
	}

	// The verification cost is recorded before verifying, dry run included:
	// admission-time fee estimates must price the same work execution does.
	proc.ExecCtx.AddOperation(fees.SignatureVerificationOperation{KeyType: key.Type})

	message, err := proc.Transition.SignableBytes()
	if err != nil {
		return sterrors.NewEncodingFailure(err)
	}
	if err := crypto.VerifySignature(key, message, signed.Signature()); err != nil {
		// The raw crypto error text never reaches consensus state.
		ctx.Log.Debug().
			Str("owner", ownerID.String()).
			Uint32("keyId", uint32(key.ID)).
			Err(err).
			Msg("transition signature verification failed")
		return sterrors.InvalidStateTransitionSignatureError{}
	}

	proc.Identity = identity
	return nil
}

// verifyAssetLockSignature checks the one-time-key signature of identity
// create and top-up against the key hash the locked output commits to. The
// resolved identity stays nil: until the proof is consumed there is no
// funded identity to charge.
func (v TransitionSignatureValidator) verifyAssetLockSignature(
	ctx Context,
	proc *TransitionProcedure,
	signed platform.AssetLockSignedTransition,
) error {
	proof := signed.AssetLockProof()

	proc.ExecCtx.AddOperation(fees.SignatureVerificationOperation{
		KeyType: platform.KeyTypeECDSAHash160,
	})

	message, err := proc.Transition.SignableBytes()
	if err != nil {
		return sterrors.NewEncodingFailure(err)
	}
	err = crypto.VerifyAssetLockSignature(proof.OneTimePublicKeyHash, message, signed.Signature())
	if err != nil {
		ctx.Log.Debug().
			Str("identity", signed.OwnerID().String()).
			Err(err).
			Msg("asset lock signature verification failed")
		return sterrors.InvalidStateTransitionSignatureError{}
	}
	return nil
}
