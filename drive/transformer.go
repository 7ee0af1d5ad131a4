package drive

import (
	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/model/platform"
)

// Late-bound reference resolution. These functions are deliberately pure:
// they take the already fetched contract data and resolve abstract
// descriptors into concrete identifiers, so the fallback chains can be
// tested without a pipeline or a store.

// resolveMintDestination resolves where minted tokens land. The fallback
// order is a consensus rule and must not be reordered: the explicit
// destination on the transition wins, then the token's configured default,
// then rejection.
func resolveMintDestination(
	tokenID platform.Identifier,
	config platform.TokenConfiguration,
	explicit *platform.Identifier,
) (platform.Identifier, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if config.MintDestinationID != nil {
		return *config.MintDestinationID, nil
	}
	return platform.ZeroIdentifier, sterrors.DestinationIdentityForMintingNotSetError{TokenID: tokenID}
}

// resolveReleaseRecipient resolves a perpetual distribution's abstract
// recipient descriptor into a concrete one. Evonodes-by-participation needs
// the active evonode set, which the simple resolver used for pre-programmed
// distributions does not have; it rejects rather than substituting an empty
// list.
func resolveReleaseRecipient(
	recipient platform.DistributionRecipient,
	contractOwnerID platform.Identifier,
) (actions.ResolvedRecipient, error) {
	switch recipient.Kind {
	case platform.DistributionRecipientContractOwner:
		return actions.ResolvedRecipient{
			Kind:       actions.ResolvedRecipientContractOwner,
			IdentityID: contractOwnerID,
		}, nil
	case platform.DistributionRecipientIdentity:
		return actions.ResolvedRecipient{
			Kind:       actions.ResolvedRecipientIdentity,
			IdentityID: recipient.IdentityID,
		}, nil
	case platform.DistributionRecipientEvonodesByParticipation:
		return actions.ResolvedRecipient{},
			sterrors.NewUnsupportedDistributionRecipientError("evonodesByParticipation")
	default:
		return actions.ResolvedRecipient{},
			sterrors.NewUnsupportedDistributionRecipientError("unknown")
	}
}
