package drive

import (
	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
)

func evaluateDocumentsBatch(
	ctx Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.DocumentsBatchTransition)

	for i := range t.Transitions {
		dt := &t.Transitions[i]

		contract, err := proc.Contracts.FetchContract(repo, dt.ContractID)
		if err != nil {
			return err
		}
		docType, ok := contract.DocumentType(dt.Type)
		if !ok {
			return sterrors.NewDocumentTypeNotFoundError(dt.ContractID, dt.Type)
		}

		var action *actions.DocumentAction
		switch dt.Action {
		case platform.DocumentTransitionCreate:
			action, err = evaluateDocumentCreate(proc, repo, t.Owner, dt, contract, docType)
		case platform.DocumentTransitionReplace:
			action, err = evaluateDocumentReplace(proc, repo, t.Owner, dt, contract, docType)
		case platform.DocumentTransitionDelete:
			action, err = evaluateDocumentDelete(proc, repo, t.Owner, dt, contract, docType)
		}
		if err != nil {
			return err
		}
		proc.Actions = append(proc.Actions, action)
	}

	return nil
}

func evaluateDocumentCreate(
	proc *TransitionProcedure,
	repo *state.Repository,
	owner platform.Identifier,
	dt *platform.DocumentTransition,
	contract *platform.DataContract,
	docType platform.DocumentType,
) (*actions.DocumentAction, error) {
	for _, field := range docType.RequiredFields {
		if _, ok := dt.Data[field]; !ok {
			return nil, sterrors.NewMissingRequiredFieldError(field)
		}
	}

	_, found, err := repo.FetchDocument(dt.ContractID, dt.Type, dt.ID)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, sterrors.NewDocumentAlreadyExistsError(dt.ID)
	}

	for _, index := range docType.UniqueIndices {
		values, err := indexValues(index, dt.Data)
		if err != nil {
			return nil, err
		}
		holder, taken, err := repo.HasIndexEntry(dt.ContractID, dt.Type, index.Name, values)
		if err != nil {
			return nil, err
		}
		if taken && holder != dt.ID {
			return nil, sterrors.NewDuplicateUniqueIndexError(dt.ID, index.Name)
		}
	}

	// The token cost lookup is charged even when it rejects: the reads were
	// performed either way, and the repository already recorded them.
	payment, err := resolveTokenPayment(proc, repo, owner, contract, docType, "documentCreate")
	if err != nil {
		return nil, err
	}

	return &actions.DocumentAction{
		ActionKind: actions.KindDocumentCreate,
		Document: &platform.Document{
			ID:         dt.ID,
			OwnerID:    owner,
			ContractID: dt.ContractID,
			Type:       dt.Type,
			Revision:   1,
			CreatedAt:  proc.Block.TimeMs,
			UpdatedAt:  proc.Block.TimeMs,
			Data:       dt.Data,
		},
		Contract:     contract,
		Entropy:      dt.Entropy,
		TokenPayment: payment,
	}, nil
}

func evaluateDocumentReplace(
	proc *TransitionProcedure,
	repo *state.Repository,
	owner platform.Identifier,
	dt *platform.DocumentTransition,
	contract *platform.DataContract,
	docType platform.DocumentType,
) (*actions.DocumentAction, error) {
	stored, found, err := repo.FetchDocument(dt.ContractID, dt.Type, dt.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, sterrors.NewDocumentNotFoundError(dt.ID)
	}
	if stored.OwnerID != owner {
		return nil, sterrors.NewDocumentOwnerMismatchError(dt.ID, stored.OwnerID, owner)
	}
	if !docType.Mutable {
		return nil, sterrors.NewDocumentNotMutableError(dt.ContractID, dt.Type)
	}
	if dt.Revision != stored.Revision+1 {
		return nil, sterrors.InvalidDocumentRevisionError{
			DocumentID:       dt.ID,
			CurrentRevision:  stored.Revision,
			ReceivedRevision: dt.Revision,
		}
	}

	for _, index := range docType.UniqueIndices {
		newValues, err := indexValues(index, dt.Data)
		if err != nil {
			return nil, err
		}
		oldValues, err := indexValues(index, stored.Data)
		if err != nil {
			return nil, err
		}
		if string(newValues) == string(oldValues) {
			continue
		}
		holder, taken, err := repo.HasIndexEntry(dt.ContractID, dt.Type, index.Name, newValues)
		if err != nil {
			return nil, err
		}
		if taken && holder != dt.ID {
			return nil, sterrors.NewDuplicateUniqueIndexError(dt.ID, index.Name)
		}
	}

	return &actions.DocumentAction{
		ActionKind: actions.KindDocumentReplace,
		Document: &platform.Document{
			ID:         dt.ID,
			OwnerID:    stored.OwnerID,
			ContractID: dt.ContractID,
			Type:       dt.Type,
			Revision:   dt.Revision,
			CreatedAt:  stored.CreatedAt,
			UpdatedAt:  proc.Block.TimeMs,
			Data:       dt.Data,
		},
		Contract: contract,
		Previous: stored,
	}, nil
}

func evaluateDocumentDelete(
	_ *TransitionProcedure,
	repo *state.Repository,
	owner platform.Identifier,
	dt *platform.DocumentTransition,
	contract *platform.DataContract,
	docType platform.DocumentType,
) (*actions.DocumentAction, error) {
	stored, found, err := repo.FetchDocument(dt.ContractID, dt.Type, dt.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, sterrors.NewDocumentNotFoundError(dt.ID)
	}
	if stored.OwnerID != owner {
		return nil, sterrors.NewDocumentOwnerMismatchError(dt.ID, stored.OwnerID, owner)
	}
	if !docType.CanBeDeleted {
		return nil, sterrors.NewDocumentNotMutableError(dt.ContractID, dt.Type)
	}

	// The action carries the stored document so triggers and execution see
	// exactly what is removed.
	return &actions.DocumentAction{
		ActionKind: actions.KindDocumentDelete,
		Document:   stored,
		Contract:   contract,
	}, nil
}

// resolveTokenPayment checks and resolves a document type's creation cost.
// Returns nil when the type is free.
func resolveTokenPayment(
	proc *TransitionProcedure,
	repo *state.Repository,
	payer platform.Identifier,
	contract *platform.DataContract,
	docType platform.DocumentType,
	operation string,
) (*actions.ResolvedTokenPayment, error) {
	cost := docType.CreationTokenCost
	if cost == nil {
		return nil, nil
	}
	if _, ok := contract.Token(cost.TokenContractPosition); !ok {
		return nil, sterrors.NewTokenNotFoundError(contract.ID, cost.TokenContractPosition)
	}
	tokenID := contract.TokenID(cost.TokenContractPosition)

	info, _, err := repo.FetchTokenInfo(tokenID, payer)
	if err != nil {
		return nil, err
	}
	if info.Frozen {
		return nil, sterrors.IdentityTokenAccountFrozenError{
			TokenID:    tokenID,
			IdentityID: payer,
			Operation:  operation,
		}
	}

	balance, _, err := repo.FetchTokenBalance(tokenID, payer)
	if err != nil {
		return nil, err
	}
	if balance < cost.Amount {
		return nil, sterrors.IdentityInsufficientTokenBalanceError{
			TokenID:    tokenID,
			IdentityID: payer,
			Required:   cost.Amount,
			Available:  balance,
		}
	}

	return &actions.ResolvedTokenPayment{
		TokenID: tokenID,
		Amount:  cost.Amount,
		PayeeID: contract.OwnerID,
	}, nil
}

// indexValues packs the indexed properties into the canonical byte key for
// a unique-index slot. A missing property indexes as nil, which still
// occupies the slot.
func indexValues(index platform.Index, data map[string]interface{}) ([]byte, error) {
	values := make([]interface{}, len(index.Properties))
	for i, prop := range index.Properties {
		values[i] = data[prop]
	}
	packed, err := platform.MarshalCanonical(values)
	if err != nil {
		return nil, sterrors.NewEncodingFailure(err)
	}
	return packed, nil
}
