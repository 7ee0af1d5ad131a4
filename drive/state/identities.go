package state

import (
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/fees"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/store"
)

// identityRecord is the stored shape of an identity. Balance lives under its
// own key so fee settlement does not rewrite the key list.
type identityRecord struct {
	Revision   uint64                       `cbor:"revision"`
	PublicKeys []platform.IdentityPublicKey `cbor:"publicKeys"`
}

// FetchIdentity loads the partial view of an identity: keys, revision and
// balance. Fetched fresh per validation pass; callers must not cache it
// across transitions.
func (r *Repository) FetchIdentity(id platform.Identifier) (*platform.PartialIdentity, bool, error) {
	var record identityRecord
	found, err := r.getRecord(store.PathIdentity, id.Bytes(), &record)
	if err != nil || !found {
		return nil, found, err
	}

	balance, _, err := r.FetchIdentityBalance(id)
	if err != nil {
		return nil, false, err
	}

	keys := make(map[platform.KeyID]platform.IdentityPublicKey, len(record.PublicKeys))
	for _, key := range record.PublicKeys {
		keys[key.ID] = key
	}

	return &platform.PartialIdentity{
		ID:         id,
		Balance:    balance,
		Revision:   record.Revision,
		PublicKeys: keys,
	}, true, nil
}

// HasIdentity reports existence without loading keys.
func (r *Repository) HasIdentity(id platform.Identifier) (bool, error) {
	ok, bytesRead, err := r.tx.Has(store.PathIdentity, id.Bytes())
	r.ops.AddOperation(fees.ReadOperation{BytesRead: bytesRead})
	if err != nil {
		return false, sterrors.NewStorageFailure(err)
	}
	return ok, nil
}

// CreateIdentity writes a new identity with its initial balance.
func (r *Repository) CreateIdentity(
	id platform.Identifier,
	keys []platform.IdentityPublicKey,
	balance platform.Credits,
) error {
	record := identityRecord{Revision: 0, PublicKeys: keys}
	if err := r.putRecord(store.PathIdentity, id.Bytes(), record); err != nil {
		return err
	}
	return r.SetIdentityBalance(id, balance)
}

// UpdateIdentityKeys adds and disables keys and bumps the revision.
func (r *Repository) UpdateIdentityKeys(
	id platform.Identifier,
	revision uint64,
	add []platform.IdentityPublicKey,
	disable []platform.KeyID,
) error {
	var record identityRecord
	found, err := r.getRecord(store.PathIdentity, id.Bytes(), &record)
	if err != nil {
		return err
	}
	if !found {
		return sterrors.NewCorruptedStateFailure("identity %s disappeared during update", id)
	}

	disabled := make(map[platform.KeyID]struct{}, len(disable))
	for _, keyID := range disable {
		disabled[keyID] = struct{}{}
	}
	for i := range record.PublicKeys {
		if _, ok := disabled[record.PublicKeys[i].ID]; ok {
			record.PublicKeys[i].Disabled = true
		}
	}
	record.PublicKeys = append(record.PublicKeys, add...)
	record.Revision = revision

	return r.putRecord(store.PathIdentity, id.Bytes(), record)
}

// FetchIdentityBalance returns the identity's credit balance.
func (r *Repository) FetchIdentityBalance(id platform.Identifier) (platform.Credits, bool, error) {
	data, found, err := r.get(store.PathBalance, id.Bytes())
	if err != nil || !found {
		return 0, found, err
	}
	return platform.Credits(decodeUint64(data)), true, nil
}

func (r *Repository) SetIdentityBalance(id platform.Identifier, balance platform.Credits) error {
	return r.put(store.PathBalance, id.Bytes(), encodeUint64(uint64(balance)))
}

// AddToIdentityBalance credits an identity, e.g. a refund or transfer leg.
func (r *Repository) AddToIdentityBalance(id platform.Identifier, amount platform.Credits) error {
	balance, found, err := r.FetchIdentityBalance(id)
	if err != nil {
		return err
	}
	if !found {
		return sterrors.NewCorruptedStateFailure("no balance record for identity %s", id)
	}
	return r.SetIdentityBalance(id, balance+amount)
}

// ApplyBalanceChange settles a fee balance change against the identity.
//
// For a removal: if balance covers the desired amount, the full desired
// amount is charged. If it covers only the required amount, the charge is
// capped at the balance; the shortfall comes out of the processing portion
// only, since the required (storage) portion corresponds to bytes already
// durably written. Below required, settlement fails with InsufficientBalance
// and nothing is charged.
func (r *Repository) ApplyBalanceChange(
	id platform.Identifier,
	change fees.BalanceChange,
) (charged platform.Credits, err error) {
	switch change.Kind {
	case fees.NoBalanceChange:
		return 0, nil

	case fees.AddToBalance:
		return 0, r.AddToIdentityBalance(id, change.Added)

	case fees.RemoveFromBalance:
		balance, found, err := r.FetchIdentityBalance(id)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, sterrors.NewCorruptedStateFailure("no balance record for identity %s", id)
		}
		if balance < change.Required {
			return 0, sterrors.InsufficientBalanceError{
				IdentityID: id,
				Balance:    balance,
				Required:   change.Required,
			}
		}
		charge := change.Desired
		if charge > balance {
			charge = balance
		}
		if err := r.SetIdentityBalance(id, balance-charge); err != nil {
			return 0, err
		}
		return charge, nil

	default:
		return 0, sterrors.NewCorruptedStateFailure("unknown balance change kind %d", change.Kind)
	}
}

// nonceKey scopes the counter to the identity or (identity, contract) pair.
func nonceKey(id platform.Identifier, contractID *platform.Identifier) []byte {
	key := make([]byte, 0, platform.IdentifierLength*2)
	key = append(key, id.Bytes()...)
	if contractID != nil {
		key = append(key, contractID.Bytes()...)
	}
	return key
}

// FetchNonce returns the last used nonce for the scope. found=false means
// no transition has used the scope yet; the next expected nonce is then 1.
func (r *Repository) FetchNonce(
	id platform.Identifier,
	contractID *platform.Identifier,
) (platform.Nonce, bool, error) {
	data, found, err := r.get(store.PathNonce, nonceKey(id, contractID))
	if err != nil || !found {
		return 0, found, err
	}
	return platform.Nonce(decodeUint64(data)), true, nil
}

func (r *Repository) SetNonce(
	id platform.Identifier,
	contractID *platform.Identifier,
	nonce platform.Nonce,
) error {
	return r.put(store.PathNonce, nonceKey(id, contractID), encodeUint64(uint64(nonce)))
}

// IsAssetLockSpent reports whether an asset lock outpoint was consumed.
func (r *Repository) IsAssetLockSpent(outPoint []byte) (bool, error) {
	_, found, err := r.get(store.PathAssetLock, outPoint)
	return found, err
}

func (r *Repository) MarkAssetLockSpent(outPoint []byte) error {
	return r.put(store.PathAssetLock, outPoint, []byte{1})
}

// withdrawalRecord queues a core-chain payout.
type withdrawalRecord struct {
	IdentityID     platform.Identifier `cbor:"identityId"`
	Amount         platform.Credits    `cbor:"amount"`
	CoreFeePerByte uint32              `cbor:"coreFeePerByte"`
	OutputScript   []byte              `cbor:"outputScript"`
}

// EnqueueWithdrawal records a payout for the core-chain bridge to pick up.
func (r *Repository) EnqueueWithdrawal(
	id platform.Identifier,
	nonce platform.Nonce,
	amount platform.Credits,
	coreFeePerByte uint32,
	outputScript []byte,
) error {
	key := append(id.Bytes(), encodeUint64(uint64(nonce))...)
	return r.putRecord(store.PathWithdrawal, key, withdrawalRecord{
		IdentityID:     id,
		Amount:         amount,
		CoreFeePerByte: coreFeePerByte,
		OutputScript:   outputScript,
	})
}
