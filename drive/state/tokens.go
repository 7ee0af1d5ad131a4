package state

import (
	"encoding/binary"

	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/store"
)

// tokenHolderKey addresses one identity's balance or info for one token.
func tokenHolderKey(tokenID, identityID platform.Identifier) []byte {
	return append(tokenID.Bytes(), identityID.Bytes()...)
}

// FetchTokenBalance returns an identity's balance of a token. Absence means
// the identity has never held the token; callers treat it as zero.
func (r *Repository) FetchTokenBalance(
	tokenID, identityID platform.Identifier,
) (platform.TokenAmount, bool, error) {
	data, found, err := r.get(store.PathTokenBalance, tokenHolderKey(tokenID, identityID))
	if err != nil || !found {
		return 0, found, err
	}
	return platform.TokenAmount(decodeUint64(data)), true, nil
}

func (r *Repository) SetTokenBalance(
	tokenID, identityID platform.Identifier,
	balance platform.TokenAmount,
) error {
	return r.put(store.PathTokenBalance, tokenHolderKey(tokenID, identityID), encodeUint64(uint64(balance)))
}

// FetchTokenInfo returns the per-holder token flags, e.g. frozen.
func (r *Repository) FetchTokenInfo(
	tokenID, identityID platform.Identifier,
) (platform.IdentityTokenInfo, bool, error) {
	var info platform.IdentityTokenInfo
	found, err := r.getRecord(store.PathTokenInfo, tokenHolderKey(tokenID, identityID), &info)
	if err != nil || !found {
		return platform.IdentityTokenInfo{}, found, err
	}
	return info, true, nil
}

func (r *Repository) SetTokenInfo(
	tokenID, identityID platform.Identifier,
	info platform.IdentityTokenInfo,
) error {
	return r.putRecord(store.PathTokenInfo, tokenHolderKey(tokenID, identityID), info)
}

// FetchTokenStatus returns the token-wide status. Absence means the token
// has never been paused.
func (r *Repository) FetchTokenStatus(tokenID platform.Identifier) (platform.TokenStatus, bool, error) {
	var status platform.TokenStatus
	found, err := r.getRecord(store.PathTokenStatus, tokenID.Bytes(), &status)
	if err != nil || !found {
		return platform.TokenStatus{}, found, err
	}
	return status, true, nil
}

func (r *Repository) SetTokenStatus(tokenID platform.Identifier, status platform.TokenStatus) error {
	return r.putRecord(store.PathTokenStatus, tokenID.Bytes(), status)
}

// FetchTokenSupply returns the circulating supply of a token.
func (r *Repository) FetchTokenSupply(tokenID platform.Identifier) (platform.TokenAmount, bool, error) {
	data, found, err := r.get(store.PathTokenSupply, tokenID.Bytes())
	if err != nil || !found {
		return 0, found, err
	}
	return platform.TokenAmount(decodeUint64(data)), true, nil
}

func (r *Repository) SetTokenSupply(tokenID platform.Identifier, supply platform.TokenAmount) error {
	return r.put(store.PathTokenSupply, tokenID.Bytes(), encodeUint64(uint64(supply)))
}

// FetchLastReleaseHeight returns the block height of a token's most recent
// perpetual distribution release. Absence means no release has happened yet;
// intervals then count from the contract's registration.
func (r *Repository) FetchLastReleaseHeight(tokenID platform.Identifier) (uint64, bool, error) {
	data, found, err := r.get(store.PathRelease, tokenID.Bytes())
	if err != nil || !found {
		return 0, found, err
	}
	return decodeUint64(data), true, nil
}

func (r *Repository) SetLastReleaseHeight(tokenID platform.Identifier, height uint64) error {
	return r.put(store.PathRelease, tokenID.Bytes(), encodeUint64(height))
}

// groupActionRecord accumulates signatures toward a group action's power
// threshold. Executed stays true forever once the threshold fired, so a
// late signer can add power but never re-trigger the action.
type groupActionRecord struct {
	SignedPower platform.GroupMemberPower `cbor:"signedPower"`
	Executed    bool                      `cbor:"executed"`
	Signers     []platform.Identifier     `cbor:"signers"`
	Content     []byte                    `cbor:"content"`
}

// GroupActionState is the pipeline-facing view of a group action record.
type GroupActionState struct {
	SignedPower platform.GroupMemberPower
	Executed    bool
	Signers     []platform.Identifier

	// Content is the canonical payload captured from the proposing
	// transition. Co-signatures must carry it byte for byte.
	Content []byte
}

// HasSigned reports whether an identity already contributed power.
func (s GroupActionState) HasSigned(id platform.Identifier) bool {
	for _, signer := range s.Signers {
		if signer == id {
			return true
		}
	}
	return false
}

func groupActionKey(
	contractID platform.Identifier,
	position platform.GroupPosition,
	actionID platform.Identifier,
) []byte {
	key := make([]byte, 0, platform.IdentifierLength*2+2)
	key = append(key, contractID.Bytes()...)
	key = binary.BigEndian.AppendUint16(key, uint16(position))
	key = append(key, actionID.Bytes()...)
	return key
}

// FetchGroupAction loads the accumulated signing state of a group action.
func (r *Repository) FetchGroupAction(
	contractID platform.Identifier,
	position platform.GroupPosition,
	actionID platform.Identifier,
) (GroupActionState, bool, error) {
	var record groupActionRecord
	found, err := r.getRecord(store.PathGroupAction, groupActionKey(contractID, position, actionID), &record)
	if err != nil || !found {
		return GroupActionState{}, found, err
	}
	return GroupActionState(record), true, nil
}

func (r *Repository) PutGroupAction(
	contractID platform.Identifier,
	position platform.GroupPosition,
	actionID platform.Identifier,
	action GroupActionState,
) error {
	return r.putRecord(store.PathGroupAction, groupActionKey(contractID, position, actionID), groupActionRecord(action))
}
