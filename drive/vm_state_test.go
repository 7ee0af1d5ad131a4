package drive

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/drive/triggers"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/store"
	"github.com/dashpay/platform-engine/version"
)

func ownerControlled() platform.ChangeControlRules {
	return platform.ChangeControlRules{
		AuthorizedToMakeChange: platform.AuthorizedActionTakers{
			Kind: platform.ActionTakersContractOwner,
		},
	}
}

func groupControlled(pos platform.GroupPosition) platform.ChangeControlRules {
	return platform.ChangeControlRules{
		AuthorizedToMakeChange: platform.AuthorizedActionTakers{
			Kind:          platform.ActionTakersGroup,
			GroupPosition: pos,
		},
	}
}

func tokenContract(owner platform.Identifier) *platform.DataContract {
	id := platform.NewIdentifier(owner, []byte("token contract"))
	return &platform.DataContract{
		ID:      id,
		OwnerID: owner,
		Version: 1,
		Tokens: map[platform.TokenPosition]platform.TokenConfiguration{
			0: {
				BaseSupply:           1000,
				ManualMintingRules:   ownerControlled(),
				ManualBurningRules:   ownerControlled(),
				FreezeRules:          ownerControlled(),
				UnfreezeRules:        ownerControlled(),
				EmergencyActionRules: ownerControlled(),
			},
		},
	}
}

func TestExecuteBlockCreatesContract(t *testing.T) {
	alice := newTestIdentity(1)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
	})

	entropy := []byte("contract entropy")
	create := &platform.DataContractCreateTransition{
		DataContract: platform.DataContract{
			ID:      platform.NewIdentifier(alice.id, entropy),
			OwnerID: alice.id,
			Version: 1,
			DocumentTypes: map[string]platform.DocumentType{
				"note": {Name: "note", Mutable: true},
			},
			Tokens: map[platform.TokenPosition]platform.TokenConfiguration{
				0: {BaseSupply: 500, ManualMintingRules: ownerControlled()},
			},
		},
		Entropy: entropy,
		Nonce:   1,
	}
	raw := signAndEncode(t, create, &create.SignedBase, alice.signKey, authKeyID)

	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{raw})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	outcome := result.Results[0]
	require.NoError(t, outcome.Err)
	assert.True(t, outcome.Paid)

	repo := stateView(t, s)
	stored, found, err := repo.FetchContract(create.DataContract.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint32(1), stored.Version)

	// The token's base supply is seeded to the contract owner on creation.
	tokenID := create.DataContract.TokenID(0)
	supply, _, err := repo.FetchTokenSupply(tokenID)
	require.NoError(t, err)
	assert.Equal(t, platform.TokenAmount(500), supply)
	balance, _, err := repo.FetchTokenBalance(tokenID, alice.id)
	require.NoError(t, err)
	assert.Equal(t, platform.TokenAmount(500), balance)
}

func TestExecuteBlockContractUpdateVersionGap(t *testing.T) {
	alice := newTestIdentity(1)
	contract := &platform.DataContract{
		ID:      platform.NewIdentifier(alice.id, []byte("c")),
		OwnerID: alice.id,
		Version: 4,
		DocumentTypes: map[string]platform.DocumentType{
			"note": {Name: "note", Mutable: true},
		},
	}
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.PutContract(contract))
	})

	update := func(toVersion uint32, nonce platform.Nonce) []byte {
		next := *contract
		next.Version = toVersion
		st := &platform.DataContractUpdateTransition{DataContract: next, Nonce: nonce}
		return signAndEncode(t, st, &st.SignedBase, alice.signKey, authKeyID)
	}

	vm := NewVM(s, NewContext())
	// The gapped update is rejected without advancing the contract nonce, so
	// the correct update reuses the same nonce.
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{
		update(6, 1),
		update(5, 1),
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	require.Error(t, result.Results[0].Err)
	assert.True(t, sterrors.HasErrorCode(result.Results[0].Err, sterrors.ErrCodeInvalidDataContractVersionError))
	require.NoError(t, result.Results[1].Err)

	repo := stateView(t, s)
	stored, found, err := repo.FetchContract(contract.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint32(5), stored.Version)
}

func TestExecuteBlockTokenMethodsGatedByVersion(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	contract := tokenContract(alice.id)
	tokenID := contract.TokenID(0)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 0))
		require.NoError(t, repo.PutContract(contract))
		require.NoError(t, repo.SetTokenSupply(tokenID, 1000))
		require.NoError(t, repo.SetTokenBalance(tokenID, alice.id, 1000))
	})

	mint := &platform.TokenMintTransition{
		TokenBaseTransition: platform.TokenBaseTransition{
			Owner:      alice.id,
			ContractID: contract.ID,
			Position:   0,
			Nonce:      1,
		},
		Amount:             50,
		IssuedToIdentityID: &bob.id,
	}
	raw := signAndEncodeAt(t, mint, &mint.SignedBase, alice.signKey, authKeyID, 1)

	vm := NewVM(s, NewContext())
	block := testBlock(1)
	block.ProtocolVersion = 1
	result, err := vm.ExecuteBlock(block, [][]byte{raw})
	require.NoError(t, err)

	outcome := result.Results[0]
	require.Error(t, outcome.Err)
	assert.True(t, sterrors.HasErrorCode(outcome.Err, sterrors.ErrCodeUnknownVersionMismatchError))

	repo := stateView(t, s)
	supply, _, err := repo.FetchTokenSupply(tokenID)
	require.NoError(t, err)
	assert.Equal(t, platform.TokenAmount(1000), supply)
}

func TestExecuteBlockTokenMintAndTransfer(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	contract := tokenContract(alice.id)
	tokenID := contract.TokenID(0)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.PutContract(contract))
		require.NoError(t, repo.SetTokenSupply(tokenID, 1000))
		require.NoError(t, repo.SetTokenBalance(tokenID, alice.id, 10))
	})

	mint := &platform.TokenMintTransition{
		TokenBaseTransition: platform.TokenBaseTransition{
			Owner:      alice.id,
			ContractID: contract.ID,
			Position:   0,
			Nonce:      1,
		},
		Amount:             50,
		IssuedToIdentityID: &bob.id,
	}
	over := &platform.TokenTransferTransition{
		TokenBaseTransition: platform.TokenBaseTransition{
			Owner:      alice.id,
			ContractID: contract.ID,
			Position:   0,
			Nonce:      2,
		},
		Amount:      15,
		RecipientID: bob.id,
	}

	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{
		signAndEncode(t, mint, &mint.SignedBase, alice.signKey, authKeyID),
		signAndEncode(t, over, &over.SignedBase, alice.signKey, authKeyID),
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	require.NoError(t, result.Results[0].Err)
	require.Error(t, result.Results[1].Err)
	assert.True(t, sterrors.HasErrorCode(
		result.Results[1].Err, sterrors.ErrCodeIdentityInsufficientTokenBalanceError))

	repo := stateView(t, s)
	supply, _, err := repo.FetchTokenSupply(tokenID)
	require.NoError(t, err)
	assert.Equal(t, platform.TokenAmount(1050), supply)

	aliceTokens, _, err := repo.FetchTokenBalance(tokenID, alice.id)
	require.NoError(t, err)
	assert.Equal(t, platform.TokenAmount(10), aliceTokens)

	bobTokens, _, err := repo.FetchTokenBalance(tokenID, bob.id)
	require.NoError(t, err)
	assert.Equal(t, platform.TokenAmount(50), bobTokens)
}

func TestExecuteBlockGroupFreezeThreshold(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	carol := newTestIdentity(3)
	contract := tokenContract(alice.id)
	contract.Groups = map[platform.GroupPosition]platform.Group{
		0: {
			Members: map[platform.Identifier]platform.GroupMemberPower{
				alice.id: 1,
				bob.id:   1,
			},
			RequiredPower: 2,
		},
	}
	config := contract.Tokens[0]
	config.FreezeRules = groupControlled(0)
	contract.Tokens[0] = config

	tokenID := contract.TokenID(0)
	actionID := platform.NewIdentifier(alice.id, []byte("freeze carol"))
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(carol.id, carol.publicKeys(), 0))
		require.NoError(t, repo.PutContract(contract))
		require.NoError(t, repo.SetTokenSupply(tokenID, 1000))
		require.NoError(t, repo.SetTokenBalance(tokenID, carol.id, 100))
	})

	freeze := func(signer *testIdentity, nonce platform.Nonce, proposer bool) []byte {
		st := &platform.TokenFreezeTransition{
			TokenBaseTransition: platform.TokenBaseTransition{
				Owner:      signer.id,
				ContractID: contract.ID,
				Position:   0,
				Nonce:      nonce,
				Group: &platform.GroupStateTransitionInfo{
					GroupContractPosition: 0,
					ActionID:              actionID,
					IsProposer:            proposer,
				},
			},
			FrozenIdentityID: carol.id,
		}
		return signAndEncode(t, st, &st.SignedBase, signer.signKey, authKeyID)
	}

	vm := NewVM(s, NewContext())

	// Proposal alone stays below the power threshold: accepted, not executed.
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{freeze(alice, 1, true)})
	require.NoError(t, err)
	require.NoError(t, result.Results[0].Err)

	repo := stateView(t, s)
	info, found, err := repo.FetchTokenInfo(tokenID, carol.id)
	require.NoError(t, err)
	assert.False(t, found && info.Frozen)

	// A repeated signature from the proposer is rejected; the co-signer's
	// power crosses the threshold and fires the freeze exactly once.
	result, err = vm.ExecuteBlock(testBlock(2), [][]byte{
		freeze(alice, 2, false),
		freeze(bob, 1, false),
	})
	require.NoError(t, err)
	require.Error(t, result.Results[0].Err)
	assert.True(t, sterrors.HasErrorCode(result.Results[0].Err, sterrors.ErrCodeGroupActionAlreadySignedError))
	require.NoError(t, result.Results[1].Err)

	repo = stateView(t, s)
	info, found, err = repo.FetchTokenInfo(tokenID, carol.id)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, info.Frozen)

	action, found, err := repo.FetchGroupAction(contract.ID, 0, actionID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, action.Executed)
	assert.Equal(t, platform.GroupMemberPower(2), action.SignedPower)
}

func TestExecuteBlockGroupActionBindsProposedContent(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	carol := newTestIdentity(3)
	dave := newTestIdentity(4)
	contract := tokenContract(alice.id)
	contract.Groups = map[platform.GroupPosition]platform.Group{
		0: {
			Members: map[platform.Identifier]platform.GroupMemberPower{
				alice.id: 1,
				bob.id:   1,
			},
			RequiredPower: 2,
		},
	}
	config := contract.Tokens[0]
	config.FreezeRules = groupControlled(0)
	contract.Tokens[0] = config

	tokenID := contract.TokenID(0)
	actionID := platform.NewIdentifier(alice.id, []byte("freeze carol"))
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(carol.id, carol.publicKeys(), 0))
		require.NoError(t, repo.CreateIdentity(dave.id, dave.publicKeys(), 0))
		require.NoError(t, repo.PutContract(contract))
		require.NoError(t, repo.SetTokenSupply(tokenID, 1000))
		require.NoError(t, repo.SetTokenBalance(tokenID, carol.id, 100))
		require.NoError(t, repo.SetTokenBalance(tokenID, dave.id, 100))
	})

	freeze := func(signer *testIdentity, target platform.Identifier, nonce platform.Nonce, proposer bool) []byte {
		st := &platform.TokenFreezeTransition{
			TokenBaseTransition: platform.TokenBaseTransition{
				Owner:      signer.id,
				ContractID: contract.ID,
				Position:   0,
				Nonce:      nonce,
				Group: &platform.GroupStateTransitionInfo{
					GroupContractPosition: 0,
					ActionID:              actionID,
					IsProposer:            proposer,
				},
			},
			FrozenIdentityID: target,
		}
		return signAndEncode(t, st, &st.SignedBase, signer.signKey, authKeyID)
	}

	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{freeze(alice, carol.id, 1, true)})
	require.NoError(t, err)
	require.NoError(t, result.Results[0].Err)

	// Co-signing the proposer's action id with a different target must not
	// lend bob's power to parameters nobody proposed.
	result, err = vm.ExecuteBlock(testBlock(2), [][]byte{freeze(bob, dave.id, 1, false)})
	require.NoError(t, err)
	require.Error(t, result.Results[0].Err)
	assert.True(t, sterrors.HasErrorCode(result.Results[0].Err, sterrors.ErrCodeGroupActionContentMismatchError))

	repo := stateView(t, s)
	for _, target := range []platform.Identifier{carol.id, dave.id} {
		info, found, err := repo.FetchTokenInfo(tokenID, target)
		require.NoError(t, err)
		assert.False(t, found && info.Frozen)
	}
	action, found, err := repo.FetchGroupAction(contract.ID, 0, actionID)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, action.Executed)
	assert.Equal(t, platform.GroupMemberPower(1), action.SignedPower)

	// The rejection did not consume bob's nonce; a matching co-signature
	// still crosses the threshold as before.
	result, err = vm.ExecuteBlock(testBlock(3), [][]byte{freeze(bob, carol.id, 1, false)})
	require.NoError(t, err)
	require.NoError(t, result.Results[0].Err)

	repo = stateView(t, s)
	info, found, err := repo.FetchTokenInfo(tokenID, carol.id)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, info.Frozen)
}

func TestExecuteBlockDestroyFrozenFundsRequiresFreeze(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	contract := tokenContract(alice.id)
	config := contract.Tokens[0]
	config.DestroyFrozenFundsRules = ownerControlled()
	contract.Tokens[0] = config

	tokenID := contract.TokenID(0)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 0))
		require.NoError(t, repo.PutContract(contract))
		require.NoError(t, repo.SetTokenSupply(tokenID, 1000))
		require.NoError(t, repo.SetTokenBalance(tokenID, bob.id, 100))
	})

	destroy := &platform.TokenDestroyFrozenFundsTransition{
		TokenBaseTransition: platform.TokenBaseTransition{
			Owner:      alice.id,
			ContractID: contract.ID,
			Position:   0,
			Nonce:      1,
		},
		FrozenIdentityID: bob.id,
	}

	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{
		signAndEncode(t, destroy, &destroy.SignedBase, alice.signKey, authKeyID),
	})
	require.NoError(t, err)
	require.Error(t, result.Results[0].Err)
	assert.True(t, sterrors.HasErrorCode(
		result.Results[0].Err, sterrors.ErrCodeIdentityTokenAccountNotFrozenError))

	repo := stateView(t, s)
	bobTokens, _, err := repo.FetchTokenBalance(tokenID, bob.id)
	require.NoError(t, err)
	assert.Equal(t, platform.TokenAmount(100), bobTokens)
}

func TestExecuteBlockMasternodeVote(t *testing.T) {
	voter := newTestIdentity(4)
	awarded := platform.NewIdentifier(voter.id, []byte("awarded poll"))
	missing := platform.NewIdentifier(voter.id, []byte("missing poll"))
	open := platform.NewIdentifier(voter.id, []byte("open poll"))
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(voter.id, voter.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.PutVotePoll(&platform.VotePoll{ID: awarded, Status: platform.VotePollAwarded}))
		require.NoError(t, repo.PutVotePoll(&platform.VotePoll{ID: open, Status: platform.VotePollStarted}))
	})

	vote := func(pollID platform.Identifier, nonce platform.Nonce) []byte {
		st := &platform.MasternodeVoteTransition{
			ProTxHash:  voter.id,
			VoterID:    voter.id,
			VotePollID: pollID,
			Choice:     platform.ResourceVoteChoice{Abstain: true},
			Nonce:      nonce,
		}
		return signAndEncode(t, st, &st.SignedBase, voter.signKey, authKeyID)
	}

	vm := NewVM(s, NewContext())
	// Rejections do not advance the nonce, so all three carry nonce 1.
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{
		vote(awarded, 1),
		vote(missing, 1),
		vote(open, 1),
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 3)

	assert.True(t, sterrors.HasErrorCode(result.Results[0].Err, sterrors.ErrCodeVotePollNotAvailableForVotingError))
	assert.True(t, sterrors.HasErrorCode(result.Results[1].Err, sterrors.ErrCodeVotePollNotFoundError))
	require.NoError(t, result.Results[2].Err)

	repo := stateView(t, s)
	hasVote, err := repo.HasVote(open, voter.id.Bytes())
	require.NoError(t, err)
	assert.True(t, hasVote)

	hasVote, err = repo.HasVote(awarded, voter.id.Bytes())
	require.NoError(t, err)
	assert.False(t, hasVote)
}

// oneTimeKey derives a deterministic funding key and the hash160 an asset
// lock output would commit to for it.
func oneTimeKey(t *testing.T, tag byte) (*btcec.PrivateKey, []byte) {
	t.Helper()
	var seed [32]byte
	for i := range seed {
		seed[i] = tag ^ 0xA7
	}
	key, pub := btcec.PrivKeyFromBytes(seed[:])
	return key, btcutil.Hash160(pub.SerializeCompressed())
}

// assetLockSign signs the transition's signable bytes with the one-time key
// and returns the compact recoverable signature.
func assetLockSign(t *testing.T, st platform.StateTransition, key *btcec.PrivateKey) []byte {
	t.Helper()
	message, err := st.SignableBytes()
	require.NoError(t, err)
	digest := platform.SigningDigest(message)
	sig, err := ecdsa.SignCompact(key, digest[:], true)
	require.NoError(t, err)
	return sig
}

func TestExecuteBlockIdentityCreateFromAssetLock(t *testing.T) {
	keys := newTestIdentity(9)
	fundingKey, fundingKeyHash := oneTimeKey(t, 9)
	proof := platform.AssetLockProof{
		OutPoint:              []byte("outpoint-1"),
		Credits:               1_000_000_000,
		CoreChainLockedHeight: 1500,
		OneTimePublicKeyHash:  fundingKeyHash,
	}
	create := &platform.IdentityCreateTransition{
		Protocol:   version.Latest,
		IdentityID: proof.IdentityID(),
		PublicKeys: keys.publicKeys(),
		AssetLock:  proof,
	}
	create.SignatureData = assetLockSign(t, create, fundingKey)
	rawCreate, err := platform.EncodeTransition(create)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{rawCreate})
	require.NoError(t, err)

	outcome := result.Results[0]
	require.NoError(t, outcome.Err)
	assert.True(t, outcome.Paid)

	repo := stateView(t, s)
	identity, found, err := repo.FetchIdentity(proof.IdentityID())
	require.NoError(t, err)
	require.True(t, found)
	// The new identity pays its own registration fees out of the locked
	// credits.
	assert.Equal(t, platform.Credits(1_000_000_000)-outcome.Charged, identity.Balance)

	// The outpoint is consumed; funding anything else with it fails.
	topUp := &platform.IdentityTopUpTransition{
		Protocol:   version.Latest,
		IdentityID: proof.IdentityID(),
		AssetLock:  proof,
	}
	topUp.SignatureData = assetLockSign(t, topUp, fundingKey)
	rawTopUp, err := platform.EncodeTransition(topUp)
	require.NoError(t, err)

	result, err = vm.ExecuteBlock(testBlock(2), [][]byte{rawTopUp})
	require.NoError(t, err)
	require.Error(t, result.Results[0].Err)
	assert.True(t, sterrors.HasErrorCode(result.Results[0].Err, sterrors.ErrCodeAssetLockAlreadySpentError))
	assert.False(t, result.Results[0].Paid)
}

func TestExecuteBlockAssetLockRejectsWrongFundingKey(t *testing.T) {
	keys := newTestIdentity(9)
	_, fundingKeyHash := oneTimeKey(t, 9)
	wrongKey, _ := oneTimeKey(t, 10)
	proof := platform.AssetLockProof{
		OutPoint:              []byte("outpoint-2"),
		Credits:               1_000_000_000,
		CoreChainLockedHeight: 1500,
		OneTimePublicKeyHash:  fundingKeyHash,
	}
	create := &platform.IdentityCreateTransition{
		Protocol:   version.Latest,
		IdentityID: proof.IdentityID(),
		PublicKeys: keys.publicKeys(),
		AssetLock:  proof,
	}
	create.SignatureData = assetLockSign(t, create, wrongKey)
	raw, err := platform.EncodeTransition(create)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{raw})
	require.NoError(t, err)

	outcome := result.Results[0]
	require.Error(t, outcome.Err)
	assert.True(t, sterrors.HasErrorCode(outcome.Err, sterrors.ErrCodeInvalidStateTransitionSignatureError))
	// No identity to charge: the rejection is unpaid and nothing is created.
	assert.False(t, outcome.Paid)

	repo := stateView(t, s)
	_, found, err := repo.FetchIdentity(proof.IdentityID())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExecuteBlockDocumentUniqueIndex(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	contract := &platform.DataContract{
		ID:      platform.NewIdentifier(alice.id, []byte("names")),
		OwnerID: alice.id,
		Version: 1,
		DocumentTypes: map[string]platform.DocumentType{
			"profile": {
				Name:           "profile",
				Mutable:        true,
				RequiredFields: []string{"name"},
				UniqueIndices: []platform.Index{
					{Name: "byName", Properties: []string{"name"}},
				},
			},
		},
	}
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.PutContract(contract))
	})

	createProfile := func(owner *testIdentity, entropy []byte, name string) []byte {
		st := &platform.DocumentsBatchTransition{
			Owner: owner.id,
			Transitions: []platform.DocumentTransition{
				{
					Action:     platform.DocumentTransitionCreate,
					ID:         platform.NewDocumentID(owner.id, contract.ID, "profile", entropy),
					ContractID: contract.ID,
					Type:       "profile",
					Entropy:    entropy,
					Data:       map[string]interface{}{"name": name},
				},
			},
			Nonce: 1,
		}
		return signAndEncode(t, st, &st.SignedBase, owner.signKey, authKeyID)
	}

	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{
		createProfile(alice, []byte("e1"), "alice"),
		createProfile(bob, []byte("e2"), "alice"),
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	require.NoError(t, result.Results[0].Err)
	require.Error(t, result.Results[1].Err)
	assert.True(t, sterrors.HasErrorCode(result.Results[1].Err, sterrors.ErrCodeDuplicateUniqueIndexError))

	repo := stateView(t, s)
	docID := platform.NewDocumentID(alice.id, contract.ID, "profile", []byte("e1"))
	doc, found, err := repo.FetchDocument(contract.ID, "profile", docID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, alice.id, doc.OwnerID)
	assert.Equal(t, uint64(1), doc.Revision)
}

func TestExecuteBlockChargesForExecutedTriggers(t *testing.T) {
	alice := newTestIdentity(1)
	contract := &platform.DataContract{
		ID:      platform.NewIdentifier(alice.id, []byte("triggered")),
		OwnerID: alice.id,
		Version: 1,
		DocumentTypes: map[string]platform.DocumentType{
			"note": {Name: "note", Mutable: true},
		},
	}

	createNote := func() []byte {
		st := &platform.DocumentsBatchTransition{
			Owner: alice.id,
			Transitions: []platform.DocumentTransition{
				{
					Action:     platform.DocumentTransitionCreate,
					ID:         platform.NewDocumentID(alice.id, contract.ID, "note", []byte("e1")),
					ContractID: contract.ID,
					Type:       "note",
					Entropy:    []byte("e1"),
					Data:       map[string]interface{}{"body": "hi"},
				},
			},
			Nonce: 1,
		}
		return signAndEncode(t, st, &st.SignedBase, alice.signKey, authKeyID)
	}

	run := func(ctx Context) platform.Credits {
		s := store.NewMemoryStore()
		seedState(t, s, func(repo *state.Repository) {
			require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
			require.NoError(t, repo.PutContract(contract))
		})
		result, err := NewVM(s, ctx).ExecuteBlock(testBlock(1), [][]byte{createNote()})
		require.NoError(t, err)
		require.NoError(t, result.Results[0].Err)
		return result.Results[0].Charged
	}

	noop := triggers.TriggerFunc(func(
		*actions.DocumentAction, *triggers.Context, version.RuleVersion,
	) ([]actions.Action, error) {
		return nil, nil
	})
	registry := triggers.NewRegistry().Register(triggers.Binding{
		ContractID:   contract.ID,
		DocumentType: "note",
		Action:       actions.KindDocumentCreate,
		Trigger:      noop,
	})

	plain := run(NewContext())
	triggered := run(NewContext(WithTriggerRegistry(registry)))
	assert.Equal(t, plain+triggerExecutionCost, triggered)
}
