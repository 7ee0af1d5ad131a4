package drive

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/store"
	"github.com/dashpay/platform-engine/version"
)

const (
	authKeyID     platform.KeyID = 0
	transferKeyID platform.KeyID = 1
)

type testIdentity struct {
	id      platform.Identifier
	signKey *btcec.PrivateKey
	moveKey *btcec.PrivateKey
}

// newTestIdentity derives keys from the tag so two stores seeded with the
// same tags hold identical state.
func newTestIdentity(tag byte) *testIdentity {
	var seed [32]byte
	for i := range seed {
		seed[i] = tag
	}
	signKey, _ := btcec.PrivKeyFromBytes(seed[:])
	seed[31] ^= 0x55
	moveKey, _ := btcec.PrivKeyFromBytes(seed[:])

	var id platform.Identifier
	for i := range id {
		id[i] = tag
	}
	return &testIdentity{id: id, signKey: signKey, moveKey: moveKey}
}

func (ti *testIdentity) publicKeys() []platform.IdentityPublicKey {
	return []platform.IdentityPublicKey{
		{
			ID:            authKeyID,
			Type:          platform.KeyTypeECDSASecp256k1,
			Purpose:       platform.KeyPurposeAuthentication,
			SecurityLevel: platform.SecurityLevelMaster,
			Data:          ti.signKey.PubKey().SerializeCompressed(),
		},
		{
			ID:            transferKeyID,
			Type:          platform.KeyTypeECDSASecp256k1,
			Purpose:       platform.KeyPurposeTransfer,
			SecurityLevel: platform.SecurityLevelCritical,
			Data:          ti.moveKey.PubKey().SerializeCompressed(),
		},
	}
}

func seedState(t *testing.T, s store.Store, seed func(repo *state.Repository)) {
	t.Helper()
	tx, err := s.BeginTransaction()
	require.NoError(t, err)
	seed(state.NewRepository(tx, noopRecorder{}))
	require.NoError(t, tx.Commit())
}

// stateView opens a read transaction rolled back at test cleanup.
func stateView(t *testing.T, s store.Store) *state.Repository {
	t.Helper()
	tx, err := s.BeginTransaction()
	require.NoError(t, err)
	t.Cleanup(tx.Rollback)
	return state.NewRepository(tx, noopRecorder{})
}

func signAndEncode(
	t *testing.T,
	st platform.StateTransition,
	base *platform.SignedBase,
	key *btcec.PrivateKey,
	keyID platform.KeyID,
) []byte {
	t.Helper()
	return signAndEncodeAt(t, st, base, key, keyID, version.Latest)
}

func signAndEncodeAt(
	t *testing.T,
	st platform.StateTransition,
	base *platform.SignedBase,
	key *btcec.PrivateKey,
	keyID platform.KeyID,
	protocolVersion uint32,
) []byte {
	t.Helper()
	base.Protocol = protocolVersion
	base.SignaturePublicKey = keyID
	base.SignatureData = nil

	message, err := st.SignableBytes()
	require.NoError(t, err)
	digest := platform.SigningDigest(message)
	sig, err := ecdsa.SignCompact(key, digest[:], true)
	require.NoError(t, err)
	base.SignatureData = sig

	raw, err := platform.EncodeTransition(st)
	require.NoError(t, err)
	return raw
}

func testBlock(height uint64) platform.BlockInfo {
	return platform.BlockInfo{
		Height:                height,
		TimeMs:                1_700_000_000_000 + height*5_000,
		Epoch:                 1,
		CoreChainLockedHeight: 2000,
		ProtocolVersion:       version.Latest,
	}
}

func creditTransferRaw(
	t *testing.T,
	sender *testIdentity,
	recipient platform.Identifier,
	amount platform.Credits,
	nonce platform.Nonce,
) []byte {
	t.Helper()
	transfer := &platform.IdentityCreditTransferTransition{
		IdentityID:  sender.id,
		RecipientID: recipient,
		Amount:      amount,
		Nonce:       nonce,
	}
	return signAndEncode(t, transfer, &transfer.SignedBase, sender.moveKey, transferKeyID)
}

func TestExecuteBlockTransfersCredits(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 0))
	})

	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{
		creditTransferRaw(t, alice, bob.id, 5000, 1),
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	outcome := result.Results[0]
	require.NoError(t, outcome.Err)
	assert.Equal(t, platform.TransitionIdentityCreditTransfer, outcome.Kind)
	assert.True(t, outcome.Paid)
	assert.Greater(t, outcome.Charged, platform.Credits(0))

	repo := stateView(t, s)
	bobBalance, _, err := repo.FetchIdentityBalance(bob.id)
	require.NoError(t, err)
	assert.Equal(t, platform.Credits(5000), bobBalance)

	aliceBalance, _, err := repo.FetchIdentityBalance(alice.id)
	require.NoError(t, err)
	assert.Equal(t, platform.Credits(1_000_000_000)-5000-outcome.Charged, aliceBalance)

	nonce, _, err := repo.FetchNonce(alice.id, nil)
	require.NoError(t, err)
	assert.Equal(t, platform.Nonce(1), nonce)
}

func TestExecuteBlockTransferKeepsMinimumLeftover(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 5000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 0))
	})

	// Moving the exact balance would leave nothing behind for future fees;
	// the sender must keep the minimum leftover on top of the amount.
	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{
		creditTransferRaw(t, alice, bob.id, 5000, 1),
	})
	require.NoError(t, err)

	outcome := result.Results[0]
	require.Error(t, outcome.Err)
	assert.True(t, sterrors.HasErrorCode(outcome.Err, sterrors.ErrCodeInsufficientBalanceError))
	assert.True(t, outcome.Paid)

	repo := stateView(t, s)
	bobBalance, _, err := repo.FetchIdentityBalance(bob.id)
	require.NoError(t, err)
	assert.Equal(t, platform.Credits(0), bobBalance)
}

func TestExecuteBlockWithdrawalKeepsMinimumLeftover(t *testing.T) {
	alice := newTestIdentity(1)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 20_000))
	})

	withdrawal := &platform.IdentityCreditWithdrawalTransition{
		IdentityID:     alice.id,
		Amount:         20_000,
		CoreFeePerByte: 1,
		OutputScript:   []byte{0x76, 0xA9},
		Nonce:          1,
	}
	raw := signAndEncode(t, withdrawal, &withdrawal.SignedBase, alice.moveKey, transferKeyID)

	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{raw})
	require.NoError(t, err)

	outcome := result.Results[0]
	require.Error(t, outcome.Err)
	assert.True(t, sterrors.HasErrorCode(outcome.Err, sterrors.ErrCodeInsufficientBalanceError))
	assert.True(t, outcome.Paid)
}

func TestExecuteBlockRejectsReplayedNonce(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 0))
	})

	raw := creditTransferRaw(t, alice, bob.id, 5000, 1)
	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{raw, raw})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	require.NoError(t, result.Results[0].Err)
	require.Error(t, result.Results[1].Err)
	assert.True(t, sterrors.HasErrorCode(result.Results[1].Err, sterrors.ErrCodeInvalidNonceError))
	// Nonce rejections still bill the signer for the validation work.
	assert.True(t, result.Results[1].Paid)

	repo := stateView(t, s)
	bobBalance, _, err := repo.FetchIdentityBalance(bob.id)
	require.NoError(t, err)
	assert.Equal(t, platform.Credits(5000), bobBalance)
}

func TestExecuteBlockIsDeterministic(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	build := func() store.Store {
		s := store.NewMemoryStore()
		seedState(t, s, func(repo *state.Repository) {
			require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
			require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 500_000_000))
		})
		return s
	}

	transitions := [][]byte{
		creditTransferRaw(t, alice, bob.id, 5000, 1),
		creditTransferRaw(t, bob, alice.id, 250, 1),
		[]byte("not a transition"),
		creditTransferRaw(t, alice, bob.id, 1, 2),
	}

	first, err := NewVM(build(), NewContext()).ExecuteBlock(testBlock(7), transitions)
	require.NoError(t, err)
	second, err := NewVM(build(), NewContext()).ExecuteBlock(testBlock(7), transitions)
	require.NoError(t, err)

	assert.Equal(t, first.StateRoot, second.StateRoot)
	require.Len(t, second.Results, len(first.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Kind, second.Results[i].Kind)
		assert.Equal(t, first.Results[i].IsSuccess(), second.Results[i].IsSuccess())
		assert.Equal(t, first.Results[i].Charged, second.Results[i].Charged)
	}
}

func TestExecuteBlockChargesRejectedStateValidation(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 0))
	})

	vm := NewVM(s, NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{
		creditTransferRaw(t, alice, bob.id, 5000, 1),
	})
	require.NoError(t, err)

	outcome := result.Results[0]
	require.Error(t, outcome.Err)
	assert.True(t, sterrors.HasErrorCode(outcome.Err, sterrors.ErrCodeInsufficientBalanceError))
	assert.True(t, outcome.Paid)
	assert.Greater(t, outcome.Charged, platform.Credits(0))

	repo := stateView(t, s)
	aliceBalance, _, err := repo.FetchIdentityBalance(alice.id)
	require.NoError(t, err)
	assert.Equal(t, platform.Credits(1000)-outcome.Charged, aliceBalance)

	bobBalance, _, err := repo.FetchIdentityBalance(bob.id)
	require.NoError(t, err)
	assert.Zero(t, bobBalance)
}

func TestExecuteBlockUnknownProtocolVersionIsFatal(t *testing.T) {
	vm := NewVM(store.NewMemoryStore(), NewContext())
	block := testBlock(1)
	block.ProtocolVersion = 99

	_, err := vm.ExecuteBlock(block, nil)
	require.Error(t, err)
	assert.ErrorAs(t, err, &version.UnknownProtocolVersionError{})
}

func TestExecuteBlockRejectsMalformedPayload(t *testing.T) {
	vm := NewVM(store.NewMemoryStore(), NewContext())
	result, err := vm.ExecuteBlock(testBlock(1), [][]byte{[]byte{0xff, 0x00, 0x01}})
	require.NoError(t, err)

	outcome := result.Results[0]
	require.Error(t, outcome.Err)
	assert.True(t, sterrors.HasErrorCode(outcome.Err, sterrors.ErrCodeStateTransitionDecodingError))
	assert.False(t, outcome.Paid)
}

func TestSimulateBlockLeavesStoreUntouched(t *testing.T) {
	alice := newTestIdentity(1)
	bob := newTestIdentity(2)
	s := store.NewMemoryStore()
	seedState(t, s, func(repo *state.Repository) {
		require.NoError(t, repo.CreateIdentity(alice.id, alice.publicKeys(), 1_000_000_000))
		require.NoError(t, repo.CreateIdentity(bob.id, bob.publicKeys(), 0))
	})

	vm := NewVM(s, NewContext())
	result, err := vm.SimulateBlock(testBlock(1), [][]byte{
		creditTransferRaw(t, alice, bob.id, 5000, 1),
	})
	require.NoError(t, err)
	require.NoError(t, result.Results[0].Err)
	assert.Greater(t, result.Results[0].Charged, platform.Credits(0))

	repo := stateView(t, s)
	aliceBalance, _, err := repo.FetchIdentityBalance(alice.id)
	require.NoError(t, err)
	assert.Equal(t, platform.Credits(1_000_000_000), aliceBalance)

	nonce, _, err := repo.FetchNonce(alice.id, nil)
	require.NoError(t, err)
	assert.Zero(t, nonce)
}
