package crypto

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashpay/platform-engine/model/platform"
)

func signECDSA(t *testing.T, priv *btcec.PrivateKey, message []byte) []byte {
	digest := platform.SigningDigest(message)
	sig, err := ecdsa.SignCompact(priv, digest[:], true)
	require.NoError(t, err)
	return sig
}

func TestVerifyECDSASecp256k1(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	key := platform.IdentityPublicKey{
		Type: platform.KeyTypeECDSASecp256k1,
		Data: priv.PubKey().SerializeCompressed(),
	}
	message := []byte("state transition payload")

	sig := signECDSA(t, priv, message)
	require.NoError(t, VerifySignature(key, message, sig))

	assert.Equal(t, ErrInvalidSignature, VerifySignature(key, []byte("other payload"), sig))

	sig[10] ^= 0xff
	err = VerifySignature(key, message, sig)
	assert.Error(t, err)
}

func TestVerifyECDSAHash160(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	key := platform.IdentityPublicKey{
		Type: platform.KeyTypeECDSAHash160,
		Data: btcutil.Hash160(priv.PubKey().SerializeCompressed()),
	}
	message := []byte("hash160 signed payload")

	sig := signECDSA(t, priv, message)
	require.NoError(t, VerifySignature(key, message, sig))

	other, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	assert.Equal(t, ErrInvalidSignature,
		VerifySignature(key, message, signECDSA(t, other, message)))
}

func TestVerifyBLS12381(t *testing.T) {
	secret := big.NewInt(0)
	secret.SetString("43952394857120984712093857219034875", 10)

	_, _, g1, _ := bls12381.Generators()
	var pk bls12381.G1Affine
	pk.ScalarMultiplication(&g1, secret)

	message := []byte("bls signed payload")
	hm, err := bls12381.HashToG2(message, blsDST)
	require.NoError(t, err)
	var sig bls12381.G2Affine
	sig.ScalarMultiplication(&hm, secret)

	pkBytes := pk.Bytes()
	key := platform.IdentityPublicKey{
		Type: platform.KeyTypeBLS12381,
		Data: pkBytes[:],
	}

	sigBytes := sig.Bytes()
	require.NoError(t, VerifySignature(key, message, sigBytes[:]))

	assert.Equal(t, ErrInvalidSignature,
		VerifySignature(key, []byte("different payload"), sigBytes[:]))
}

func TestVerifyUnsupportedKeyType(t *testing.T) {
	key := platform.IdentityPublicKey{
		Type: platform.KeyTypeBIP13ScriptHash,
		Data: []byte{1, 2, 3},
	}
	assert.Equal(t, ErrUnsupportedKeyType, VerifySignature(key, []byte("m"), []byte("s")))
}
