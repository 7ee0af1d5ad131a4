// Package crypto verifies state transition signatures against identity
// public keys. Callers get closed, stable errors; raw errors from the
// underlying libraries never cross this boundary, because their text would
// otherwise leak into consensus-visible state.
package crypto

import (
	"bytes"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/dashpay/platform-engine/model/platform"
)

var (
	// ErrInvalidSignature means the signature does not verify against the key.
	ErrInvalidSignature = errors.New("signature is invalid")
	// ErrMalformedSignature means the signature bytes could not be parsed.
	ErrMalformedSignature = errors.New("signature is malformed")
	// ErrMalformedPublicKey means the stored key material is not decodable.
	ErrMalformedPublicKey = errors.New("public key is malformed")
	// ErrUnsupportedKeyType means the key type cannot be used for signing.
	ErrUnsupportedKeyType = errors.New("unsupported key type")
)

// blsDST is the domain separation tag for hashing messages to G2.
var blsDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_DASH_PLATFORM_")

// VerifySignature checks sig over message with the given identity key. The
// message is the transition's signable bytes; the digest scheme per key type
// is a consensus rule.
func VerifySignature(key platform.IdentityPublicKey, message, sig []byte) error {
	switch key.Type {
	case platform.KeyTypeECDSASecp256k1:
		return verifyECDSA(key.Data, message, sig)
	case platform.KeyTypeBLS12381:
		return verifyBLS(key.Data, message, sig)
	case platform.KeyTypeECDSAHash160:
		return verifyECDSAHash160(key.Data, message, sig)
	default:
		return ErrUnsupportedKeyType
	}
}

// VerifyAssetLockSignature checks a one-time-key signature on an asset-lock
// funded transition. The compact signature must recover to a public key
// whose hash160 matches the key hash the locked output commits to.
func VerifyAssetLockSignature(publicKeyHash, message, sig []byte) error {
	return verifyECDSAHash160(publicKeyHash, message, sig)
}

// verifyECDSA expects a 65-byte compact recoverable signature and a 33-byte
// compressed public key. The signed digest is sha256d of the message.
func verifyECDSA(keyData, message, sig []byte) error {
	digest := platform.SigningDigest(message)
	pub, _, err := ecdsa.RecoverCompact(sig, digest[:])
	if err != nil {
		return ErrMalformedSignature
	}
	if !bytes.Equal(pub.SerializeCompressed(), keyData) {
		return ErrInvalidSignature
	}
	return nil
}

// verifyECDSAHash160 is the hash-of-key variant: the stored key material is
// the 20-byte hash160 of the compressed public key.
func verifyECDSAHash160(keyData, message, sig []byte) error {
	digest := platform.SigningDigest(message)
	pub, _, err := ecdsa.RecoverCompact(sig, digest[:])
	if err != nil {
		return ErrMalformedSignature
	}
	if !bytes.Equal(btcutil.Hash160(pub.SerializeCompressed()), keyData) {
		return ErrInvalidSignature
	}
	return nil
}

// verifyBLS checks a BLS signature with the public key in G1 (48 bytes
// compressed) and the signature in G2 (96 bytes compressed):
// e(-g1, sig) * e(pk, H(m)) == 1.
func verifyBLS(keyData, message, sig []byte) error {
	var pk bls12381.G1Affine
	if _, err := pk.SetBytes(keyData); err != nil {
		return ErrMalformedPublicKey
	}
	if pk.IsInfinity() {
		return ErrMalformedPublicKey
	}

	var s bls12381.G2Affine
	if _, err := s.SetBytes(sig); err != nil {
		return ErrMalformedSignature
	}

	hm, err := bls12381.HashToG2(message, blsDST)
	if err != nil {
		return ErrMalformedSignature
	}

	_, _, g1, _ := bls12381.Generators()
	var negG1 bls12381.G1Affine
	negG1.Neg(&g1)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{negG1, pk},
		[]bls12381.G2Affine{s, hm},
	)
	if err != nil {
		return ErrMalformedSignature
	}
	if !ok {
		return ErrInvalidSignature
	}
	return nil
}
