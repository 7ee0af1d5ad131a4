package platform

// KeyID identifies a public key within an identity.
type KeyID uint32

// KeyType enumerates the public key algorithms the protocol knows about.
// Only a subset is usable for signing state transitions; see
// drive.SupportedSigningKeyTypes.
type KeyType uint8

const (
	KeyTypeECDSASecp256k1    KeyType = 0
	KeyTypeBLS12381          KeyType = 1
	KeyTypeECDSAHash160      KeyType = 2
	KeyTypeBIP13ScriptHash   KeyType = 3
	KeyTypeEDDSA25519Hash160 KeyType = 4
)

func (t KeyType) String() string {
	switch t {
	case KeyTypeECDSASecp256k1:
		return "ECDSA_SECP256K1"
	case KeyTypeBLS12381:
		return "BLS12_381"
	case KeyTypeECDSAHash160:
		return "ECDSA_HASH160"
	case KeyTypeBIP13ScriptHash:
		return "BIP13_SCRIPT_HASH"
	case KeyTypeEDDSA25519Hash160:
		return "EDDSA_25519_HASH160"
	default:
		return "UNKNOWN_KEY_TYPE"
	}
}

// SecurityLevel orders keys by how strongly they are expected to be guarded.
// Lower values are stronger: Master(0) > Critical(1) > High(2) > Medium(3).
type SecurityLevel uint8

const (
	SecurityLevelMaster   SecurityLevel = 0
	SecurityLevelCritical SecurityLevel = 1
	SecurityLevelHigh     SecurityLevel = 2
	SecurityLevelMedium   SecurityLevel = 3
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityLevelMaster:
		return "MASTER"
	case SecurityLevelCritical:
		return "CRITICAL"
	case SecurityLevelHigh:
		return "HIGH"
	case SecurityLevelMedium:
		return "MEDIUM"
	default:
		return "UNKNOWN_SECURITY_LEVEL"
	}
}

// StrongerOrEqual reports whether l satisfies a requirement of required.
func (l SecurityLevel) StrongerOrEqual(required SecurityLevel) bool {
	return l <= required
}

// KeyPurpose restricts what a key may be used for.
type KeyPurpose uint8

const (
	KeyPurposeAuthentication KeyPurpose = 0
	KeyPurposeEncryption     KeyPurpose = 1
	KeyPurposeDecryption     KeyPurpose = 2
	KeyPurposeTransfer       KeyPurpose = 3
)

// IdentityPublicKey is a public key registered to an identity.
//
// Data holds the serialized key material: a 33-byte compressed point for
// ECDSA secp256k1, a 48-byte compressed G1 point for BLS12-381, and a
// 20-byte key hash for the hash-of-key types.
type IdentityPublicKey struct {
	ID            KeyID         `cbor:"id"`
	Type          KeyType       `cbor:"type"`
	Purpose       KeyPurpose    `cbor:"purpose"`
	SecurityLevel SecurityLevel `cbor:"securityLevel"`
	ReadOnly      bool          `cbor:"readOnly"`
	Disabled      bool          `cbor:"disabled"`
	Data          []byte        `cbor:"data"`
}

// PartialIdentity is a reduced view of an identity loaded on demand for
// signature, nonce, and balance checks. It is fetched fresh per validation
// pass and never cached across transitions within a block, because balance
// and nonce can change mid-block.
type PartialIdentity struct {
	ID         Identifier
	Balance    Credits
	Revision   uint64
	PublicKeys map[KeyID]IdentityPublicKey
}

// Key returns the public key with the given id, if the identity has it.
func (pi *PartialIdentity) Key(id KeyID) (IdentityPublicKey, bool) {
	key, ok := pi.PublicKeys[id]
	return key, ok
}
