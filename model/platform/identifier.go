package platform

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// IdentifierLength is the byte length of every platform identifier.
const IdentifierLength = 32

// An Identifier uniquely identifies an entity on the platform: an identity, a
// data contract, a document, a token position within a contract, or a vote
// poll. Identifiers are derived deterministically, never assigned.
type Identifier [IdentifierLength]byte

// ZeroIdentifier is the all-zero identifier. It is never a valid entity id.
var ZeroIdentifier = Identifier{}

// NewIdentifier hashes the owner id together with entropy to derive the id of
// a newly created entity. The derivation is a consensus rule: every node must
// compute the same id for the same inputs.
func NewIdentifier(ownerID Identifier, entropy []byte) Identifier {
	return Identifier(hashDouble(append(ownerID[:], entropy...)))
}

// IdentifierFromBytes converts a byte slice to an Identifier. The slice must
// be exactly IdentifierLength bytes.
func IdentifierFromBytes(b []byte) (Identifier, error) {
	var id Identifier
	if len(b) != IdentifierLength {
		return id, fmt.Errorf("invalid identifier length: expected %d, got %d", IdentifierLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Bytes returns the identifier as a byte slice.
func (id Identifier) Bytes() []byte {
	return id[:]
}

// IsZero returns true if the identifier is all zeroes.
func (id Identifier) IsZero() bool {
	return id == ZeroIdentifier
}

// Less imposes a total order on identifiers, used wherever deterministic
// iteration over identifier-keyed values is required.
func (id Identifier) Less(other Identifier) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

func (id Identifier) String() string {
	return base58.Encode(id[:])
}

// hashDouble is sha256d, the digest used for id derivation and transition
// signing digests.
func hashDouble(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// SigningDigest returns the digest that transition signatures commit to.
func SigningDigest(data []byte) [32]byte {
	return hashDouble(data)
}
