package platform

// GroupPosition addresses an authorization group within a data contract.
type GroupPosition uint16

// GroupMemberPower is the voting power a member contributes toward a group's
// required threshold.
type GroupMemberPower uint32

// Group is a multi-party authorization group defined by a data contract.
// An action guarded by a group executes once the aggregated power of its
// signers reaches RequiredPower.
type Group struct {
	Members       map[Identifier]GroupMemberPower `cbor:"members"`
	RequiredPower GroupMemberPower                `cbor:"requiredPower"`
}

// MemberPower returns the power of the given member, zero if not a member.
func (g Group) MemberPower(id Identifier) GroupMemberPower {
	return g.Members[id]
}

// DocumentType describes one kind of document a contract accepts.
type DocumentType struct {
	Name              string            `cbor:"name"`
	Mutable           bool              `cbor:"mutable"`
	CanBeDeleted      bool              `cbor:"canBeDeleted"`
	UniqueIndices     []Index           `cbor:"uniqueIndices"`
	RequiredFields    []string          `cbor:"requiredFields"`
	CreationTokenCost *TokenPaymentInfo `cbor:"creationTokenCost,omitempty"`
}

// Index is a named tuple of document properties with a uniqueness constraint.
type Index struct {
	Name       string   `cbor:"name"`
	Properties []string `cbor:"properties"`
}

// TokenPaymentInfo prices a document operation in a contract token.
type TokenPaymentInfo struct {
	TokenContractPosition TokenPosition `cbor:"tokenContractPosition"`
	Amount                TokenAmount   `cbor:"amount"`
}

// DataContract is the registered schema for documents and tokens. Version is
// bumped by exactly one on every update; the gap rule is a consensus rule
// enforced by the contract-update state validator.
type DataContract struct {
	ID            Identifier                           `cbor:"id"`
	OwnerID       Identifier                           `cbor:"ownerId"`
	Version       uint32                               `cbor:"version"`
	DocumentTypes map[string]DocumentType              `cbor:"documentTypes"`
	Groups        map[GroupPosition]Group              `cbor:"groups,omitempty"`
	Tokens        map[TokenPosition]TokenConfiguration `cbor:"tokens,omitempty"`
}

// DocumentType looks up a document type by name.
func (dc *DataContract) DocumentType(name string) (DocumentType, bool) {
	dt, ok := dc.DocumentTypes[name]
	return dt, ok
}

// Group looks up an authorization group by position.
func (dc *DataContract) Group(pos GroupPosition) (Group, bool) {
	g, ok := dc.Groups[pos]
	return g, ok
}

// Token looks up a token configuration by position.
func (dc *DataContract) Token(pos TokenPosition) (TokenConfiguration, bool) {
	tc, ok := dc.Tokens[pos]
	return tc, ok
}

// TokenID derives the identifier of the token at the given position.
func (dc *DataContract) TokenID(pos TokenPosition) Identifier {
	return NewIdentifier(dc.ID, []byte{byte(pos >> 8), byte(pos)})
}
