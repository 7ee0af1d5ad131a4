package platform

// NewDocumentID derives a document id from its owner, contract, type and the
// creation entropy. Like contract ids, the derivation is a consensus rule.
func NewDocumentID(ownerID, contractID Identifier, docType string, entropy []byte) Identifier {
	seed := make([]byte, 0, IdentifierLength+len(docType)+1+len(entropy))
	seed = append(seed, contractID[:]...)
	seed = append(seed, docType...)
	seed = append(seed, 0)
	seed = append(seed, entropy...)
	return NewIdentifier(ownerID, seed)
}

// Document is a stored platform document. Data holds the schema-validated
// user properties; property-level schema validation happens at the codec
// boundary and is not repeated here.
type Document struct {
	ID         Identifier             `cbor:"id"`
	OwnerID    Identifier             `cbor:"ownerId"`
	ContractID Identifier             `cbor:"contractId"`
	Type       string                 `cbor:"type"`
	Revision   uint64                 `cbor:"revision"`
	CreatedAt  uint64                 `cbor:"createdAt,omitempty"`
	UpdatedAt  uint64                 `cbor:"updatedAt,omitempty"`
	Data       map[string]interface{} `cbor:"data"`
}
