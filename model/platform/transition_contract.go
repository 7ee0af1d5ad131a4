package platform

// DataContractCreateTransition registers a new data contract. The contract id
// must equal NewIdentifier(ownerID, entropy); the structural validator
// recomputes and compares it.
type DataContractCreateTransition struct {
	SignedBase
	DataContract DataContract `cbor:"dataContract"`
	Entropy      []byte       `cbor:"entropy"`
	Nonce        Nonce        `cbor:"nonce"`
}

func (t *DataContractCreateTransition) Kind() TransitionKind { return TransitionDataContractCreate }
func (t *DataContractCreateTransition) OwnerID() Identifier  { return t.DataContract.OwnerID }

func (t *DataContractCreateTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

func (t *DataContractCreateTransition) RequiredSecurityLevel() SecurityLevel {
	return SecurityLevelHigh
}

func (t *DataContractCreateTransition) TransitionNonce() Nonce       { return t.Nonce }
func (t *DataContractCreateTransition) NonceContractID() *Identifier { return nil }

// DataContractUpdateTransition replaces a registered contract with a new
// version. The version must be the stored version plus exactly one.
type DataContractUpdateTransition struct {
	SignedBase
	DataContract DataContract `cbor:"dataContract"`
	Nonce        Nonce        `cbor:"nonce"`
}

func (t *DataContractUpdateTransition) Kind() TransitionKind { return TransitionDataContractUpdate }
func (t *DataContractUpdateTransition) OwnerID() Identifier  { return t.DataContract.OwnerID }

func (t *DataContractUpdateTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

func (t *DataContractUpdateTransition) RequiredSecurityLevel() SecurityLevel {
	return SecurityLevelHigh
}

func (t *DataContractUpdateTransition) TransitionNonce() Nonce { return t.Nonce }
func (t *DataContractUpdateTransition) NonceContractID() *Identifier {
	id := t.DataContract.ID
	return &id
}
