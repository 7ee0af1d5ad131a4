package platform

// DocumentTransitionAction is the operation a single document transition
// performs within a batch.
type DocumentTransitionAction uint8

const (
	DocumentTransitionCreate DocumentTransitionAction = iota
	DocumentTransitionReplace
	DocumentTransitionDelete
)

func (a DocumentTransitionAction) String() string {
	switch a {
	case DocumentTransitionCreate:
		return "create"
	case DocumentTransitionReplace:
		return "replace"
	case DocumentTransitionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// DocumentTransition is one document operation inside a batch. Create
// transitions carry entropy used to derive the document id; replace and
// delete reference an existing document by id and revision.
type DocumentTransition struct {
	Action     DocumentTransitionAction `cbor:"action"`
	ID         Identifier               `cbor:"id"`
	ContractID Identifier               `cbor:"contractId"`
	Type       string                   `cbor:"type"`
	Entropy    []byte                   `cbor:"entropy,omitempty"`
	Revision   uint64                   `cbor:"revision,omitempty"`
	Data       map[string]interface{}   `cbor:"data,omitempty"`
}

// DocumentsBatchTransition groups document operations by one owner. All
// operations in a batch share the owner's identity-contract nonce of the
// first referenced contract.
type DocumentsBatchTransition struct {
	SignedBase
	Owner       Identifier           `cbor:"ownerId"`
	Transitions []DocumentTransition `cbor:"transitions"`
	Nonce       Nonce                `cbor:"nonce"`
}

func (t *DocumentsBatchTransition) Kind() TransitionKind { return TransitionDocumentsBatch }
func (t *DocumentsBatchTransition) OwnerID() Identifier  { return t.Owner }

func (t *DocumentsBatchTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

func (t *DocumentsBatchTransition) RequiredSecurityLevel() SecurityLevel {
	return SecurityLevelHigh
}

func (t *DocumentsBatchTransition) TransitionNonce() Nonce { return t.Nonce }
func (t *DocumentsBatchTransition) NonceContractID() *Identifier {
	if len(t.Transitions) == 0 {
		return nil
	}
	id := t.Transitions[0].ContractID
	return &id
}
