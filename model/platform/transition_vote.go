package platform

// MasternodeVoteTransition casts a masternode's vote in a contested-resource
// poll. The owner is the voting identity derived from the masternode's
// provider registration.
type MasternodeVoteTransition struct {
	SignedBase
	ProTxHash  Identifier         `cbor:"proTxHash"`
	VoterID    Identifier         `cbor:"voterId"`
	VotePollID Identifier         `cbor:"votePollId"`
	Choice     ResourceVoteChoice `cbor:"choice"`
	Nonce      Nonce              `cbor:"nonce"`
}

func (t *MasternodeVoteTransition) Kind() TransitionKind { return TransitionMasternodeVote }
func (t *MasternodeVoteTransition) OwnerID() Identifier  { return t.VoterID }

func (t *MasternodeVoteTransition) SignableBytes() ([]byte, error) {
	c := *t
	c.SignatureData = nil
	return marshalSignable(t.Kind(), &c)
}

func (t *MasternodeVoteTransition) RequiredSecurityLevel() SecurityLevel {
	return SecurityLevelHigh
}

func (t *MasternodeVoteTransition) TransitionNonce() Nonce       { return t.Nonce }
func (t *MasternodeVoteTransition) NonceContractID() *Identifier { return nil }
