package platform

// VotePollStatus is the lifecycle state of a contested-resource vote poll.
type VotePollStatus uint8

const (
	VotePollNotStarted VotePollStatus = iota
	VotePollStarted
	VotePollAwarded
	VotePollLocked
)

func (s VotePollStatus) String() string {
	switch s {
	case VotePollNotStarted:
		return "NotStarted"
	case VotePollStarted:
		return "Started"
	case VotePollAwarded:
		return "Awarded"
	case VotePollLocked:
		return "Locked"
	default:
		return "Unknown"
	}
}

// VotePoll is a contested-resource poll masternodes vote on.
type VotePoll struct {
	ID             Identifier     `cbor:"id"`
	Status         VotePollStatus `cbor:"status"`
	EndBlockHeight uint64         `cbor:"endBlockHeight"`
}

// ResourceVoteChoice is a masternode's choice in a vote poll.
type ResourceVoteChoice struct {
	// TowardsIdentity votes for an identity to win the contested resource.
	// Abstain and Lock are the two non-identity choices.
	TowardsIdentity *Identifier `cbor:"towardsIdentity,omitempty"`
	Abstain         bool        `cbor:"abstain,omitempty"`
	Lock            bool        `cbor:"lock,omitempty"`
}
