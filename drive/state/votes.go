package state

import (
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/store"
)

// FetchVotePoll loads a vote poll by id.
func (r *Repository) FetchVotePoll(id platform.Identifier) (*platform.VotePoll, bool, error) {
	var poll platform.VotePoll
	found, err := r.getRecord(store.PathVotePoll, id.Bytes(), &poll)
	if err != nil || !found {
		return nil, found, err
	}
	return &poll, true, nil
}

func (r *Repository) PutVotePoll(poll *platform.VotePoll) error {
	return r.putRecord(store.PathVotePoll, poll.ID.Bytes(), poll)
}

// voteKey scopes a vote to (poll, masternode). One masternode casts at most
// one vote per poll; a repeat is a rejection, not an overwrite.
func voteKey(pollID platform.Identifier, proTxHash []byte) []byte {
	return append(pollID.Bytes(), proTxHash...)
}

// HasVote reports whether the masternode already voted in the poll.
func (r *Repository) HasVote(pollID platform.Identifier, proTxHash []byte) (bool, error) {
	_, found, err := r.get(store.PathVote, voteKey(pollID, proTxHash))
	return found, err
}

// voteRecord stores one cast vote for tallying at poll close.
type voteRecord struct {
	VoterID platform.Identifier         `cbor:"voterId"`
	Choice  platform.ResourceVoteChoice `cbor:"choice"`
}

// PutVote records a masternode's vote.
func (r *Repository) PutVote(
	pollID platform.Identifier,
	proTxHash []byte,
	voterID platform.Identifier,
	choice platform.ResourceVoteChoice,
) error {
	return r.putRecord(store.PathVote, voteKey(pollID, proTxHash), voteRecord{
		VoterID: voterID,
		Choice:  choice,
	})
}
