package drive

import (
	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/model/platform"
)

func evaluateMasternodeVote(
	_ Context,
	proc *TransitionProcedure,
	repo *state.Repository,
) error {
	t := proc.Transition.(*platform.MasternodeVoteTransition)

	poll, found, err := repo.FetchVotePoll(t.VotePollID)
	if err != nil {
		return err
	}
	if !found {
		return sterrors.VotePollNotFoundError{VotePollID: t.VotePollID}
	}
	if poll.Status != platform.VotePollStarted {
		return sterrors.VotePollNotAvailableForVotingError{
			VotePollID: t.VotePollID,
			Status:     poll.Status,
		}
	}

	voted, err := repo.HasVote(t.VotePollID, t.ProTxHash.Bytes())
	if err != nil {
		return err
	}
	if voted {
		return sterrors.NewMasternodeVoteAlreadyCastError(t.VoterID, t.VotePollID)
	}

	proc.Actions = append(proc.Actions, &actions.MasternodeVoteAction{
		ProTxHash:  t.ProTxHash,
		VoterID:    t.VoterID,
		VotePollID: t.VotePollID,
		Choice:     t.Choice,
	})
	return nil
}
