package drive

import (
	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/drive/fees"
	"github.com/dashpay/platform-engine/drive/state"
	"github.com/dashpay/platform-engine/drive/triggers"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// triggerExecutionCost is the flat processing charge per executed trigger,
// on top of whatever operations the trigger's synthetic actions cost.
const triggerExecutionCost platform.Credits = 60_000

// TransitionTriggerExecutor runs data triggers over the document actions a
// transition produced. Triggers may append synthetic actions to the
// procedure; appended actions are themselves eligible for trigger dispatch,
// so a trigger chain runs to fixpoint over the FIFO list.
type TransitionTriggerExecutor struct{}

// NewTransitionTriggerExecutor constructs a trigger executor stage.
func NewTransitionTriggerExecutor() TransitionTriggerExecutor {
	return TransitionTriggerExecutor{}
}

func (TransitionTriggerExecutor) Process(
	ctx Context,
	proc *TransitionProcedure,
	_ *state.Repository,
) error {
	if ctx.Triggers == nil || len(proc.Actions) == 0 {
		return nil
	}

	ruleVersion, err := proc.PlatformVersion.Resolve(version.MethodDataTriggers)
	if err != nil {
		return sterrors.WrapVersionError(err)
	}

	triggerCtx := &triggers.Context{
		Log:     ctx.Log,
		Block:   proc.Block,
		OwnerID: proc.Transition.OwnerID(),
	}

	// Synthetic actions appended during the loop are visited too, since the
	// slice grows behind the cursor.
	total := 0
	for i := 0; i < len(proc.Actions); i++ {
		docAction, ok := proc.Actions[i].(*actions.DocumentAction)
		if !ok {
			continue
		}
		extra, executed, err := ctx.Triggers.ExecuteFor(docAction, triggerCtx, ruleVersion)
		total += executed
		if err != nil {
			return err
		}
		proc.Actions = append(proc.Actions, extra...)
	}
	if total > 0 {
		proc.ExecCtx.AddOperation(fees.PreCalculatedOperation{
			Fee: fees.FeeResult{ProcessingFee: triggerExecutionCost * platform.Credits(total)},
		})
	}
	return nil
}
