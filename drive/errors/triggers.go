package errors

import (
	"fmt"

	"github.com/dashpay/platform-engine/model/platform"
)

// DataTriggerExecutionError wraps a trigger's own failure with the
// identifiers needed to attribute it. A trigger error rejects only the
// transition the trigger was attached to, never the whole block.
type DataTriggerExecutionError struct {
	ContractID   platform.Identifier
	TransitionID platform.Identifier
	Message      string
}

func (e DataTriggerExecutionError) Error() string {
	return fmt.Sprintf(
		"%s data trigger on contract %s failed for transition %s: %s",
		e.Code().String(), e.ContractID, e.TransitionID, e.Message)
}

func (e DataTriggerExecutionError) Code() ErrorCode { return ErrCodeDataTriggerExecutionError }
