// Package triggers implements the data trigger engine: registrable
// side-effect hooks keyed by (contract id, document type, action kind) that
// run after a document action is produced and may veto it or append
// follow-up actions. Matching is exact on all three keys; there is no
// wildcard fallback. The binding table is populated once at process start
// and read-only afterwards.
package triggers

import (
	"github.com/rs/zerolog"

	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// Context carries what a trigger may observe. Triggers never touch storage;
// everything they need is resolved onto the action or this context before
// dispatch.
type Context struct {
	Log     zerolog.Logger
	Block   platform.BlockInfo
	OwnerID platform.Identifier
}

// Trigger is one side-effect hook. Execute may return additional synthetic
// actions to be applied after the triggering action, or an error to reject
// the transition the action came from.
type Trigger interface {
	Execute(action *actions.DocumentAction, ctx *Context, v version.RuleVersion) ([]actions.Action, error)
}

// TriggerFunc adapts a plain function to the Trigger interface.
type TriggerFunc func(action *actions.DocumentAction, ctx *Context, v version.RuleVersion) ([]actions.Action, error)

func (f TriggerFunc) Execute(
	action *actions.DocumentAction,
	ctx *Context,
	v version.RuleVersion,
) ([]actions.Action, error) {
	return f(action, ctx, v)
}

// Binding ties a trigger to its exact dispatch key.
type Binding struct {
	ContractID   platform.Identifier
	DocumentType string
	Action       actions.Kind
	Trigger      Trigger
}

// IsMatching reports whether the binding applies to the given key. Exact on
// all three components.
func (b Binding) IsMatching(contractID platform.Identifier, docType string, kind actions.Kind) bool {
	return b.ContractID == contractID && b.DocumentType == docType && b.Action == kind
}

// Registry holds the process-wide trigger bindings in registration order.
type Registry struct {
	bindings []Binding
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a binding. Registration order is execution order for
// bindings sharing a key, and it is a consensus concern: every node must
// register the same triggers in the same order.
func (r *Registry) Register(b Binding) *Registry {
	r.bindings = append(r.bindings, b)
	return r
}

// ExecuteFor runs every matching trigger against the action in registration
// order and reports how many ran, so the caller can charge for the work. The
// first trigger error stops the chain and is wrapped with the contract and
// document identifiers. Synthetic actions from all triggers are concatenated
// in execution order.
func (r *Registry) ExecuteFor(
	action *actions.DocumentAction,
	ctx *Context,
	v version.RuleVersion,
) (extra []actions.Action, executed int, err error) {
	for _, b := range r.bindings {
		if !b.IsMatching(action.Contract.ID, action.Document.Type, action.ActionKind) {
			continue
		}
		executed++
		more, err := b.Trigger.Execute(action, ctx, v)
		if err != nil {
			return nil, executed, sterrors.DataTriggerExecutionError{
				ContractID:   action.Contract.ID,
				TransitionID: action.Document.ID,
				Message:      err.Error(),
			}
		}
		extra = append(extra, more...)
	}
	return extra, executed, nil
}
