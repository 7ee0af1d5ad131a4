// Package version is the versioned rule registry. Every validation and
// execution function in the pipeline is looked up through a PlatformVersion
// so that behavior at block height H always matches the protocol version
// active at H. Rule versions are never defaulted: an unregistered protocol
// version or method is an explicit error, not a fallback to latest.
package version

import (
	"fmt"
	"sort"
)

// Method names resolvable through the registry. Each names one versioned
// pipeline function.
const (
	MethodStructureContractCreate   = "stateTransition.dataContractCreate.basicStructure"
	MethodStructureContractUpdate   = "stateTransition.dataContractUpdate.basicStructure"
	MethodStructureDocumentsBatch   = "stateTransition.documentsBatch.basicStructure"
	MethodStructureIdentityCreate   = "stateTransition.identityCreate.basicStructure"
	MethodStructureIdentityUpdate   = "stateTransition.identityUpdate.basicStructure"
	MethodSignatureValidation       = "stateTransition.identitySignature.validate"
	MethodNonceValidation           = "stateTransition.nonce.validate"
	MethodStateContractCreate       = "stateTransition.dataContractCreate.state"
	MethodStateContractUpdate       = "stateTransition.dataContractUpdate.state"
	MethodStateDocumentsBatch       = "stateTransition.documentsBatch.state"
	MethodStateIdentityCreate       = "stateTransition.identityCreate.state"
	MethodStateIdentityTopUp        = "stateTransition.identityTopUp.state"
	MethodStateIdentityUpdate       = "stateTransition.identityUpdate.state"
	MethodStateCreditTransfer       = "stateTransition.identityCreditTransfer.state"
	MethodStateCreditWithdrawal     = "stateTransition.identityCreditWithdrawal.state"
	MethodStateMasternodeVote       = "stateTransition.masternodeVote.state"
	MethodStateTokenMint            = "stateTransition.tokenMint.state"
	MethodStateTokenBurn            = "stateTransition.tokenBurn.state"
	MethodStateTokenTransfer        = "stateTransition.tokenTransfer.state"
	MethodStateTokenFreeze          = "stateTransition.tokenFreeze.state"
	MethodStateTokenUnfreeze        = "stateTransition.tokenUnfreeze.state"
	MethodStateTokenEmergencyAction = "stateTransition.tokenEmergencyAction.state"
	MethodStateTokenDestroyFrozen   = "stateTransition.tokenDestroyFrozenFunds.state"
	MethodStateTokenRelease         = "stateTransition.tokenRelease.state"
	MethodTransformIntoAction       = "stateTransition.transformIntoAction"
	MethodDataTriggers              = "stateTransition.documentsBatch.dataTriggers"
	MethodFeeCalculation            = "fees.calculate"
	MethodApplyActions              = "execution.applyActions"
)

// RuleVersion selects one revision of a versioned pipeline function.
type RuleVersion uint16

// PlatformVersion is the immutable rule table of one protocol version.
type PlatformVersion struct {
	ProtocolVersion uint32
	methods         map[string]RuleVersion
}

// UnknownProtocolVersionError indicates a transition declared a protocol
// version the registry does not know.
type UnknownProtocolVersionError struct {
	Received uint32
	Known    []uint32
}

func (e UnknownProtocolVersionError) Error() string {
	return fmt.Sprintf("unknown protocol version %d, known versions %v", e.Received, e.Known)
}

// UnknownVersionMismatchError indicates that the registry has no rule
// revision for a method under the active protocol version. It is fatal for
// the transition being processed and is never silently defaulted to the
// latest known revision.
type UnknownVersionMismatchError struct {
	Method        string
	KnownVersions []RuleVersion
	Received      uint32
}

func (e UnknownVersionMismatchError) Error() string {
	return fmt.Sprintf(
		"version mismatch for method %q: protocol version %d has no registered rule, known rule versions %v",
		e.Method, e.Received, e.KnownVersions)
}

var registry = map[uint32]*PlatformVersion{
	1: {
		ProtocolVersion: 1,
		methods:         methodsV1(),
	},
	2: {
		ProtocolVersion: 2,
		methods:         methodsV2(),
	},
}

// Latest is the most recent protocol version the registry knows.
const Latest uint32 = 2

func methodsV1() map[string]RuleVersion {
	m := make(map[string]RuleVersion)
	for _, name := range []string{
		MethodStructureContractCreate,
		MethodStructureContractUpdate,
		MethodStructureDocumentsBatch,
		MethodStructureIdentityCreate,
		MethodStructureIdentityUpdate,
		MethodSignatureValidation,
		MethodNonceValidation,
		MethodStateContractCreate,
		MethodStateContractUpdate,
		MethodStateDocumentsBatch,
		MethodStateIdentityCreate,
		MethodStateIdentityTopUp,
		MethodStateIdentityUpdate,
		MethodStateCreditTransfer,
		MethodStateCreditWithdrawal,
		MethodStateMasternodeVote,
		MethodTransformIntoAction,
		MethodDataTriggers,
		MethodFeeCalculation,
		MethodApplyActions,
	} {
		m[name] = 0
	}
	return m
}

// methodsV2 adds token rules on top of v1. Tokens did not exist before
// protocol version 2, so resolving a token method under v1 fails.
func methodsV2() map[string]RuleVersion {
	m := methodsV1()
	for _, name := range []string{
		MethodStateTokenMint,
		MethodStateTokenBurn,
		MethodStateTokenTransfer,
		MethodStateTokenFreeze,
		MethodStateTokenUnfreeze,
		MethodStateTokenEmergencyAction,
		MethodStateTokenDestroyFrozen,
		MethodStateTokenRelease,
	} {
		m[name] = 0
	}
	return m
}

// Get returns the rule table for a protocol version.
func Get(protocolVersion uint32) (*PlatformVersion, error) {
	v, ok := registry[protocolVersion]
	if !ok {
		return nil, UnknownProtocolVersionError{
			Received: protocolVersion,
			Known:    knownProtocolVersions(),
		}
	}
	return v, nil
}

// IsKnown reports whether the registry has a rule table for the version.
func IsKnown(protocolVersion uint32) bool {
	_, ok := registry[protocolVersion]
	return ok
}

// Resolve returns the active revision of a versioned method. Every versioned
// pipeline function must be dispatched through this call.
func (v *PlatformVersion) Resolve(method string) (RuleVersion, error) {
	rule, ok := v.methods[method]
	if !ok {
		return 0, UnknownVersionMismatchError{
			Method:        method,
			KnownVersions: knownRuleVersions(method),
			Received:      v.ProtocolVersion,
		}
	}
	return rule, nil
}

func knownProtocolVersions() []uint32 {
	versions := make([]uint32, 0, len(registry))
	for pv := range registry {
		versions = append(versions, pv)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

func knownRuleVersions(method string) []RuleVersion {
	seen := make(map[RuleVersion]struct{})
	var rules []RuleVersion
	for _, v := range registry {
		if rule, ok := v.methods[method]; ok {
			if _, dup := seen[rule]; !dup {
				seen[rule] = struct{}{}
				rules = append(rules, rule)
			}
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i] < rules[j] })
	return rules
}
