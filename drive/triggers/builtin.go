package triggers

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/dashpay/platform-engine/drive/actions"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

// maxRewardShareFraction caps the total masternode reward share a payout
// identity set may claim, in basis points of the operator reward.
const maxRewardShareFraction = 10000

// maxDomainNameLength bounds the full domain name a name-service domain
// document may register.
const maxDomainNameLength = 253

// CreateDomainTrigger enforces the name-service rules on new domain
// documents: the normalized label must be the lower-cased label, the full
// domain name must stay within length bounds, and the document must carry
// the preorder salt hash that committed to the name.
func CreateDomainTrigger() Trigger {
	return TriggerFunc(func(action *actions.DocumentAction, ctx *Context, v version.RuleVersion) ([]actions.Action, error) {
		data := action.Document.Data

		label, ok := data["label"].(string)
		if !ok || label == "" {
			return nil, errors.New("domain document is missing the label")
		}
		normalized, ok := data["normalizedLabel"].(string)
		if !ok {
			return nil, errors.New("domain document is missing the normalized label")
		}
		if normalized != strings.ToLower(label) {
			return nil, fmt.Errorf(
				"normalized label %q is not the lower case of label %q", normalized, label)
		}

		parent, _ := data["normalizedParentDomainName"].(string)
		full := normalized
		if parent != "" {
			full = normalized + "." + parent
		}
		if len(full) > maxDomainNameLength {
			return nil, fmt.Errorf("full domain name exceeds %d characters", maxDomainNameLength)
		}

		salt, ok := data["preorderSalt"].([]byte)
		if !ok || len(salt) == 0 {
			return nil, errors.New("domain document is missing the preorder salt")
		}
		expected := sha256.Sum256(append(append([]byte(nil), salt...), []byte(full)...))
		committed, ok := data["saltedDomainHash"].([]byte)
		if !ok || !bytes.Equal(committed, expected[:]) {
			return nil, errors.New("salted domain hash does not commit to the preorder salt and name")
		}

		ctx.Log.Debug().
			Str("domain", full).
			Str("owner", action.Document.OwnerID.String()).
			Msg("domain registration accepted")
		return nil, nil
	})
}

// RejectTrigger unconditionally vetoes the action it is bound to. Bound to
// operations a contract's semantics forbid outright, e.g. replacing or
// deleting preorder documents.
func RejectTrigger(reason string) Trigger {
	return TriggerFunc(func(*actions.DocumentAction, *Context, version.RuleVersion) ([]actions.Action, error) {
		return nil, errors.New(reason)
	})
}

// RewardShareTrigger caps the total percentage a masternode operator may
// route to payout identities. The document's percentage plus the already
// committed total of the owner's other share documents must stay at or
// below the cap; the already committed total is resolved onto the action
// before dispatch.
func RewardShareTrigger(committedTotal func(owner platform.Identifier) (uint64, error)) Trigger {
	return TriggerFunc(func(action *actions.DocumentAction, ctx *Context, v version.RuleVersion) ([]actions.Action, error) {
		pct, ok := action.Document.Data["percentage"].(uint64)
		if !ok || pct == 0 {
			return nil, errors.New("reward share document is missing a positive percentage")
		}
		total, err := committedTotal(action.Document.OwnerID)
		if err != nil {
			return nil, err
		}
		if total+pct > maxRewardShareFraction {
			return nil, fmt.Errorf(
				"reward shares may not exceed %d basis points, committed %d plus requested %d",
				maxRewardShareFraction, total, pct)
		}
		return nil, nil
	})
}
