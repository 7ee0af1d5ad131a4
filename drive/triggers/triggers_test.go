package triggers

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashpay/platform-engine/drive/actions"
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/version"
)

func testID(b byte) platform.Identifier {
	var id platform.Identifier
	for i := range id {
		id[i] = b
	}
	return id
}

func domainAction(contractID platform.Identifier, data map[string]interface{}) *actions.DocumentAction {
	return &actions.DocumentAction{
		ActionKind: actions.KindDocumentCreate,
		Document: &platform.Document{
			ID:         testID(9),
			OwnerID:    testID(1),
			ContractID: contractID,
			Type:       "domain",
			Data:       data,
		},
		Contract: &platform.DataContract{ID: contractID, OwnerID: testID(2)},
	}
}

func validDomainData(label, parent string) map[string]interface{} {
	full := label
	if parent != "" {
		full = label + "." + parent
	}
	salt := []byte{1, 2, 3}
	hash := sha256.Sum256(append(append([]byte(nil), salt...), []byte(full)...))
	return map[string]interface{}{
		"label":                      label,
		"normalizedLabel":            label,
		"normalizedParentDomainName": parent,
		"preorderSalt":               salt,
		"saltedDomainHash":           hash[:],
	}
}

func TestRegistryExactMatching(t *testing.T) {
	contractID := testID(3)
	otherContract := testID(4)

	var fired []string
	record := func(name string) Trigger {
		return TriggerFunc(func(*actions.DocumentAction, *Context, version.RuleVersion) ([]actions.Action, error) {
			fired = append(fired, name)
			return nil, nil
		})
	}

	registry := NewRegistry().
		Register(Binding{ContractID: contractID, DocumentType: "domain", Action: actions.KindDocumentCreate, Trigger: record("first")}).
		Register(Binding{ContractID: contractID, DocumentType: "domain", Action: actions.KindDocumentDelete, Trigger: record("wrongAction")}).
		Register(Binding{ContractID: otherContract, DocumentType: "domain", Action: actions.KindDocumentCreate, Trigger: record("wrongContract")}).
		Register(Binding{ContractID: contractID, DocumentType: "preorder", Action: actions.KindDocumentCreate, Trigger: record("wrongType")}).
		Register(Binding{ContractID: contractID, DocumentType: "domain", Action: actions.KindDocumentCreate, Trigger: record("second")})

	ctx := &Context{Log: zerolog.Nop()}
	_, executed, err := registry.ExecuteFor(domainAction(contractID, validDomainData("alice", "dash")), ctx, 1)
	require.NoError(t, err)

	// Only exact matches ran, in registration order.
	assert.Equal(t, []string{"first", "second"}, fired)
	assert.Equal(t, 2, executed)
}

func TestTriggerErrorIsWrapped(t *testing.T) {
	contractID := testID(5)
	registry := NewRegistry().Register(Binding{
		ContractID:   contractID,
		DocumentType: "domain",
		Action:       actions.KindDocumentCreate,
		Trigger:      RejectTrigger("no domains today"),
	})

	action := domainAction(contractID, validDomainData("alice", "dash"))
	_, _, err := registry.ExecuteFor(action, &Context{Log: zerolog.Nop()}, 1)
	require.Error(t, err)

	var triggerErr sterrors.DataTriggerExecutionError
	require.ErrorAs(t, err, &triggerErr)
	assert.Equal(t, contractID, triggerErr.ContractID)
	assert.Equal(t, action.Document.ID, triggerErr.TransitionID)
	assert.Contains(t, triggerErr.Message, "no domains today")
}

func TestCreateDomainTrigger(t *testing.T) {
	contractID := testID(6)
	ctx := &Context{Log: zerolog.Nop()}
	trigger := CreateDomainTrigger()

	t.Run("accepts a well formed domain", func(t *testing.T) {
		_, err := trigger.Execute(domainAction(contractID, validDomainData("alice", "dash")), ctx, 1)
		require.NoError(t, err)
	})

	t.Run("rejects a mismatched normalized label", func(t *testing.T) {
		data := validDomainData("Alice", "dash")
		data["normalizedLabel"] = "Alice"
		_, err := trigger.Execute(domainAction(contractID, data), ctx, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lower case")
	})

	t.Run("rejects a bad salted hash", func(t *testing.T) {
		data := validDomainData("alice", "dash")
		data["saltedDomainHash"] = []byte{0xde, 0xad}
		_, err := trigger.Execute(domainAction(contractID, data), ctx, 1)
		require.Error(t, err)
	})

	t.Run("rejects a missing label", func(t *testing.T) {
		data := validDomainData("alice", "dash")
		delete(data, "label")
		_, err := trigger.Execute(domainAction(contractID, data), ctx, 1)
		require.Error(t, err)
	})
}

func TestRewardShareTrigger(t *testing.T) {
	contractID := testID(7)
	ctx := &Context{Log: zerolog.Nop()}

	shareAction := func(pct interface{}) *actions.DocumentAction {
		return &actions.DocumentAction{
			ActionKind: actions.KindDocumentCreate,
			Document: &platform.Document{
				ID:         testID(8),
				OwnerID:    testID(1),
				ContractID: contractID,
				Type:       "rewardShare",
				Data:       map[string]interface{}{"percentage": pct},
			},
			Contract: &platform.DataContract{ID: contractID},
		}
	}

	t.Run("accepts a share within the cap", func(t *testing.T) {
		trigger := RewardShareTrigger(func(platform.Identifier) (uint64, error) { return 4000, nil })
		_, err := trigger.Execute(shareAction(uint64(6000)), ctx, 1)
		require.NoError(t, err)
	})

	t.Run("rejects a share past the cap", func(t *testing.T) {
		trigger := RewardShareTrigger(func(platform.Identifier) (uint64, error) { return 4001, nil })
		_, err := trigger.Execute(shareAction(uint64(6000)), ctx, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "basis points")
	})

	t.Run("propagates lookup errors", func(t *testing.T) {
		trigger := RewardShareTrigger(func(platform.Identifier) (uint64, error) {
			return 0, errors.New("share lookup broke")
		})
		_, err := trigger.Execute(shareAction(uint64(100)), ctx, 1)
		require.Error(t, err)
	})
}
