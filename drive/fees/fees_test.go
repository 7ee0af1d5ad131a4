package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dashpay/platform-engine/model/platform"
)

var (
	payer = platform.Identifier{1}
	other = platform.Identifier{2}
)

func TestCalculateFee(t *testing.T) {
	ops := []Operation{
		ReadOperation{BytesRead: 100},
		WriteOperation{KeyBytes: 10, ValueBytes: 90},
		SignatureVerificationOperation{KeyType: platform.KeyTypeECDSASecp256k1},
		DeleteOperation{KeyBytes: 10, ValueBytes: 40, RefundOwnerID: other},
	}

	result := CalculateFee(ops)

	assert.Equal(t, platform.Credits(100)*creditsPerByteStored, result.StorageFee)
	assert.Equal(t,
		baseProcessingCost+platform.Credits(100)*creditsPerByteRead+ // read
			baseProcessingCost+ // write
			verifyCostECDSA+ // signature
			baseProcessingCost, // delete
		result.ProcessingFee)
	assert.Equal(t, platform.Credits(50)*creditsPerByteRefunded, result.Refunds[other])
}

func TestBalanceChangeRemove(t *testing.T) {
	result := FeeResult{StorageFee: 300, ProcessingFee: 700}

	change := result.BalanceChangeForPayer(payer)
	assert.Equal(t, RemoveFromBalance, change.Kind)
	assert.Equal(t, platform.Credits(300), change.Required)
	assert.Equal(t, platform.Credits(1000), change.Desired)
}

func TestBalanceChangeOwnRefundOffsets(t *testing.T) {
	result := FeeResult{
		StorageFee:    300,
		ProcessingFee: 700,
		Refunds:       map[platform.Identifier]platform.Credits{payer: 400},
	}

	change := result.BalanceChangeForPayer(payer)
	assert.Equal(t, RemoveFromBalance, change.Kind)
	assert.Equal(t, platform.Credits(600), change.Desired)
	assert.Equal(t, platform.Credits(300), change.Required)
}

func TestBalanceChangeRefundExceedsFee(t *testing.T) {
	result := FeeResult{
		StorageFee:    100,
		ProcessingFee: 100,
		Refunds:       map[platform.Identifier]platform.Credits{payer: 500},
	}

	change := result.BalanceChangeForPayer(payer)
	assert.Equal(t, AddToBalance, change.Kind)
	assert.Equal(t, platform.Credits(300), change.Added)
}

func TestBalanceChangeNoChange(t *testing.T) {
	change := FeeResult{}.BalanceChangeForPayer(payer)
	assert.Equal(t, NoBalanceChange, change.Kind)
}

func TestOtherRefundsExcludePayer(t *testing.T) {
	result := FeeResult{
		Refunds: map[platform.Identifier]platform.Credits{
			payer: 100,
			other: 250,
		},
	}

	refunds := result.OtherRefunds(payer)
	assert.Len(t, refunds, 1)
	assert.Equal(t, platform.Credits(250), refunds[other])
}
