package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetType_Valid(t *testing.T) {
	tests := []struct {
		name  string
		asset AssetType
		want  bool
	}{
		{"xrp", AssetXRP, true},
		{"sol", AssetSOL, true},
		{"btc", AssetBTC, true},
		{"unknown", AssetType("DOGE"), false},
		{"empty", AssetType(""), false},
		{"lowercase", AssetType("xrp"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.asset.Valid())
		})
	}
}

func TestAssetType_Decimals(t *testing.T) {
	assert.Equal(t, int32(6), AssetXRP.Decimals())
	assert.Equal(t, int32(9), AssetSOL.Decimals())
	assert.Equal(t, int32(8), AssetBTC.Decimals())
	assert.Equal(t, int32(0), AssetType("DOGE").Decimals())
}

func TestWallet_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status WalletStatus
		want   bool
	}{
		{"active", WalletStatusActive, true},
		{"retired", WalletStatusRetired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wallet{Status: tt.status}
			assert.Equal(t, tt.want, w.IsActive())
		})
	}
}

func TestWallet_SelfCustodied(t *testing.T) {
	self := &Wallet{Custody: CustodySelf}
	external := &Wallet{Custody: CustodyExternal}
	assert.True(t, self.SelfCustodied())
	assert.False(t, external.SelfCustodied())
}

func TestWallet_EncryptedSecretNeverSerialized(t *testing.T) {
	secret := "deadbeef"
	w := &Wallet{EncryptedSecret: &secret}

	raw, err := json.Marshal(w)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "deadbeef")
	assert.NotContains(t, string(raw), "encrypted_secret")
}

func TestPayment_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status PaymentStatus
		want   bool
	}{
		{"pending", PaymentStatusPending, false},
		{"completed", PaymentStatusCompleted, true},
		{"failed", PaymentStatusFailed, true},
		{"cancelled", PaymentStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payment{Status: tt.status}
			assert.Equal(t, tt.want, p.IsTerminal())
		})
	}
}

func TestPaymentStatus_Constants(t *testing.T) {
	assert.Equal(t, PaymentStatus("PENDING"), PaymentStatusPending)
	assert.Equal(t, PaymentStatus("COMPLETED"), PaymentStatusCompleted)
	assert.Equal(t, PaymentStatus("FAILED"), PaymentStatusFailed)
	assert.Equal(t, PaymentStatus("CANCELLED"), PaymentStatusCancelled)
}

func TestCustodyMode_Constants(t *testing.T) {
	assert.Equal(t, CustodyMode("SELF"), CustodySelf)
	assert.Equal(t, CustodyMode("EXTERNAL"), CustodyExternal)
}
