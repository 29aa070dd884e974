package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("PAY_003", "Insufficient funds", http.StatusPaymentRequired),
			expected: "[PAY_003] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("PAY_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestWalletErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"DuplicateAsset", ErrDuplicateAsset("XRP"), "WAL_001", 409},
		{"AddressTaken", ErrAddressTaken("rAddr"), "WAL_002", 409},
		{"WalletNotFound", ErrWalletNotFound(), "WAL_003", 404},
		{"WalletRetired", ErrWalletRetired(), "WAL_004", 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestPaymentErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAmount", ErrInvalidAmount(), "PAY_001", 400},
		{"AssetMismatch", ErrAssetMismatch(), "PAY_002", 400},
		{"InsufficientFunds", ErrInsufficientFunds(), "PAY_003", 402},
		{"NotOwner", ErrNotOwner(), "PAY_004", 403},
		{"TransactionNotFound", ErrTransactionNotFound(), "PAY_005", 404},
		{"InvalidStatusTransition", ErrInvalidStatusTransition("COMPLETED"), "PAY_006", 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestLedgerErrors(t *testing.T) {
	inner := fmt.Errorf("connection reset")
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"LedgerUnavailable", ErrLedgerUnavailable(inner), "LGR_001", 502},
		{"SubmissionFailed", ErrSubmissionFailed(inner), "LGR_002", 502},
		{"InvalidSignature", ErrInvalidSignature(), "LGR_003", 422},
		{"UnknownAddress", ErrUnknownAddress("rAddr"), "LGR_004", 404},
		{"LedgerSubmission", ErrLedgerSubmission(inner), "LGR_005", 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestOracleErrors(t *testing.T) {
	err := ErrUnsupportedAsset("DOGE")
	assert.Equal(t, "ORA_001", err.Code)
	assert.Equal(t, 400, err.HTTPStatus)
	assert.Contains(t, err.Message, "DOGE")

	rateErr := ErrRateUnavailable(fmt.Errorf("upstream timeout"))
	assert.Equal(t, "ORA_002", rateErr.Code)
	assert.Equal(t, 502, rateErr.HTTPStatus)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	sysErr := InternalError(inner)
	assert.Equal(t, "SYS_001", sysErr.Code)
	assert.Equal(t, 500, sysErr.HTTPStatus)
	assert.True(t, errors.Is(sysErr, inner))

	lockErr := ErrLockTimeout(inner)
	assert.Equal(t, "SYS_002", lockErr.Code)
	assert.Equal(t, 503, lockErr.HTTPStatus)

	cipherErr := ErrSecretCipherFailure(inner)
	assert.Equal(t, "SYS_003", cipherErr.Code)
	assert.Equal(t, 500, cipherErr.HTTPStatus)
}

func TestAuthAndRateLimitErrors(t *testing.T) {
	authErr := ErrInvalidToken()
	assert.Equal(t, "AUTH_001", authErr.Code)
	assert.Equal(t, 401, authErr.HTTPStatus)

	rateErr := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", rateErr.Code)
	assert.Equal(t, 429, rateErr.HTTPStatus)
}

func TestValidation(t *testing.T) {
	err := Validation("amount must be positive")
	assert.Equal(t, "PAY_000", err.Code)
	assert.Equal(t, 400, err.HTTPStatus)
	assert.Equal(t, "amount must be positive", err.Message)
}
