package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet Custody (WAL) ----

func ErrDuplicateAsset(asset string) *AppError {
	return New("WAL_001", fmt.Sprintf("An active %s wallet already exists for this user", asset), http.StatusConflict)
}

func ErrAddressTaken(address string) *AppError {
	return New("WAL_002", fmt.Sprintf("Address %s is already bound to an active wallet", address), http.StatusConflict)
}

func ErrWalletNotFound() *AppError {
	return New("WAL_003", "Wallet not found", http.StatusNotFound)
}

func ErrWalletRetired() *AppError {
	return New("WAL_004", "Wallet is retired", http.StatusConflict)
}

// ---- Payment Orchestration (PAY) ----

func ErrInvalidAmount() *AppError {
	return New("PAY_001", "Amount must be strictly positive", http.StatusBadRequest)
}

func ErrAssetMismatch() *AppError {
	return New("PAY_002", "Wallet asset type does not match the requested asset", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("PAY_003", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrNotOwner() *AppError {
	return New("PAY_004", "Wallet does not belong to the requesting user", http.StatusForbidden)
}

func ErrTransactionNotFound() *AppError {
	return New("PAY_005", "Transaction not found", http.StatusNotFound)
}

func ErrInvalidStatusTransition(current string) *AppError {
	return New("PAY_006", fmt.Sprintf("Transaction is already %s and cannot change status", current), http.StatusConflict)
}

// ---- Ledger Transport (LGR) ----

func ErrLedgerUnavailable(err error) *AppError {
	return Wrap("LGR_001", "Ledger backend unreachable", http.StatusBadGateway, err)
}

func ErrSubmissionFailed(err error) *AppError {
	return Wrap("LGR_002", "Ledger submission failed", http.StatusBadGateway, err)
}

func ErrInvalidSignature() *AppError {
	return New("LGR_003", "Signing secret does not match the sender address", http.StatusUnprocessableEntity)
}

func ErrUnknownAddress(address string) *AppError {
	return New("LGR_004", fmt.Sprintf("Address %s has never been activated on the ledger", address), http.StatusNotFound)
}

// ErrLedgerSubmission is returned by the orchestrator after a submission
// failure has already been recorded on the payment. The durable Failed
// record is the source of truth; this error is what the caller sees.
func ErrLedgerSubmission(err error) *AppError {
	return Wrap("LGR_005", "Blockchain submission failed; payment recorded as failed", http.StatusBadGateway, err)
}

// ---- Rate Oracle (ORA) ----

func ErrUnsupportedAsset(asset string) *AppError {
	return New("ORA_001", fmt.Sprintf("No oracle mapping for asset %s", asset), http.StatusBadRequest)
}

func ErrRateUnavailable(err error) *AppError {
	return Wrap("ORA_002", "Spot rate unavailable", http.StatusBadGateway, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Wallet is busy with another payment", http.StatusServiceUnavailable, err)
}

func ErrSecretCipherFailure(err error) *AppError {
	return Wrap("SYS_003", "Secret cipher failure", http.StatusInternalServerError, err)
}

// Validation returns a generic request validation error.
func Validation(message string) *AppError {
	return New("PAY_000", message, http.StatusBadRequest)
}
