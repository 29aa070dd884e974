package service

import (
	"context"
	"fmt"
	"time"

	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PaymentServiceImpl implements ports.PaymentService. It is the only writer
// of payment status and outcome fields.
type PaymentServiceImpl struct {
	paymentRepo ports.PaymentRepository
	walletRepo  ports.WalletRepository
	custody     ports.CustodyService
	registry    ports.AdapterRegistry
	oracle      ports.RateOracle
	locker      ports.WalletLocker
	quoteFiat   string
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl. quoteFiat is the fiat
// currency used for best-effort value annotation on records.
func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	walletRepo ports.WalletRepository,
	custody ports.CustodyService,
	registry ports.AdapterRegistry,
	oracle ports.RateOracle,
	locker ports.WalletLocker,
	quoteFiat string,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		paymentRepo: paymentRepo,
		walletRepo:  walletRepo,
		custody:     custody,
		registry:    registry,
		oracle:      oracle,
		locker:      locker,
		quoteFiat:   quoteFiat,
		log:         log,
	}
}

// ProcessPayment orchestrates one payment end to end: validate, lock the
// wallet, check funds, persist a PENDING record, submit to the ledger and
// reconcile the outcome. The PENDING record exists before any ledger call,
// so a crash mid-submission leaves an auditable trace instead of nothing.
func (s *PaymentServiceImpl) ProcessPayment(ctx context.Context, req ports.PaymentRequest) (*domain.Payment, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}

	wallet, err := s.walletRepo.GetByID(ctx, req.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	if wallet.UserID != req.UserID {
		return nil, apperror.ErrNotOwner()
	}
	if !wallet.IsActive() {
		return nil, apperror.ErrWalletRetired()
	}
	if wallet.Asset != req.Asset {
		return nil, apperror.ErrAssetMismatch()
	}

	toAddress, recipientUserID, err := s.resolveRecipient(ctx, req, wallet)
	if err != nil {
		return nil, err
	}

	// Only self-custodied wallets are checked and locked here. An
	// externally-held wallet submits on its own ledger and reports back, so
	// no balance is read and no lock is taken.
	if wallet.SelfCustodied() {
		// Serialize check-then-submit per wallet. Without this, two concurrent
		// requests can both pass the funds check on the same balance.
		release, err := s.locker.Acquire(ctx, wallet.ID)
		if err != nil {
			return nil, err
		}
		defer release()

		if err := s.checkFunds(ctx, wallet, req.Amount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:              uuid.New(),
		WalletID:        wallet.ID,
		UserID:          req.UserID,
		FromAddress:     wallet.Address,
		ToAddress:       toAddress,
		RecipientUserID: recipientUserID,
		Asset:           req.Asset,
		Amount:          req.Amount,
		Status:          domain.PaymentStatusPending,
		Memo:            req.Memo,
		CreatedAt:       now,
	}
	s.annotateFiatValue(ctx, payment)

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create payment: %w", err))
	}

	// Externally-held wallets cannot be signed here. The record stays
	// PENDING until the owner confirms the outcome.
	if !wallet.SelfCustodied() {
		s.log.Info().
			Str("payment_id", payment.ID.String()).
			Str("wallet_id", wallet.ID.String()).
			Msg("payment recorded, awaiting external confirmation")
		return payment, nil
	}

	return s.submitAndReconcile(ctx, payment, wallet)
}

// resolveRecipient determines the destination address. A recipient user ID
// resolves to that user's active wallet for the asset; an explicit address
// is used as-is and linked to a known wallet when one matches.
func (s *PaymentServiceImpl) resolveRecipient(ctx context.Context, req ports.PaymentRequest, sender *domain.Wallet) (string, *uuid.UUID, error) {
	if req.RecipientUserID != nil {
		target, err := s.walletRepo.GetActiveByUserAndAsset(ctx, *req.RecipientUserID, req.Asset)
		if err != nil {
			return "", nil, apperror.InternalError(fmt.Errorf("resolve recipient: %w", err))
		}
		if target == nil {
			return "", nil, apperror.Validation("recipient has no active wallet for this asset")
		}
		if target.ID == sender.ID {
			return "", nil, apperror.Validation("cannot pay a wallet from itself")
		}
		return target.Address, req.RecipientUserID, nil
	}

	if req.ToAddress == "" {
		return "", nil, apperror.Validation("either to_address or recipient_user_id is required")
	}
	if req.ToAddress == sender.Address {
		return "", nil, apperror.Validation("cannot pay a wallet from itself")
	}

	// Link internal recipients for list visibility. Unknown addresses are
	// fine: most destinations live outside this system.
	if known, err := s.walletRepo.GetByAddress(ctx, req.ToAddress); err == nil && known != nil {
		return req.ToAddress, &known.UserID, nil
	}
	return req.ToAddress, nil, nil
}

// checkFunds refreshes the wallet's balance through the custody manager,
// which is the sole writer of wallet balance, and validates the amount
// against the refreshed value.
func (s *PaymentServiceImpl) checkFunds(ctx context.Context, wallet *domain.Wallet, amount decimal.Decimal) error {
	refreshed, err := s.custody.RefreshBalance(ctx, wallet.ID)
	if err != nil {
		return err
	}
	wallet.Balance = refreshed.Balance

	if refreshed.Balance.LessThan(amount) {
		return apperror.ErrInsufficientFunds()
	}
	return nil
}

// annotateFiatValue attaches a best-effort fiat valuation. Oracle failures
// never block a payment.
func (s *PaymentServiceImpl) annotateFiatValue(ctx context.Context, p *domain.Payment) {
	rate, err := s.oracle.SpotPrice(ctx, p.Asset, s.quoteFiat)
	if err != nil {
		s.log.Debug().Err(err).Str("asset", string(p.Asset)).Msg("fiat annotation skipped")
		return
	}
	fiat := p.Amount.Mul(rate)
	p.FiatAmount = &fiat
	p.FiatCurrency = &s.quoteFiat
	p.Rate = &rate
}

// submitAndReconcile signs and submits the transfer, then drives the record
// to its terminal state. Every path out of here leaves the payment terminal.
func (s *PaymentServiceImpl) submitAndReconcile(ctx context.Context, payment *domain.Payment, wallet *domain.Wallet) (*domain.Payment, error) {
	adapter, ok := s.registry.ForAsset(wallet.Asset)
	if !ok {
		// Self-custodied wallets are only provisioned for adapter-backed
		// assets, so this is a wiring bug, not a user error.
		s.failPayment(ctx, payment, "no ledger adapter for asset")
		return nil, apperror.InternalError(fmt.Errorf("no adapter for asset %s", wallet.Asset))
	}

	secret, err := s.custody.RevealSecret(ctx, wallet.ID)
	if err != nil {
		s.failPayment(ctx, payment, "signing secret unavailable")
		return nil, err
	}

	result, err := adapter.SubmitPayment(ctx, ports.SubmitRequest{
		FromAddress: wallet.Address,
		Secret:      secret,
		ToAddress:   payment.ToAddress,
		Amount:      payment.Amount,
	})
	if err != nil {
		s.failPayment(ctx, payment, err.Error())
		return nil, apperror.ErrLedgerSubmission(err)
	}

	if result.Outcome == ports.OutcomeRejected {
		detail := result.Raw
		if detail == "" {
			detail = result.RejectionCode
		}
		s.transition(ctx, payment, domain.PaymentStatusFailed, refOrNil(result.TxRef), &detail, nil)
		s.log.Warn().
			Str("payment_id", payment.ID.String()).
			Str("rejection_code", result.RejectionCode).
			Msg("ledger rejected payment")
		return payment, nil
	}

	now := time.Now().UTC()
	s.transition(ctx, payment, domain.PaymentStatusCompleted, &result.TxRef, rawOrNil(result.Raw), &now)

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("tx_ref", result.TxRef).
		Str("asset", string(payment.Asset)).
		Msg("payment completed")

	// Refresh the cached balance through the custody manager. Best effort.
	if _, err := s.custody.RefreshBalance(ctx, wallet.ID); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", wallet.ID.String()).Msg("balance refresh failed after payment")
	}

	return payment, nil
}

// failPayment marks the record FAILED with a detail message.
func (s *PaymentServiceImpl) failPayment(ctx context.Context, payment *domain.Payment, detail string) {
	s.transition(ctx, payment, domain.PaymentStatusFailed, nil, &detail, nil)
}

// transition applies a terminal transition and mirrors it onto the in-memory
// record. A lost race (record no longer PENDING) is logged, not retried:
// terminal states are absorbing.
func (s *PaymentServiceImpl) transition(ctx context.Context, payment *domain.Payment, status domain.PaymentStatus, txRef, detail *string, completedAt *time.Time) {
	ok, err := s.paymentRepo.TransitionFromPending(ctx, payment.ID, status, txRef, detail, completedAt)
	if err != nil {
		s.log.Error().Err(err).Str("payment_id", payment.ID.String()).Msg("payment transition persist failed")
		return
	}
	if !ok {
		s.log.Warn().Str("payment_id", payment.ID.String()).Str("target", string(status)).Msg("payment already terminal, transition skipped")
		return
	}
	payment.Status = status
	if txRef != nil {
		payment.LedgerTxRef = txRef
	}
	if detail != nil {
		payment.Detail = detail
	}
	payment.CompletedAt = completedAt
}

// UpdateStatus confirms the outcome of an externally-signed payment. Only
// the sender may confirm, only PENDING records accept it, and only terminal
// target states are allowed.
func (s *PaymentServiceImpl) UpdateStatus(ctx context.Context, req ports.StatusUpdateRequest) (*domain.Payment, error) {
	switch req.Status {
	case domain.PaymentStatusCompleted, domain.PaymentStatusFailed, domain.PaymentStatusCancelled:
	default:
		return nil, apperror.Validation(fmt.Sprintf("invalid target status: %s", req.Status))
	}

	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payment: %w", err))
	}
	if payment == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	if payment.UserID != req.UserID {
		return nil, apperror.ErrNotOwner()
	}
	if payment.IsTerminal() {
		return nil, apperror.ErrInvalidStatusTransition(string(payment.Status))
	}

	wallet, err := s.walletRepo.GetByID(ctx, payment.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet != nil && wallet.SelfCustodied() {
		return nil, apperror.Validation("custodied payments are reconciled automatically")
	}

	if req.TxRef != nil {
		existing, err := s.paymentRepo.GetByLedgerTxRef(ctx, *req.TxRef)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("check tx ref: %w", err))
		}
		if existing != nil && existing.ID != payment.ID {
			return nil, apperror.Validation("ledger transaction reference already recorded")
		}
	}

	var completedAt *time.Time
	if req.Status == domain.PaymentStatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	ok, err := s.paymentRepo.TransitionFromPending(ctx, payment.ID, req.Status, req.TxRef, nil, completedAt)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("transition payment: %w", err))
	}
	if !ok {
		// Concurrent confirmation won.
		current, err := s.paymentRepo.GetByID(ctx, payment.ID)
		if err != nil || current == nil {
			return nil, apperror.ErrInvalidStatusTransition(string(payment.Status))
		}
		return nil, apperror.ErrInvalidStatusTransition(string(current.Status))
	}

	payment.Status = req.Status
	if req.TxRef != nil {
		payment.LedgerTxRef = req.TxRef
	}
	payment.CompletedAt = completedAt

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("status", string(req.Status)).
		Msg("external payment confirmed")

	return payment, nil
}

// Get fetches a payment by ID.
func (s *PaymentServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payment: %w", err))
	}
	if payment == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	return payment, nil
}

// ListForUser fetches payments where the user is sender or recipient.
func (s *PaymentServiceImpl) ListForUser(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list payments: %w", err))
	}
	return payments, total, nil
}

func refOrNil(ref string) *string {
	if ref == "" {
		return nil
	}
	return &ref
}

func rawOrNil(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
