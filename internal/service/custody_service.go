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

// CustodyServiceImpl implements ports.CustodyService.
type CustodyServiceImpl struct {
	walletRepo ports.WalletRepository
	registry   ports.AdapterRegistry
	cipher     ports.SecretCipher
	log        zerolog.Logger
}

// NewCustodyService creates a new CustodyServiceImpl.
func NewCustodyService(
	walletRepo ports.WalletRepository,
	registry ports.AdapterRegistry,
	cipher ports.SecretCipher,
	log zerolog.Logger,
) *CustodyServiceImpl {
	return &CustodyServiceImpl{
		walletRepo: walletRepo,
		registry:   registry,
		cipher:     cipher,
		log:        log,
	}
}

// Provision creates a self-custodied wallet with adapter-generated keys.
func (s *CustodyServiceImpl) Provision(ctx context.Context, req ports.ProvisionRequest) (*domain.Wallet, error) {
	if !req.Asset.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unsupported asset: %s", req.Asset))
	}

	existing, err := s.walletRepo.GetActiveByUserAndAsset(ctx, req.UserID, req.Asset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check active wallet: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateAsset(string(req.Asset))
	}

	adapter, ok := s.registry.ForAsset(req.Asset)
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("asset %s supports registration only", req.Asset))
	}

	keypair, err := adapter.GenerateKeypair(ctx)
	if err != nil {
		return nil, err
	}

	encrypted, err := s.cipher.Encrypt(keypair.Secret)
	if err != nil {
		return nil, apperror.ErrSecretCipherFailure(err)
	}

	// Seed the cached balance with a live read. Faucet funding may not have
	// landed yet; zero is an acceptable starting hint.
	balance := decimal.Zero
	if b, err := adapter.Balance(ctx, keypair.Address); err == nil {
		balance = b
	} else {
		s.log.Debug().Err(err).Str("address", keypair.Address).Msg("initial balance read failed, seeding zero")
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:              uuid.New(),
		UserID:          req.UserID,
		Asset:           req.Asset,
		Custody:         domain.CustodySelf,
		Address:         keypair.Address,
		PublicKey:       &keypair.PublicKey,
		EncryptedSecret: &encrypted,
		Balance:         balance,
		Status:          domain.WalletStatusActive,
		Label:           req.Label,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("asset", string(req.Asset)).
		Str("address", wallet.Address).
		Msg("wallet provisioned")

	return wallet, nil
}

// Register records an externally-held wallet. No secret is stored and no
// ledger call is made: the address may not exist on-ledger yet.
func (s *CustodyServiceImpl) Register(ctx context.Context, req ports.RegisterWalletRequest) (*domain.Wallet, error) {
	if !req.Asset.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unsupported asset: %s", req.Asset))
	}
	if req.Address == "" {
		return nil, apperror.Validation("address is required")
	}

	existing, err := s.walletRepo.GetActiveByUserAndAsset(ctx, req.UserID, req.Asset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check active wallet: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateAsset(string(req.Asset))
	}

	bound, err := s.walletRepo.GetByAddress(ctx, req.Address)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check address binding: %w", err))
	}
	if bound != nil {
		return nil, apperror.ErrAddressTaken(req.Address)
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Asset:     req.Asset,
		Custody:   domain.CustodyExternal,
		Address:   req.Address,
		PublicKey: req.PublicKey,
		Balance:   decimal.Zero,
		Status:    domain.WalletStatusActive,
		Label:     req.Label,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("asset", string(req.Asset)).
		Msg("external wallet registered")

	return wallet, nil
}

// Retire logically deletes a wallet. Idempotent: retiring a retired wallet
// succeeds without effect.
func (s *CustodyServiceImpl) Retire(ctx context.Context, userID, walletID uuid.UUID) error {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrWalletNotFound()
	}
	if wallet.UserID != userID {
		return apperror.ErrNotOwner()
	}
	if wallet.Status == domain.WalletStatusRetired {
		return nil
	}

	if err := s.walletRepo.UpdateStatus(ctx, walletID, domain.WalletStatusRetired); err != nil {
		return apperror.InternalError(fmt.Errorf("retire wallet: %w", err))
	}

	s.log.Info().Str("wallet_id", walletID.String()).Msg("wallet retired")
	return nil
}

// RefreshBalance reads the live ledger balance and persists it as the new
// cached hint. Assets without a queryable adapter keep the last value.
func (s *CustodyServiceImpl) RefreshBalance(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	adapter, ok := s.registry.ForAsset(wallet.Asset)
	if !ok {
		return wallet, nil
	}

	balance, err := adapter.Balance(ctx, wallet.Address)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.UpdateBalance(ctx, walletID, balance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	wallet.Balance = balance
	return wallet, nil
}

// Get fetches a wallet by ID.
func (s *CustodyServiceImpl) Get(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

// ListByUser fetches all wallets owned by a user.
func (s *CustodyServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

// RevealSecret decrypts the signing secret of a self-custodied wallet.
// Called only by the payment orchestrator; never reachable over HTTP.
func (s *CustodyServiceImpl) RevealSecret(ctx context.Context, walletID uuid.UUID) (string, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return "", apperror.ErrWalletNotFound()
	}
	if !wallet.SelfCustodied() || wallet.EncryptedSecret == nil {
		return "", apperror.Validation("wallet has no custodied secret")
	}

	secret, err := s.cipher.Decrypt(*wallet.EncryptedSecret)
	if err != nil {
		return "", apperror.ErrSecretCipherFailure(err)
	}
	return secret, nil
}
