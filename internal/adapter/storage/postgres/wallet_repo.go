package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/plakshaa/xrplwallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = `id, user_id, asset, custody, address, public_key, encrypted_secret,
	balance, status, label, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, asset, custody, address, public_key, encrypted_secret,
		balance, status, label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.Asset, w.Custody, w.Address, w.PublicKey,
		w.EncryptedSecret, w.Balance, w.Status, w.Label,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE id = $1`, walletColumns)
	return r.scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetActiveByUserAndAsset fetches the single ACTIVE wallet for a user and
// asset. A partial unique index guarantees at most one row qualifies.
func (r *WalletRepo) GetActiveByUserAndAsset(ctx context.Context, userID uuid.UUID, asset domain.AssetType) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE user_id = $1 AND asset = $2 AND status = 'ACTIVE'`, walletColumns)
	return r.scanWallet(r.pool.QueryRow(ctx, query, userID, asset))
}

// GetByAddress fetches a wallet by ledger address, regardless of status.
func (r *WalletRepo) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE address = $1`, walletColumns)
	return r.scanWallet(r.pool.QueryRow(ctx, query, address))
}

// ListByUser fetches all wallets owned by a user, retired ones included.
func (r *WalletRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE user_id = $1 ORDER BY created_at DESC`, walletColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w := domain.Wallet{}
		err := rows.Scan(
			&w.ID, &w.UserID, &w.Asset, &w.Custody, &w.Address, &w.PublicKey,
			&w.EncryptedSecret, &w.Balance, &w.Status, &w.Label,
			&w.CreatedAt, &w.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}

// UpdateBalance refreshes the cached balance hint for a wallet.
func (r *WalletRepo) UpdateBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, balance, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// UpdateStatus sets the wallet lifecycle status.
func (r *WalletRepo) UpdateStatus(ctx context.Context, walletID uuid.UUID, status domain.WalletStatus) error {
	query := `UPDATE wallets SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, walletID)
	if err != nil {
		return fmt.Errorf("update wallet status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// scanWallet is a helper to scan a single row into a Wallet.
func (r *WalletRepo) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.UserID, &w.Asset, &w.Custody, &w.Address, &w.PublicKey,
		&w.EncryptedSecret, &w.Balance, &w.Status, &w.Label,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}
