package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, wallet_id, user_id, from_address, to_address, recipient_user_id,
	asset, amount, fiat_amount, fiat_currency, rate, ledger_tx_ref, status, memo, detail,
	created_at, completed_at`

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a new payment record.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, wallet_id, user_id, from_address, to_address, recipient_user_id,
		asset, amount, fiat_amount, fiat_currency, rate, ledger_tx_ref, status, memo, detail,
		created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.WalletID, p.UserID, p.FromAddress, p.ToAddress, p.RecipientUserID,
		p.Asset, p.Amount, p.FiatAmount, p.FiatCurrency, p.Rate,
		p.LedgerTxRef, p.Status, p.Memo, p.Detail,
		p.CreatedAt, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment by UUID.
func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	return r.scanPayment(r.pool.QueryRow(ctx, query, id))
}

// GetByLedgerTxRef fetches a payment by its ledger transaction reference.
func (r *PaymentRepo) GetByLedgerTxRef(ctx context.Context, ref string) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE ledger_tx_ref = $1`, paymentColumns)
	return r.scanPayment(r.pool.QueryRow(ctx, query, ref))
}

// TransitionFromPending moves a payment from PENDING to a terminal state.
// The status guard in the WHERE clause makes terminal states absorbing even
// under concurrent updaters: the first transition wins, later ones report
// false via RowsAffected.
func (r *PaymentRepo) TransitionFromPending(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, txRef *string, detail *string, completedAt *time.Time) (bool, error) {
	query := `UPDATE payments
		SET status = $1,
		    ledger_tx_ref = COALESCE($2, ledger_tx_ref),
		    detail = COALESCE($3, detail),
		    completed_at = $4
		WHERE id = $5 AND status = 'PENDING'`

	tag, err := r.pool.Exec(ctx, query, status, txRef, detail, completedAt, id)
	if err != nil {
		return false, fmt.Errorf("transition payment: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List fetches payments with filtering and pagination. A user sees records
// where they are the sender or the resolved recipient.
func (r *PaymentRepo) List(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("(user_id = $%d OR recipient_user_id = $%d)", argIdx, argIdx))
	args = append(args, params.UserID)
	argIdx++

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payments %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p := domain.Payment{}
		err := rows.Scan(
			&p.ID, &p.WalletID, &p.UserID, &p.FromAddress, &p.ToAddress, &p.RecipientUserID,
			&p.Asset, &p.Amount, &p.FiatAmount, &p.FiatCurrency, &p.Rate,
			&p.LedgerTxRef, &p.Status, &p.Memo, &p.Detail,
			&p.CreatedAt, &p.CompletedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, total, nil
}

// scanPayment is a helper to scan a single row into a Payment.
func (r *PaymentRepo) scanPayment(row pgx.Row) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(
		&p.ID, &p.WalletID, &p.UserID, &p.FromAddress, &p.ToAddress, &p.RecipientUserID,
		&p.Asset, &p.Amount, &p.FiatAmount, &p.FiatCurrency, &p.Rate,
		&p.LedgerTxRef, &p.Status, &p.Memo, &p.Detail,
		&p.CreatedAt, &p.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return p, nil
}
