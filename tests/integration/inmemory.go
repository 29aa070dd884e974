package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *w
	r.wallets[w.ID] = &clone
	return nil
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	clone := *w
	return &clone, nil
}

func (r *inMemoryWalletRepo) GetActiveByUserAndAsset(ctx context.Context, userID uuid.UUID, asset domain.AssetType) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.UserID == userID && w.Asset == asset && w.Status == domain.WalletStatusActive {
			clone := *w
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.Address == address {
			clone := *w
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Wallet
	for _, w := range r.wallets {
		if w.UserID == userID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryWalletRepo) UpdateStatus(ctx context.Context, walletID uuid.UUID, status domain.WalletStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	w.Status = status
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Payment Repo ---

type inMemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{payments: make(map[uuid.UUID]*domain.Payment)}
}

func (r *inMemoryPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.payments[p.ID] = &clone
	return nil
}

func (r *inMemoryPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *inMemoryPaymentRepo) GetByLedgerTxRef(ctx context.Context, ref string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.LedgerTxRef != nil && *p.LedgerTxRef == ref {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryPaymentRepo) TransitionFromPending(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, txRef *string, detail *string, completedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.Status != domain.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	if txRef != nil {
		p.LedgerTxRef = txRef
	}
	if detail != nil {
		p.Detail = detail
	}
	p.CompletedAt = completedAt
	return true, nil
}

func (r *inMemoryPaymentRepo) List(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Payment
	for _, p := range r.payments {
		sender := p.UserID == params.UserID
		recipient := p.RecipientUserID != nil && *p.RecipientUserID == params.UserID
		if !sender && !recipient {
			continue
		}
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Payment{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- Fake Ledger ---

// fakeLedger is an in-memory ledger adapter: generated accounts start funded
// (as a faucet would leave them), submissions verify the secret and move
// balances atomically.
type fakeLedger struct {
	mu       sync.Mutex
	nextID   int
	secrets  map[string]string // address -> signing secret
	balances map[string]decimal.Decimal
	prefix   string
}

func newFakeLedger(prefix string) *fakeLedger {
	return &fakeLedger{
		secrets:  make(map[string]string),
		balances: make(map[string]decimal.Decimal),
		prefix:   prefix,
	}
}

func (l *fakeLedger) GenerateKeypair(ctx context.Context) (*ports.Keypair, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	address := fmt.Sprintf("%s-addr-%d", l.prefix, l.nextID)
	secret := fmt.Sprintf("%s-secret-%d", l.prefix, l.nextID)
	l.secrets[address] = secret
	l.balances[address] = decimal.NewFromInt(100)
	return &ports.Keypair{Address: address, PublicKey: address, Secret: secret}, nil
}

func (l *fakeLedger) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[address], nil
}

func (l *fakeLedger) SubmitPayment(ctx context.Context, req ports.SubmitRequest) (*ports.SubmitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.secrets[req.FromAddress] != req.Secret {
		return nil, fmt.Errorf("secret does not match address %s", req.FromAddress)
	}
	if l.balances[req.FromAddress].LessThan(req.Amount) {
		return &ports.SubmitResult{
			Outcome:       ports.OutcomeRejected,
			RejectionCode: "tecUNFUNDED_PAYMENT",
			Raw:           `{"engine_result":"tecUNFUNDED_PAYMENT"}`,
		}, nil
	}

	l.balances[req.FromAddress] = l.balances[req.FromAddress].Sub(req.Amount)
	l.balances[req.ToAddress] = l.balances[req.ToAddress].Add(req.Amount)

	l.nextID++
	ref := fmt.Sprintf("%s-tx-%d", l.prefix, l.nextID)
	return &ports.SubmitResult{
		TxRef:   ref,
		Outcome: ports.OutcomeSucceeded,
		Raw:     fmt.Sprintf(`{"hash":%q}`, ref),
	}, nil
}

func (l *fakeLedger) Transaction(ctx context.Context, ref string) (*ports.LedgerTx, error) {
	return &ports.LedgerTx{Ref: ref, Validated: true, Raw: "{}"}, nil
}

// --- Always-healthy checker ---

type okHealth struct{ name string }

func (h okHealth) Ping(ctx context.Context) error { return nil }
func (h okHealth) Name() string                   { return h.name }
