package service

import (
	"context"
	"testing"

	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/internal/core/ports/mocks"
	"github.com/plakshaa/xrplwallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentTestDeps struct {
	svc         *PaymentServiceImpl
	paymentRepo *mocks.MockPaymentRepository
	walletRepo  *mocks.MockWalletRepository
	custody     *mocks.MockCustodyService
	registry    *mocks.MockAdapterRegistry
	adapter     *mocks.MockLedgerAdapter
	oracle      *mocks.MockRateOracle
	locker      *mocks.MockWalletLocker
	ctrl        *gomock.Controller
}

func setupPaymentService(t *testing.T) *paymentTestDeps {
	ctrl := gomock.NewController(t)
	d := &paymentTestDeps{
		paymentRepo: mocks.NewMockPaymentRepository(ctrl),
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		custody:     mocks.NewMockCustodyService(ctrl),
		registry:    mocks.NewMockAdapterRegistry(ctrl),
		adapter:     mocks.NewMockLedgerAdapter(ctrl),
		oracle:      mocks.NewMockRateOracle(ctrl),
		locker:      mocks.NewMockWalletLocker(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewPaymentService(
		d.paymentRepo, d.walletRepo, d.custody, d.registry,
		d.oracle, d.locker, "usd", zerolog.Nop(),
	)
	return d
}

func activeWallet(userID uuid.UUID) *domain.Wallet {
	enc := "encrypted-seed"
	return &domain.Wallet{
		ID:              uuid.New(),
		UserID:          userID,
		Asset:           domain.AssetXRP,
		Custody:         domain.CustodySelf,
		Address:         "rSender",
		EncryptedSecret: &enc,
		Balance:         decimal.NewFromInt(100),
		Status:          domain.WalletStatusActive,
	}
}

// ==================== ProcessPayment Tests ====================

func TestPaymentService_ProcessPayment_Success(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)

	req := ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "rRecipient",
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(10),
	}

	preSpend := *wallet
	preSpend.Balance = decimal.NewFromInt(50)
	postSpend := *wallet
	postSpend.Balance = decimal.NewFromInt(40)

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.walletRepo.EXPECT().GetByAddress(ctx, "rRecipient").Return(nil, nil)
	d.locker.EXPECT().Acquire(ctx, wallet.ID).Return(func() {}, nil)
	d.custody.EXPECT().RefreshBalance(ctx, wallet.ID).Return(&preSpend, nil)
	d.oracle.EXPECT().SpotPrice(ctx, domain.AssetXRP, "usd").Return(decimal.RequireFromString("0.5"), nil)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.registry.EXPECT().ForAsset(domain.AssetXRP).Return(d.adapter, true)
	d.custody.EXPECT().RevealSecret(ctx, wallet.ID).Return("sSeed", nil)
	d.adapter.EXPECT().SubmitPayment(ctx, ports.SubmitRequest{
		FromAddress: "rSender",
		Secret:      "sSeed",
		ToAddress:   "rRecipient",
		Amount:      decimal.NewFromInt(10),
	}).Return(&ports.SubmitResult{
		TxRef:   "ABC123",
		Outcome: ports.OutcomeSucceeded,
		Raw:     `{"engine_result":"tesSUCCESS"}`,
	}, nil)
	d.paymentRepo.EXPECT().
		TransitionFromPending(ctx, gomock.Any(), domain.PaymentStatusCompleted, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)
	d.custody.EXPECT().RefreshBalance(ctx, wallet.ID).Return(&postSpend, nil)

	payment, err := d.svc.ProcessPayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.LedgerTxRef)
	assert.Equal(t, "ABC123", *payment.LedgerTxRef)
	require.NotNil(t, payment.FiatAmount)
	assert.True(t, payment.FiatAmount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "rSender", payment.FromAddress)
}

func TestPaymentService_ProcessPayment_InvalidAmount(t *testing.T) {
	d := setupPaymentService(t)

	_, err := d.svc.ProcessPayment(context.Background(), ports.PaymentRequest{
		UserID:   uuid.New(),
		WalletID: uuid.New(),
		Amount:   decimal.Zero,
	})
	assert.Equal(t, "PAY_001", appErrCode(t, err))
}

func TestPaymentService_ProcessPayment_NotOwner(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	wallet := activeWallet(uuid.New())

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)

	_, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    uuid.New(),
		WalletID:  wallet.ID,
		ToAddress: "rRecipient",
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(1),
	})
	assert.Equal(t, "PAY_004", appErrCode(t, err))
}

func TestPaymentService_ProcessPayment_RetiredWallet(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)
	wallet.Status = domain.WalletStatusRetired

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)

	_, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "rRecipient",
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(1),
	})
	assert.Equal(t, "WAL_004", appErrCode(t, err))
}

func TestPaymentService_ProcessPayment_AssetMismatch(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)

	_, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "SoLAddr",
		Asset:     domain.AssetSOL,
		Amount:    decimal.NewFromInt(1),
	})
	assert.Equal(t, "PAY_002", appErrCode(t, err))
}

func TestPaymentService_ProcessPayment_InsufficientFunds(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)

	short := *wallet
	short.Balance = decimal.NewFromInt(3)

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.walletRepo.EXPECT().GetByAddress(ctx, "rRecipient").Return(nil, nil)
	d.locker.EXPECT().Acquire(ctx, wallet.ID).Return(func() {}, nil)
	d.custody.EXPECT().RefreshBalance(ctx, wallet.ID).Return(&short, nil)

	_, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "rRecipient",
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(10),
	})
	assert.Equal(t, "PAY_003", appErrCode(t, err))
}

func TestPaymentService_ProcessPayment_SelfPayment(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)

	_, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: wallet.Address,
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(1),
	})
	assert.Error(t, err)
}

func TestPaymentService_ProcessPayment_LedgerRejection(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)

	funded := *wallet
	funded.Balance = decimal.NewFromInt(50)

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.walletRepo.EXPECT().GetByAddress(ctx, "rRecipient").Return(nil, nil)
	d.locker.EXPECT().Acquire(ctx, wallet.ID).Return(func() {}, nil)
	d.custody.EXPECT().RefreshBalance(ctx, wallet.ID).Return(&funded, nil)
	d.oracle.EXPECT().SpotPrice(ctx, domain.AssetXRP, "usd").Return(decimal.Zero, apperror.ErrRateUnavailable(nil))
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.registry.EXPECT().ForAsset(domain.AssetXRP).Return(d.adapter, true)
	d.custody.EXPECT().RevealSecret(ctx, wallet.ID).Return("sSeed", nil)
	d.adapter.EXPECT().SubmitPayment(ctx, gomock.Any()).Return(&ports.SubmitResult{
		TxRef:         "DEF456",
		Outcome:       ports.OutcomeRejected,
		RejectionCode: "tecUNFUNDED_PAYMENT",
		Raw:           `{"engine_result":"tecUNFUNDED_PAYMENT"}`,
	}, nil)
	d.paymentRepo.EXPECT().
		TransitionFromPending(ctx, gomock.Any(), domain.PaymentStatusFailed, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)

	payment, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "rRecipient",
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(10),
	})
	// A ledger rejection is a recorded outcome, not a transport error.
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	assert.Nil(t, payment.FiatAmount)
}

func TestPaymentService_ProcessPayment_TransportFailureRecordsFailed(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)

	funded := *wallet
	funded.Balance = decimal.NewFromInt(50)

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.walletRepo.EXPECT().GetByAddress(ctx, "rRecipient").Return(nil, nil)
	d.locker.EXPECT().Acquire(ctx, wallet.ID).Return(func() {}, nil)
	d.custody.EXPECT().RefreshBalance(ctx, wallet.ID).Return(&funded, nil)
	d.oracle.EXPECT().SpotPrice(ctx, domain.AssetXRP, "usd").Return(decimal.NewFromInt(1), nil)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.registry.EXPECT().ForAsset(domain.AssetXRP).Return(d.adapter, true)
	d.custody.EXPECT().RevealSecret(ctx, wallet.ID).Return("sSeed", nil)
	d.adapter.EXPECT().SubmitPayment(ctx, gomock.Any()).
		Return(nil, apperror.ErrLedgerUnavailable(context.DeadlineExceeded))
	d.paymentRepo.EXPECT().
		TransitionFromPending(ctx, gomock.Any(), domain.PaymentStatusFailed, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)

	_, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "rRecipient",
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(10),
	})
	assert.Equal(t, "LGR_005", appErrCode(t, err))
}

// Externally-held wallets submit on their own ledger: no lock, no balance
// read, no funds check. The zero cached balance here must not block the
// record. Unexpected locker, registry or adapter calls fail the controller.
func TestPaymentService_ProcessPayment_ExternalWalletStaysPending(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)
	wallet.Custody = domain.CustodyExternal
	wallet.EncryptedSecret = nil
	wallet.Balance = decimal.Zero

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.walletRepo.EXPECT().GetByAddress(ctx, "rRecipient").Return(nil, nil)
	d.oracle.EXPECT().SpotPrice(ctx, domain.AssetXRP, "usd").Return(decimal.NewFromInt(1), nil)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	payment, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "rRecipient",
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.LedgerTxRef)
}

// A registered wallet for an asset with no queryable adapter (BTC) must be
// able to record a payment: no adapter lookup happens on the external path.
func TestPaymentService_ProcessPayment_ExternalBTCWallet(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := &domain.Wallet{
		ID:      uuid.New(),
		UserID:  userID,
		Asset:   domain.AssetBTC,
		Custody: domain.CustodyExternal,
		Address: "bc1qsender",
		Balance: decimal.Zero,
		Status:  domain.WalletStatusActive,
	}

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.walletRepo.EXPECT().GetByAddress(ctx, "bc1qrecipient").Return(nil, nil)
	d.oracle.EXPECT().SpotPrice(ctx, domain.AssetBTC, "usd").Return(decimal.NewFromInt(60000), nil)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	payment, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "bc1qrecipient",
		Asset:     domain.AssetBTC,
		Amount:    decimal.RequireFromString("0.01"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
}

func TestPaymentService_ProcessPayment_RecipientUserResolution(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	recipientID := uuid.New()
	wallet := activeWallet(userID)

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.walletRepo.EXPECT().GetActiveByUserAndAsset(ctx, recipientID, domain.AssetXRP).Return(&domain.Wallet{
		ID:      uuid.New(),
		UserID:  recipientID,
		Asset:   domain.AssetXRP,
		Address: "rRecipientWallet",
		Status:  domain.WalletStatusActive,
	}, nil)
	funded := *wallet
	funded.Balance = decimal.NewFromInt(50)
	spent := *wallet
	spent.Balance = decimal.NewFromInt(40)

	d.locker.EXPECT().Acquire(ctx, wallet.ID).Return(func() {}, nil)
	d.custody.EXPECT().RefreshBalance(ctx, wallet.ID).Return(&funded, nil)
	d.oracle.EXPECT().SpotPrice(ctx, domain.AssetXRP, "usd").Return(decimal.NewFromInt(1), nil)

	var created *domain.Payment
	d.paymentRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Payment) error {
			created = p
			return nil
		})
	d.registry.EXPECT().ForAsset(domain.AssetXRP).Return(d.adapter, true)
	d.custody.EXPECT().RevealSecret(ctx, wallet.ID).Return("sSeed", nil)
	d.adapter.EXPECT().SubmitPayment(ctx, gomock.Any()).Return(&ports.SubmitResult{
		TxRef: "GHI789", Outcome: ports.OutcomeSucceeded,
	}, nil)
	d.paymentRepo.EXPECT().
		TransitionFromPending(ctx, gomock.Any(), domain.PaymentStatusCompleted, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)
	d.custody.EXPECT().RefreshBalance(ctx, wallet.ID).Return(&spent, nil)

	payment, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:          userID,
		WalletID:        wallet.ID,
		RecipientUserID: &recipientID,
		Asset:           domain.AssetXRP,
		Amount:          decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "rRecipientWallet", payment.ToAddress)
	require.NotNil(t, created.RecipientUserID)
	assert.Equal(t, recipientID, *created.RecipientUserID)
}

func TestPaymentService_ProcessPayment_LockTimeout(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := activeWallet(userID)

	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.walletRepo.EXPECT().GetByAddress(ctx, "rRecipient").Return(nil, nil)
	d.locker.EXPECT().Acquire(ctx, wallet.ID).Return(nil, apperror.ErrLockTimeout(nil))

	_, err := d.svc.ProcessPayment(ctx, ports.PaymentRequest{
		UserID:    userID,
		WalletID:  wallet.ID,
		ToAddress: "rRecipient",
		Asset:     domain.AssetXRP,
		Amount:    decimal.NewFromInt(1),
	})
	assert.Equal(t, "SYS_002", appErrCode(t, err))
}

// ==================== UpdateStatus Tests ====================

func pendingExternalPayment(userID uuid.UUID) (*domain.Payment, *domain.Wallet) {
	wallet := &domain.Wallet{
		ID:      uuid.New(),
		UserID:  userID,
		Asset:   domain.AssetBTC,
		Custody: domain.CustodyExternal,
		Address: "bc1qsender",
		Status:  domain.WalletStatusActive,
	}
	payment := &domain.Payment{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		UserID:      userID,
		FromAddress: wallet.Address,
		ToAddress:   "bc1qrecipient",
		Asset:       domain.AssetBTC,
		Amount:      decimal.RequireFromString("0.01"),
		Status:      domain.PaymentStatusPending,
	}
	return payment, wallet
}

func TestPaymentService_UpdateStatus_Completed(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	payment, wallet := pendingExternalPayment(userID)
	txRef := "btc-tx-hash"

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)
	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.paymentRepo.EXPECT().GetByLedgerTxRef(ctx, txRef).Return(nil, nil)
	d.paymentRepo.EXPECT().
		TransitionFromPending(ctx, payment.ID, domain.PaymentStatusCompleted, &txRef, nil, gomock.Any()).
		Return(true, nil)

	result, err := d.svc.UpdateStatus(ctx, ports.StatusUpdateRequest{
		UserID:    userID,
		PaymentID: payment.ID,
		Status:    domain.PaymentStatusCompleted,
		TxRef:     &txRef,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Status)
	assert.NotNil(t, result.CompletedAt)
}

func TestPaymentService_UpdateStatus_Cancelled(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	payment, wallet := pendingExternalPayment(userID)

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)
	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.paymentRepo.EXPECT().
		TransitionFromPending(ctx, payment.ID, domain.PaymentStatusCancelled, nil, nil, nil).
		Return(true, nil)

	result, err := d.svc.UpdateStatus(ctx, ports.StatusUpdateRequest{
		UserID:    userID,
		PaymentID: payment.ID,
		Status:    domain.PaymentStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCancelled, result.Status)
	assert.Nil(t, result.CompletedAt)
}

func TestPaymentService_UpdateStatus_AlreadyTerminal(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	payment, _ := pendingExternalPayment(userID)
	payment.Status = domain.PaymentStatusCompleted

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)

	_, err := d.svc.UpdateStatus(ctx, ports.StatusUpdateRequest{
		UserID:    userID,
		PaymentID: payment.ID,
		Status:    domain.PaymentStatusFailed,
	})
	assert.Equal(t, "PAY_006", appErrCode(t, err))
}

func TestPaymentService_UpdateStatus_PendingTargetRejected(t *testing.T) {
	d := setupPaymentService(t)

	_, err := d.svc.UpdateStatus(context.Background(), ports.StatusUpdateRequest{
		UserID:    uuid.New(),
		PaymentID: uuid.New(),
		Status:    domain.PaymentStatusPending,
	})
	assert.Error(t, err)
}

func TestPaymentService_UpdateStatus_CustodiedRejected(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	payment, wallet := pendingExternalPayment(userID)
	wallet.Custody = domain.CustodySelf

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)
	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)

	_, err := d.svc.UpdateStatus(ctx, ports.StatusUpdateRequest{
		UserID:    userID,
		PaymentID: payment.ID,
		Status:    domain.PaymentStatusCompleted,
	})
	assert.Error(t, err)
}

func TestPaymentService_UpdateStatus_DuplicateTxRef(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	payment, wallet := pendingExternalPayment(userID)
	txRef := "already-used"

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)
	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.paymentRepo.EXPECT().GetByLedgerTxRef(ctx, txRef).Return(&domain.Payment{ID: uuid.New()}, nil)

	_, err := d.svc.UpdateStatus(ctx, ports.StatusUpdateRequest{
		UserID:    userID,
		PaymentID: payment.ID,
		Status:    domain.PaymentStatusCompleted,
		TxRef:     &txRef,
	})
	assert.Error(t, err)
}

func TestPaymentService_UpdateStatus_LostRace(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()
	payment, wallet := pendingExternalPayment(userID)

	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(payment, nil)
	d.walletRepo.EXPECT().GetByID(ctx, wallet.ID).Return(wallet, nil)
	d.paymentRepo.EXPECT().
		TransitionFromPending(ctx, payment.ID, domain.PaymentStatusFailed, nil, nil, nil).
		Return(false, nil)
	completed := *payment
	completed.Status = domain.PaymentStatusCompleted
	d.paymentRepo.EXPECT().GetByID(ctx, payment.ID).Return(&completed, nil)

	_, err := d.svc.UpdateStatus(ctx, ports.StatusUpdateRequest{
		UserID:    userID,
		PaymentID: payment.ID,
		Status:    domain.PaymentStatusFailed,
	})
	assert.Equal(t, "PAY_006", appErrCode(t, err))
}

// ==================== Get / List Tests ====================

func TestPaymentService_Get_NotFound(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	id := uuid.New()

	d.paymentRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := d.svc.Get(ctx, id)
	assert.Equal(t, "PAY_005", appErrCode(t, err))
}

func TestPaymentService_ListForUser_DefaultsPagination(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	userID := uuid.New()

	d.paymentRepo.EXPECT().
		List(ctx, ports.PaymentListParams{UserID: userID, Page: 1, PageSize: 20}).
		Return([]domain.Payment{}, int64(0), nil)

	_, total, err := d.svc.ListForUser(ctx, ports.PaymentListParams{UserID: userID, Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
