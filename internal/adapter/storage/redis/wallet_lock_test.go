package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plakshaa/xrplwallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) *WalletLock {
	t.Helper()
	client, _ := setupTestRedis(t)
	lock := NewWalletLock(client, time.Minute, zerolog.Nop())
	lock.acquire = 300 * time.Millisecond
	lock.retry = 20 * time.Millisecond
	return lock
}

func TestWalletLock_AcquireAndRelease(t *testing.T) {
	lock := newTestLock(t)
	ctx := context.Background()
	walletID := uuid.New()

	release, err := lock.Acquire(ctx, walletID)
	require.NoError(t, err)
	release()

	// Second acquire succeeds after release
	release2, err := lock.Acquire(ctx, walletID)
	require.NoError(t, err)
	release2()
}

func TestWalletLock_ContendedTimesOut(t *testing.T) {
	lock := newTestLock(t)
	ctx := context.Background()
	walletID := uuid.New()

	release, err := lock.Acquire(ctx, walletID)
	require.NoError(t, err)
	defer release()

	_, err = lock.Acquire(ctx, walletID)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SYS_002", appErr.Code)
}

func TestWalletLock_DifferentWalletsIndependent(t *testing.T) {
	lock := newTestLock(t)
	ctx := context.Background()

	releaseA, err := lock.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := lock.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer releaseB()
}

func TestWalletLock_ReleaseIsTokenScoped(t *testing.T) {
	lock := newTestLock(t)
	client, mr := setupTestRedis(t)
	lock.client = client
	ctx := context.Background()
	walletID := uuid.New()

	release, err := lock.Acquire(ctx, walletID)
	require.NoError(t, err)

	// Simulate expiry and re-acquisition by another holder.
	mr.FastForward(2 * time.Minute)
	release2, err := lock.Acquire(ctx, walletID)
	require.NoError(t, err)
	defer release2()

	// The stale release must not free the new holder's lock.
	release()
	_, err = lock.Acquire(ctx, walletID)
	assert.Error(t, err)
}
