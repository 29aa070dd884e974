package redis

import (
	"context"
	"time"

	"github.com/plakshaa/xrplwallet/pkg/apperror"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the lock key only if it still holds our token, so a
// lock that expired and was re-acquired by another worker is never released
// by the original holder.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// WalletLock implements ports.WalletLocker with Redis SET NX. The lock
// serializes the balance-check-then-submit sequence for one wallet across
// all service instances.
type WalletLock struct {
	client  *goredis.Client
	prefix  string
	ttl     time.Duration // upper bound on lock hold; covers ledger finality waits
	acquire time.Duration // how long to spin before giving up
	retry   time.Duration
	log     zerolog.Logger
}

// NewWalletLock creates a Redis-backed per-wallet lock. ttl must exceed the
// longest ledger submit timeout so the lock cannot expire mid-submission.
func NewWalletLock(client *goredis.Client, ttl time.Duration, log zerolog.Logger) *WalletLock {
	return &WalletLock{
		client:  client,
		prefix:  "walletlock:",
		ttl:     ttl,
		acquire: 5 * time.Second,
		retry:   100 * time.Millisecond,
		log:     log,
	}
}

// Acquire takes the lock for a wallet, returning a release func. It retries
// within a short acquisition window and fails with a lock timeout rather
// than queueing indefinitely behind a long-running submission.
func (l *WalletLock) Acquire(ctx context.Context, walletID uuid.UUID) (func(), error) {
	key := l.prefix + walletID.String()
	token := uuid.NewString()

	deadline := time.Now().Add(l.acquire)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, apperror.InternalError(err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, apperror.ErrLockTimeout(nil)
		}
		select {
		case <-ctx.Done():
			return nil, apperror.ErrLockTimeout(ctx.Err())
		case <-time.After(l.retry):
		}
	}

	release := func() {
		// Release must not inherit a cancelled request context.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("wallet_id", walletID.String()).Msg("wallet lock release failed, relying on TTL")
		}
	}
	return release, nil
}
