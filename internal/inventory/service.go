// Package inventory implements the stock decrement engine.
//
// Two purchase paths compete over one Redis counter: PurchaseUnsafe runs a
// non-atomic read-check-write and loses updates under contention, while
// PurchaseSafe runs the same check-and-decrement as a single Lua script and
// stays exact under any level of concurrency. The pair exists to make the
// difference observable; neither path retries on store failure.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StockKey is the Redis key holding the remaining stock counter.
const StockKey = "product_stock"

// DefaultInitialStock is the reset amount when the caller does not pick one.
const DefaultInitialStock = 50

// ErrStoreUnavailable wraps connectivity and timeout failures against the
// counter store. Out-of-stock is never an error; it is a false result.
var ErrStoreUnavailable = errors.New("inventory: counter store unavailable")

// purchaseScript checks and decrements the counter inside Redis. The whole
// body executes without interleaving from other commands on the key.
var purchaseScript = redis.NewScript(`
local stock = redis.call('GET', KEYS[1])
if stock and tonumber(stock) > 0 then
    redis.call('DECR', KEYS[1])
    return 1
end
return 0
`)

// Service provides stock operations over a shared Redis counter.
type Service struct {
	rdb   redis.UniversalClient
	delay time.Duration
}

// New constructs a Service. delay is the simulated processing pause between
// the unsafe path's read and write; it widens the race window so the lost
// updates show up reliably under load.
func New(rdb redis.UniversalClient, delay time.Duration) *Service {
	return &Service{rdb: rdb, delay: delay}
}

// Reset unconditionally sets the counter to amount. Idempotent.
func (s *Service) Reset(ctx context.Context, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("inventory: reset amount %d must not be negative", amount)
	}
	if err := s.rdb.Set(ctx, StockKey, amount, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Stock returns the current counter value, treating an absent key as zero.
func (s *Service) Stock(ctx context.Context) (int64, error) {
	v, err := s.rdb.Get(ctx, StockKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return v, nil
}

// PurchaseUnsafe attempts a purchase with a non-atomic read-check-write.
//
// It reads the counter, and if positive, writes back the observed value
// minus one after the configured delay. The write does not re-check the
// live value, so concurrent callers that read the same stock each commit
// the same result and updates are lost. Returns whether the read-time
// check passed; not safe under concurrent invocation.
func (s *Service) PurchaseUnsafe(ctx context.Context) (bool, error) {
	var stock int64
	v, err := s.rdb.Get(ctx, StockKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		stock = 0
	case err != nil:
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		stock = v
	}
	if stock <= 0 {
		return false, nil
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, ctx.Err())
		}
	}
	if err := s.rdb.Set(ctx, StockKey, stock-1, 0).Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return true, nil
}

// PurchaseSafe attempts a purchase through the atomic server-side script.
//
// For any number of concurrent callers, exactly min(attempts, stock) calls
// succeed and the counter never commits below zero.
func (s *Service) PurchaseSafe(ctx context.Context) (bool, error) {
	res, err := purchaseScript.Run(ctx, s.rdb, []string{StockKey}).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return res == 1, nil
}
