// Package attack drives concurrent purchase traffic against a running
// simulator and aggregates the observed outcomes per decrement method.
package attack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/flash-sale-simulator/internal/model"
)

// Variant selects which purchase endpoint a run exercises.
type Variant string

const (
	VariantUnsafe Variant = "unsafe"
	VariantSafe   Variant = "safe"
)

// Default run parameters, matching the canonical flash-sale scenario.
const (
	DefaultUsers        = 500
	DefaultInitialStock = 50
)

// Result aggregates one attack run against a single variant.
//
// Every attempt lands in exactly one of Succeeded, SoldOut, or Errored.
// Transport and server failures are tallied as Errored, never folded into
// SoldOut: a dead store must not look like a correct sell-out.
type Result struct {
	Variant    Variant
	Attempted  int
	Succeeded  int
	SoldOut    int
	Errored    int
	FinalStock int64
	Elapsed    time.Duration
}

// Oversold reports whether more purchases succeeded than stock existed.
func (r Result) Oversold(initialStock int64) bool {
	return int64(r.Succeeded) > initialStock
}

// Exact reports whether the run sold exactly min(attempted, initialStock)
// units and left a non-negative counter.
func (r Result) Exact(initialStock int64) bool {
	want := initialStock
	if int64(r.Attempted) < want {
		want = int64(r.Attempted)
	}
	return int64(r.Succeeded) == want && r.FinalStock >= 0
}

// Runner launches concurrent purchase attempts against a target service.
type Runner struct {
	Target       string
	Users        int
	InitialStock int64
	Client       *http.Client
}

// NewRunner builds a Runner whose HTTP client can keep all attempts
// in flight at once; queuing connections would soften the contention
// the run exists to produce.
func NewRunner(target string, users int, initialStock int64) *Runner {
	return &Runner{
		Target:       target,
		Users:        users,
		InitialStock: initialStock,
		Client: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        users,
				MaxIdleConnsPerHost: users,
				MaxConnsPerHost:     0,
			},
		},
	}
}

// Run resets stock, fires Users concurrent attempts at the variant, waits
// for all of them to settle, and reads back the final counter. The reset
// must complete before dispatch; a failed reset aborts the run.
func (r *Runner) Run(ctx context.Context, variant Variant) (Result, error) {
	if err := r.reset(ctx); err != nil {
		return Result{}, fmt.Errorf("attack: reset before %s run: %w", variant, err)
	}

	var succeeded, soldOut, errored atomic.Int64
	var wg sync.WaitGroup
	wg.Add(r.Users)
	start := time.Now()
	for i := 0; i < r.Users; i++ {
		go func() {
			defer wg.Done()
			switch r.attempt(ctx, variant) {
			case http.StatusOK:
				succeeded.Add(1)
			case http.StatusConflict:
				soldOut.Add(1)
			default:
				errored.Add(1)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	final, err := r.finalStock(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("attack: final stock after %s run: %w", variant, err)
	}
	return Result{
		Variant:    variant,
		Attempted:  r.Users,
		Succeeded:  int(succeeded.Load()),
		SoldOut:    int(soldOut.Load()),
		Errored:    int(errored.Load()),
		FinalStock: final,
		Elapsed:    elapsed,
	}, nil
}

// attempt returns the HTTP status of one purchase call, or 0 on a
// transport-level failure.
func (r *Runner) attempt(ctx context.Context, variant Variant) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Target+"/purchase/"+string(variant), nil)
	if err != nil {
		return 0
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return 0
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode
}

func (r *Runner) reset(ctx context.Context) error {
	url := fmt.Sprintf("%s/stock/reset?amount=%d", r.Target, r.InitialStock)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (r *Runner) finalStock(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Target+"/stock", nil)
	if err != nil {
		return 0, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var lvl model.StockLevel
	if err := json.NewDecoder(resp.Body).Decode(&lvl); err != nil {
		return 0, err
	}
	return lvl.CurrentStock, nil
}
