package store

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/fairyhunter13/flash-sale-simulator/internal/config"
)

func testConfig(t *testing.T, addr string) config.Config {
	t.Helper()
	host, portStr, ok := strings.Cut(addr, ":")
	if !ok {
		t.Fatalf("bad addr %q", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("bad port %q", portStr)
	}
	return config.Config{
		RedisHost:     host,
		RedisPort:     port,
		RedisPoolSize: 10,
		RedisTimeout:  2 * time.Second,
	}
}

func TestNewClientRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewClient(testConfig(t, mr.Addr()))
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	if err := rdb.Set(ctx, "k", "42", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := rdb.Get(ctx, "k").Int64()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestNewClientStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb := NewClient(testConfig(t, addr))
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Get(ctx, "k").Err(); err == nil {
		t.Fatalf("expected error against closed store")
	}
}
