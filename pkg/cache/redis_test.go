package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/matzehuels/butterfly/pkg/errors"
)

func TestNewRedisCacheInvalidAddr(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisOptions{Addr: "localhost"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	// Reserve a port and close it so nothing listens there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewRedisCache(context.Background(), RedisOptions{Addr: addr, DialTimeout: 200 * time.Millisecond})
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}
