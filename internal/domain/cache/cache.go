package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by GetJSON when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is a JSON value cache keyed by string
type Store interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Keys shared between the services that fill and invalidate them.
const (
	KeyTripStats     = "fleet:stats:trips"
	KeyTripDashboard = "fleet:dashboard:trips"
	KeyFuelStats     = "fleet:stats:fuel"
	KeyFuelDashboard = "fleet:dashboard:fuel"
)
