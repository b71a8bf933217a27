package ratelimit

import (
	"context"
)

// Category identifies which bucket an operation draws from.
type Category int

const (
	CategoryConnection Category = iota
	CategoryRestPublic
	CategoryRestPrivate
	CategoryWsOrders
	CategoryL3Depth10
	CategoryL3Depth100
	CategoryL3Depth1000
)

func (c Category) String() string {
	switch c {
	case CategoryConnection:
		return "connection"
	case CategoryRestPublic:
		return "rest_public"
	case CategoryRestPrivate:
		return "rest_private"
	case CategoryWsOrders:
		return "ws_orders"
	case CategoryL3Depth10:
		return "l3_depth_10"
	case CategoryL3Depth100:
		return "l3_depth_100"
	case CategoryL3Depth1000:
		return "l3_depth_1000"
	default:
		return "unknown"
	}
}

// FromL3Depth buckets a configured L3 depth into the matching rate-limit category.
func FromL3Depth(depth int) Category {
	switch {
	case depth <= 10:
		return CategoryL3Depth10
	case depth <= 100:
		return CategoryL3Depth100
	default:
		return CategoryL3Depth1000
	}
}

// BucketConfig is one category's capacity/refill-rate pair.
type BucketConfig struct {
	Capacity   int
	RefillRate float64
}

// Config lists the capacity/refill-rate pair for every category.
type Config struct {
	Connection  BucketConfig
	RestPublic  BucketConfig
	RestPrivate BucketConfig
	WsOrders    BucketConfig
	L3Depth10   BucketConfig
	L3Depth100  BucketConfig
	L3Depth1000 BucketConfig
}

// KrakenDefaults returns the exchange's documented default bucket sizing.
func KrakenDefaults() Config {
	return Config{
		Connection:  BucketConfig{150, 0.25},
		RestPublic:  BucketConfig{15, 0.5},
		RestPrivate: BucketConfig{20, 0.33},
		WsOrders:    BucketConfig{15, 15.0},
		L3Depth10:   BucketConfig{5, 1.0},
		L3Depth100:  BucketConfig{25, 5.0},
		L3Depth1000: BucketConfig{100, 20.0},
	}
}

// HighTier returns a more generous sizing for elevated account tiers.
func HighTier() Config {
	c := KrakenDefaults()
	c.RestPrivate = BucketConfig{40, 1.0}
	c.WsOrders = BucketConfig{30, 30.0}
	return c
}

// Permissive disables effective limiting, for tests and local development.
func Permissive() Config {
	all := BucketConfig{1000, 100.0}
	return Config{all, all, all, all, all, all, all}
}

func (c Config) get(category Category) BucketConfig {
	switch category {
	case CategoryConnection:
		return c.Connection
	case CategoryRestPublic:
		return c.RestPublic
	case CategoryRestPrivate:
		return c.RestPrivate
	case CategoryWsOrders:
		return c.WsOrders
	case CategoryL3Depth10:
		return c.L3Depth10
	case CategoryL3Depth100:
		return c.L3Depth100
	default:
		return c.L3Depth1000
	}
}

// Limiter owns one Bucket per category and optional per-symbol custom buckets.
type Limiter struct {
	buckets map[Category]*Bucket
	custom  map[string]*Bucket
}

// New constructs a Limiter from config.
func New(config Config) *Limiter {
	l := &Limiter{
		buckets: make(map[Category]*Bucket),
		custom:  make(map[string]*Bucket),
	}
	for _, category := range []Category{
		CategoryConnection, CategoryRestPublic, CategoryRestPrivate, CategoryWsOrders,
		CategoryL3Depth10, CategoryL3Depth100, CategoryL3Depth1000,
	} {
		bc := config.get(category)
		l.buckets[category] = NewBucket(bc.Capacity, bc.RefillRate)
	}
	return l
}

// SetCustomBucket registers a per-symbol escape-hatch bucket.
func (l *Limiter) SetCustomBucket(symbol string, capacity int, refillRate float64) {
	l.custom[symbol] = NewBucket(capacity, refillRate)
}

// TryAcquireN attempts to consume n tokens from category without blocking.
func (l *Limiter) TryAcquireN(category Category, n int) Result {
	return l.buckets[category].TryAcquire(n)
}

// TryAcquireSymbol attempts to consume n tokens from symbol's custom bucket,
// if one is registered; ok is false if no custom bucket exists for symbol.
func (l *Limiter) TryAcquireSymbol(symbol string, n int) (result Result, ok bool) {
	b, exists := l.custom[symbol]
	if !exists {
		return Result{}, false
	}
	return b.TryAcquire(n), true
}

// AcquireN blocks (honoring ctx) until n tokens from category are available.
func (l *Limiter) AcquireN(ctx context.Context, category Category, n int) error {
	return l.buckets[category].AcquireBlocking(ctx, n)
}

// Available returns the current token count for category.
func (l *Limiter) Available(category Category) float64 {
	return l.buckets[category].Available()
}

// Reset refills every managed bucket (category buckets only, not custom ones).
func (l *Limiter) Reset() {
	for _, b := range l.buckets {
		b.Reset()
	}
}
