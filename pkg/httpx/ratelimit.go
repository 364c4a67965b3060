package httpx

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/pali/pkg/slogx"
	"golang.org/x/time/rate"
)

// Limit is a token bucket refilled with Requests tokens every Window and
// holding at most Burst tokens.
type Limit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

func (l Limit) Validate() error {
	switch {
	case l.Requests <= 0:
		return errors.New("requests must be positive")
	case l.Window <= 0:
		return errors.New("window must be positive")
	case l.Burst <= 0:
		return errors.New("burst must be positive")
	}
	return nil
}

func (l Limit) perSecond() rate.Limit {
	return rate.Limit(float64(l.Requests) / l.Window.Seconds())
}

// refill is how long an untouched bucket takes to fill back up to Burst.
func (l Limit) refill() time.Duration {
	return time.Duration(float64(l.Window) * float64(l.Burst) / float64(l.Requests))
}

// Limits holds one Limit per class of route.
type Limits struct {
	Strict   Limit // unauthenticated lifecycle routes
	Moderate Limit // key management
	Lenient  Limit // resources and probes
	Public   Limit // banner
}

// DefaultLimits returns the per-minute profiles used when nothing is configured.
func DefaultLimits() Limits {
	perMinute := func(n int) Limit { return Limit{Requests: n, Window: time.Minute, Burst: n} }
	return Limits{
		Strict:   perMinute(5),
		Moderate: perMinute(20),
		Lenient:  perMinute(100),
		Public:   perMinute(1000),
	}
}

func (ls Limits) Validate() error {
	for name, l := range map[string]Limit{
		"strict":   ls.Strict,
		"moderate": ls.Moderate,
		"lenient":  ls.Lenient,
		"public":   ls.Public,
	} {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// KeyFunc names the bucket a request draws from. An empty key bypasses the
// limiter.
type KeyFunc func(*http.Request) string

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets is a set of token buckets sharing one Limit. Buckets idle long
// enough to have refilled are swept, at most once per sweepEvery.
type buckets struct {
	limit      Limit
	sweepEvery time.Duration

	mu      sync.Mutex
	byKey   map[string]*bucket
	sweptAt time.Time
}

func newBuckets(l Limit, now time.Time) *buckets {
	return &buckets{
		limit:      l,
		sweepEvery: max(l.refill(), time.Minute),
		byKey:      make(map[string]*bucket),
		sweptAt:    now,
	}
}

// take spends one token from key's bucket. When the bucket is empty it
// reports how long until a token is available.
func (b *buckets) take(key string, now time.Time) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.sweptAt) >= b.sweepEvery {
		idle := b.limit.refill()
		for k, bk := range b.byKey {
			if now.Sub(bk.lastSeen) >= idle {
				delete(b.byKey, k)
			}
		}
		b.sweptAt = now
	}

	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(b.limit.perSecond(), b.limit.Burst)}
		b.byKey[key] = bk
	}
	bk.lastSeen = now

	res := bk.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, b.limit.Window
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return false, wait
	}
	return true, 0
}

func (b *buckets) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byKey)
}

// RateLimit rejects requests with 429 once the bucket named by key runs dry.
func RateLimit(l Limit, key KeyFunc) Middleware {
	return rateLimit(newBuckets(l, time.Now()), key, time.Now)
}

func rateLimit(set *buckets, key KeyFunc, now func() time.Time) Middleware {
	l := set.limit
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				slogx.FromContext(r.Context()).Warn("rate limit key unresolved, request not limited")
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := set.take(k, now())
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retry := max(int(math.Ceil(wait.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Requests))
			w.Header().Set("X-RateLimit-Window", l.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limited",
				"key", k,
				"path", r.URL.Path,
				"retry_after", retry,
			)
			WriteError(w, http.StatusTooManyRequests, "too many requests, please try again later")
		})
	}
}
