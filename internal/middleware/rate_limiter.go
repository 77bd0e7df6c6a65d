package middleware

import (
	"sync"
	"time"

	"homefinance/internal/errors"
	"homefinance/internal/handlers"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// Detection runs are cheap once cached, but an uncached run walks the
	// full transaction history. Keep per-IP throughput modest.
	defaultRequestsPerSecond = 5
	defaultBurstSize         = 10

	visitorIdleTimeout = 3 * time.Minute
	cleanupInterval    = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterRegistry keeps one token bucket per client IP and drops buckets for
// clients that have gone quiet.
type limiterRegistry struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      int
	burst    int
}

func newLimiterRegistry(rps, burst int) *limiterRegistry {
	r := &limiterRegistry{
		visitors: make(map[string]*visitor),
		rps:      rps,
		burst:    burst,
	}
	go r.cleanupLoop()
	return r
}

func (r *limiterRegistry) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(r.rps), r.burst)}
		r.visitors[ip] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

func (r *limiterRegistry) cleanupLoop() {
	for {
		time.Sleep(cleanupInterval)

		r.mu.Lock()
		for ip, v := range r.visitors {
			if time.Since(v.lastSeen) > visitorIdleTimeout {
				delete(r.visitors, ip)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimiter limits requests per client IP with the default budget.
func RateLimiter() echo.MiddlewareFunc {
	return RateLimiterWithConfig(defaultRequestsPerSecond, defaultBurstSize)
}

// RateLimiterWithConfig limits requests per client IP with a custom budget.
func RateLimiterWithConfig(rps int, burst int) echo.MiddlewareFunc {
	registry := newLimiterRegistry(rps, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !registry.allow(getIP(c)) {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}
			return next(c)
		}
	}
}

// getIP resolves the client IP, trusting proxy headers when present.
func getIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return c.RealIP()
}
