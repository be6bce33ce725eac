package api

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"fincalc/internal/errors"
	"fincalc/internal/logging"
)

// RateLimiter throttles each client with its own token bucket
type RateLimiter struct {
	// limiters stores rate limiters per IP/API key
	limiters sync.Map
	// rate is the number of requests per second allowed
	rate rate.Limit
	// burst is the maximum burst size
	burst int
	// cleanupInterval is how often idle limiters are dropped
	cleanupInterval time.Duration
	// idleTimeout is how long a limiter may go unused before it is dropped
	idleTimeout time.Duration
	// trusted are the proxies allowed to name the client in X-Forwarded-For
	trusted []netip.Prefix

	stop     chan struct{}
	stopOnce sync.Once
}

// limiterEntry holds a rate limiter and its last access time
type limiterEntry struct {
	limiter *rate.Limiter

	mu         sync.Mutex
	lastAccess time.Time
}

func (e *limiterEntry) touch(now time.Time) {
	e.mu.Lock()
	e.lastAccess = now
	e.mu.Unlock()
}

func (e *limiterEntry) idleSince(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Sub(e.lastAccess)
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
// trustedProxies holds addresses or CIDRs; X-Forwarded-For is only read
// from requests whose peer matches one. Call Stop to end the loop.
func NewRateLimiter(requestsPerSecond float64, burst int, trustedProxies []string) (*RateLimiter, error) {
	trusted, err := parseTrustedProxies(trustedProxies)
	if err != nil {
		return nil, err
	}

	rl := &RateLimiter{
		rate:            rate.Limit(requestsPerSecond),
		burst:           burst,
		cleanupInterval: 5 * time.Minute,
		idleTimeout:     10 * time.Minute,
		trusted:         trusted,
		stop:            make(chan struct{}),
	}

	go rl.cleanup()

	return rl, nil
}

func parseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, errors.Config(fmt.Sprintf("invalid trusted proxy %q", entry), err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, errors.Config(fmt.Sprintf("invalid trusted proxy %q", entry), err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup removes limiters that haven't been accessed recently
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.limiters.Range(func(key, value interface{}) bool {
		if entry, ok := value.(*limiterEntry); ok && entry.idleSince(now) > rl.idleTimeout {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// getLimiter returns the rate limiter for a specific key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now()
	if val, ok := rl.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.touch(now)
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rl.rate, rl.burst),
		lastAccess: now,
	}

	// another request may have stored one first
	actual, _ := rl.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

func (rl *RateLimiter) isTrusted(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range rl.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIdentifier returns the peer address. When the peer is a trusted
// proxy, X-Forwarded-For is walked from the right and the first hop that
// is not itself a trusted proxy is used instead.
func (rl *RateLimiter) clientIdentifier(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}

	if !rl.isTrusted(host) {
		return "ip:" + host
	}

	var hops []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(header, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if !rl.isTrusted(hops[i]) {
			return "ip:" + hops[i]
		}
	}
	if len(hops) > 0 {
		return "ip:" + hops[0]
	}
	return "ip:" + host
}

// Middleware rejects requests over the client's budget with 429. Health
// checks are never limited.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		clientID := rl.clientIdentifier(r)
		limiter := rl.getLimiter(clientID)
		reset := fmt.Sprintf("%d", time.Now().Add(time.Second).Unix())

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
		w.Header().Set("X-RateLimit-Reset", reset)

		if !limiter.Allow() {
			logging.FromContext(r.Context()).Warn("Rate limit exceeded",
				zap.String("client_id", clientID),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)

			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "1")
			writeError(w, r, errors.RateLimited(clientID))
			return
		}

		remaining := int(limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		next.ServeHTTP(w, r)
	})
}
