package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"gourmetto/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimiter)

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

// rateLimiter keeps one token bucket per key and forgets keys that have
// been idle for maxAge.
type rateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	maxAge  time.Duration
	keyFn   RateLimitKeyFunc
	clients map[string]*limiterEntry
}

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(rl *rateLimiter) {
		if fn != nil {
			rl.keyFn = fn
		}
	}
}

func RateLimit(perSecond float64, burst int, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := newRateLimiter(perSecond, burst, actorOrIPKey)
	for _, opt := range opts {
		opt(rl)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SensitiveRateLimit throttles logins and registrations harder, keyed by
// both client address and submitted email.
func SensitiveRateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	authBurst := max(burst/4, 1)
	byIP := newRateLimiter(perSecond/4, authBurst, clientIPKey)
	byEmail := newRateLimiter(perSecond/4, authBurst, AuthEmailOrIPKey("email"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSensitive(r) {
				if !byIP.enforce(w, r) {
					return
				}
				if !byEmail.enforce(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AuthEmailOrIPKey(field string) RateLimitKeyFunc {
	normalizedField := strings.TrimSpace(field)
	if normalizedField == "" {
		normalizedField = "email"
	}
	return func(r *http.Request) string {
		email := extractJSONField(r, normalizedField)
		if email == "" {
			return clientIPKey(r)
		}
		return "email:" + strings.ToLower(email)
	}
}

func actorOrIPKey(r *http.Request) string {
	if claims, ok := GetClaims(r.Context()); ok && claims.UserID != "" {
		return "user:" + claims.UserID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		parts := strings.Split(fwd, ",")
		if value := strings.TrimSpace(parts[0]); value != "" {
			return value
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func newRateLimiter(perSecond float64, burst int, keyFn RateLimitKeyFunc) *rateLimiter {
	if keyFn == nil {
		keyFn = actorOrIPKey
	}
	return &rateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		maxAge:  10 * time.Minute,
		keyFn:   keyFn,
		clients: map[string]*limiterEntry{},
	}
}

func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if entry, ok := rl.clients[key]; ok {
		entry.updated = now
		return entry.limiter
	}

	lim := rate.NewLimiter(rl.limit, rl.burst)
	rl.clients[key] = &limiterEntry{limiter: lim, updated: now}
	for k, entry := range rl.clients {
		if now.Sub(entry.updated) > rl.maxAge {
			delete(rl.clients, k)
		}
	}
	return lim
}

func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 || rl.burst <= 0 {
		return true
	}

	key := rl.keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}
	lim := rl.get(key)
	allowed := lim.Allow()

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(lim.Tokens()), 0)))

	if !allowed {
		w.Header().Set("Retry-After", "1")
		log.Warn().Str("key", key).Str("path", r.URL.Path).Str("method", r.Method).
			Float64("limit", float64(rl.limit)).Int("burst", rl.burst).Msg("rate limit exceeded")
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		return false
	}
	return true
}

func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}

func isSensitive(r *http.Request) bool {
	if r == nil || r.Method != http.MethodPost {
		return false
	}
	switch normalizedAPIPath(r.URL.Path) {
	case "/auth/login", "/auth/register":
		return true
	}
	return false
}

func normalizedAPIPath(path string) string {
	cleaned := strings.TrimPrefix(strings.TrimSpace(path), "/api/v1")
	if cleaned == "" {
		return "/"
	}
	if !strings.HasPrefix(cleaned, "/") {
		return "/" + cleaned
	}
	return cleaned
}
