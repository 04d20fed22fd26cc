package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ravenholt/Emberfell_Go/internal/logger"
)

// Edge abuse thresholds, keyed by client IP. The gameplay limiter in
// internal/ratelimit is a separate mechanism keyed by actor; this layer only
// guards the HTTP surface itself.
const (
	// failedAuthAlertAt is the failed-key count per IP that raises an alert.
	failedAuthAlertAt = 5

	// ipRequestCeiling caps requests per IP per detector window. Thirty
	// gameplay calls a minute fits comfortably; a thousand in five minutes
	// is a script.
	ipRequestCeiling = 1000

	// ceilingLogInterval throttles the over-ceiling alert so a runaway
	// client cannot flood the log.
	ceilingLogInterval = 100

	// detectorWindow is how long failed-auth and request counts accumulate
	// before the detector starts a fresh window.
	detectorWindow = 5 * time.Minute
)

// AuthMiddleware requires the API key on everything outside PublicPaths.
// The comparison is constant time so the key cannot be probed byte by byte.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range PublicPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := clientIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps request body size. Gameplay requests are a
// few hundred bytes of JSON; anything near the cap is hostile or broken.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SuspiciousActivityDetector counts failed auth attempts and request volume
// per client IP over a rolling window.
type SuspiciousActivityDetector struct {
	mu        sync.Mutex
	windowEnd time.Time
	authFails map[string]int
	requests  map[string]int
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		windowEnd: time.Now().Add(detectorWindow),
		authFails: make(map[string]int),
		requests:  make(map[string]int),
	}
}

// RecordFailedAuth counts a bad API key from the IP and alerts once the count
// passes failedAuthAlertAt.
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollWindow()
	s.authFails[ip]++

	if s.authFails[ip] >= failedAuthAlertAt {
		slog.Warn(SecurityAlertFailedAuth,
			"ip", ip,
			"count", s.authFails[ip])
	}
}

// RecordRequest counts one request from the IP and reports whether it is
// still under the per-window ceiling.
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollWindow()
	s.requests[ip]++

	if s.requests[ip] > ipRequestCeiling {
		if s.requests[ip]%ceilingLogInterval == 0 {
			slog.Warn(SecurityAlertHighRate,
				"ip", ip,
				"count_in_window", s.requests[ip])
		}
		return false
	}
	return true
}

// rollWindow starts a fresh counting window once the current one ends.
// Caller must hold the mutex.
func (s *SuspiciousActivityDetector) rollWindow() {
	if now := time.Now(); now.After(s.windowEnd) {
		s.authFails = make(map[string]int)
		s.requests = make(map[string]int)
		s.windowEnd = now.Add(detectorWindow)
	}
}

// SecurityLoggingMiddleware feeds the detector and rejects IPs over the
// request ceiling before any handler work happens.
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.RecordRequest(clientIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the client address. X-Forwarded-For is honored only when
// the direct peer is a configured trusted proxy, and then only its rightmost
// entry, which is the hop that proxy actually saw. Everything left of it is
// client-controlled.
func clientIP(r *http.Request, trustedProxies []string) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}

	for _, proxy := range trustedProxies {
		if proxy != peer {
			continue
		}
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
		break
	}

	return peer
}

// SecurityHeadersMiddleware sets the standard browser hardening headers on
// every response.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
