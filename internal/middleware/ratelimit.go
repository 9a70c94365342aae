package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/patrickmn/go-cache"
)

type windowEntry struct {
	mu       sync.Mutex
	requests []time.Time
}

// RateLimiter is a sliding-window limiter keyed by client address. Idle
// clients expire from the cache after one window.
type RateLimiter struct {
	max     int
	window  time.Duration
	clock   clock.Clock
	mu      sync.Mutex
	clients *cache.Cache
	trusted []*net.IPNet
}

func NewRateLimiter(max int, window time.Duration, clk clock.Clock) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		clock:   clk,
		clients: cache.New(window, 2*window),
	}
}

// WithTrustedProxies makes the limiter key requests arriving from one of nets
// by the X-Forwarded-For chain instead of the peer address.
func (rl *RateLimiter) WithTrustedProxies(nets []*net.IPNet) *RateLimiter {
	rl.trusted = nets
	return rl
}

// ParseTrustedProxies reads a comma separated list of CIDRs or bare IPs.
func ParseTrustedProxies(s string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			ip := net.ParseIP(item)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", item)
			}
			bits := 8 * net.IPv6len
			if v4 := ip.To4(); v4 != nil {
				ip, bits = v4, 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(item)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", item, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func (rl *RateLimiter) entry(key string) *windowEntry {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.clients.Get(key); ok {
		return v.(*windowEntry)
	}
	e := &windowEntry{}
	rl.clients.SetDefault(key, e)
	return e
}

func (rl *RateLimiter) Allow(key string) bool {
	now := rl.clock.Now()
	cutoff := now.Add(-rl.window)

	e := rl.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	filtered := e.requests[:0]
	for _, t := range e.requests {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	e.requests = filtered

	if len(e.requests) >= rl.max {
		return false
	}

	e.requests = append(e.requests, now)
	rl.clients.SetDefault(key, e)
	return true
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.clientAddr(r)) {
			deny(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientAddr is the peer host unless the peer is a trusted proxy. Behind a
// trusted proxy it is the rightmost X-Forwarded-For hop that is not itself
// trusted; hops left of it are client supplied.
func (rl *RateLimiter) clientAddr(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !rl.isTrusted(net.ParseIP(peer)) {
		return peer
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		ip := net.ParseIP(hop)
		if ip == nil {
			return hop
		}
		if !rl.isTrusted(ip) {
			return ip.String()
		}
	}
	return peer
}

func (rl *RateLimiter) isTrusted(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range rl.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
