// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/comicvault/internal/platform/apperr"
	"github.com/taibuivan/comicvault/internal/platform/constants"
	"github.com/taibuivan/comicvault/internal/platform/respond"
)

// # Rate Limiting

// Bucket sizes one token bucket.
type Bucket struct {
	RPS   float64
	Burst int
}

func (bucket Bucket) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(bucket.RPS), bucket.Burst)
}

type clientBuckets struct {
	read     *rate.Limiter
	write    *rate.Limiter
	lastSeen time.Time
}

/*
RateLimiter keeps token buckets per client IP.

Every request draws from the read bucket. Requests that mutate state
(anything but GET, HEAD and OPTIONS) also draw from the smaller write
bucket, so one client uploading pages in bulk cannot starve catalog
browsing for itself or others.
*/
type RateLimiter struct {
	read  Bucket
	write Bucket

	mu      sync.Mutex
	clients map[string]*clientBuckets
}

// NewRateLimiter builds a limiter with the given bucket sizes.
func NewRateLimiter(read, write Bucket) *RateLimiter {
	return &RateLimiter{
		read:    read,
		write:   write,
		clients: make(map[string]*clientBuckets),
	}
}

// Handler is the middleware. A refused request gets 429 with Retry-After.
func (limiter *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if wait, allowed := limiter.allow(RealIP(request), isWrite(request.Method)); !allowed {
			seconds := int(math.Ceil(wait.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(seconds))
			respond.Error(writer, request, apperr.RateLimited(seconds))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// allow reports whether the client may proceed, and if not roughly how long
// until the exhausted bucket refills one token.
func (limiter *RateLimiter) allow(client string, write bool) (time.Duration, bool) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	buckets, found := limiter.clients[client]
	if !found {
		buckets = &clientBuckets{read: limiter.read.limiter(), write: limiter.write.limiter()}
		limiter.clients[client] = buckets
	}
	buckets.lastSeen = time.Now()

	if !buckets.read.Allow() {
		return refill(limiter.read), false
	}
	if write && !buckets.write.Allow() {
		return refill(limiter.write), false
	}
	return 0, true
}

// Sweep forgets clients idle for at least idle.
func (limiter *RateLimiter) Sweep(idle time.Duration) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for client, buckets := range limiter.clients {
		if time.Since(buckets.lastSeen) >= idle {
			delete(limiter.clients, client)
		}
	}
}

// Run sweeps on every interval until context is cancelled.
func (limiter *RateLimiter) Run(context context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			limiter.Sweep(idle)
		case <-context.Done():
			return
		}
	}
}

func refill(bucket Bucket) time.Duration {
	if bucket.RPS <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / bucket.RPS)
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
