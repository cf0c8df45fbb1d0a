// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Sweep(t *testing.T) {
	limiter := NewRateLimiter(Bucket{RPS: 1, Burst: 1}, Bucket{RPS: 1, Burst: 1})

	limiter.allow("192.0.2.1", false)
	limiter.allow("192.0.2.2", true)
	limiter.clients["192.0.2.1"].lastSeen = time.Now().Add(-time.Hour)

	limiter.Sweep(time.Minute)

	assert.NotContains(t, limiter.clients, "192.0.2.1")
	assert.Contains(t, limiter.clients, "192.0.2.2")
}
