// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: IP tracking TTLs. Bucket sizes come from config.
  - Security: JWT issuer and claim keys.
  - Catalog: page size, page file naming, and cache keys.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "comicvault-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// UploadReadTimeout bounds reading a whole request. Page and submission
	// uploads carry up to MAX_UPLOAD_BYTES, so this is far above header reads.
	UploadReadTimeout = 2 * time.Minute

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "comicvault"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderRetryAfter    = "Retry-After"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Catalog

const (
	// ComicsPerPage is the fixed catalog page size.
	ComicsPerPage = 75

	// MaxRating is the highest score a viewer may give a work. Zero clears a vote.
	MaxRating = 10

	// MaxNameLength bounds work, keyword, and creator names.
	MaxNameLength = 200
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisKeyKeywordList caches the keyword list with usage counts.
	RedisKeyKeywordList = "catalog:keywords:all"
)

// # Badger Prefixes

const (
	// JournalPrefixPending marks rename plans that have not completed.
	JournalPrefixPending = "pagejournal:pending:"
)
