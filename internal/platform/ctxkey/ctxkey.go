// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey names the request-scoped values the HTTP layer stores in a
// [context.Context]. Only ctxutil reads or writes them.
package ctxkey

// key is unexported so no other package can forge one.
type key uint8

const (
	// KeyRequestID holds the correlation id echoed in X-Request-ID.
	KeyRequestID key = iota + 1

	// KeyViewer holds the resolved *sec.Viewer of an authenticated caller.
	KeyViewer

	// KeyLogger holds the per-request *slog.Logger.
	KeyLogger
)
