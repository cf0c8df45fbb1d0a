// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the request-scoped values keyed in ctxkey.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/comicvault/internal/platform/ctxkey"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

// # Correlation

// WithRequestID attaches the correlation id of the current request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Logging

// WithLogger attaches a request logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Viewer

/*
WithViewer attaches the caller and narrows the request logger to it.

A nil viewer returns ctx unchanged, so anonymous requests keep reading as
anonymous downstream.
*/
func WithViewer(ctx context.Context, viewer *sec.Viewer) context.Context {
	if viewer == nil {
		return ctx
	}

	ctx = context.WithValue(ctx, ctxkey.KeyViewer, viewer)
	return WithLogger(ctx, GetLogger(ctx).With(
		slog.Int64("viewer_id", viewer.ID),
		slog.String("viewer_role", string(viewer.Role)),
	))
}

// GetViewer returns the caller, or nil for an anonymous request.
func GetViewer(ctx context.Context) *sec.Viewer {
	viewer, _ := ctx.Value(ctxkey.KeyViewer).(*sec.Viewer)
	return viewer
}
