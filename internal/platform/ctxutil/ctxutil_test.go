// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/platform/ctxutil"
	"github.com/taibuivan/comicvault/internal/platform/sec"
)

func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", ctxutil.GetRequestID(ctx))
}

func TestContext_LoggerFallback(t *testing.T) {
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(context.Background()))
}

/*
TestContext_Viewer attaches a moderator and checks both the lookup and the
viewer fields on the narrowed logger.
*/
func TestContext_Viewer(t *testing.T) {
	var buffer bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buffer, nil)))

	assert.Nil(t, ctxutil.GetViewer(ctx))
	assert.Equal(t, ctx, ctxutil.WithViewer(ctx, nil))

	ctx = ctxutil.WithViewer(ctx, &sec.Viewer{ID: 7, Username: "kai", Role: sec.RoleModerator})

	viewer := ctxutil.GetViewer(ctx)
	require.NotNil(t, viewer)
	assert.Equal(t, int64(7), viewer.ID)

	ctxutil.GetLogger(ctx).Info("probe")
	assert.Contains(t, buffer.String(), "viewer_id=7")
	assert.Contains(t, buffer.String(), "viewer_role=moderator")
}
