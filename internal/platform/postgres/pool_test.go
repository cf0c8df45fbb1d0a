// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comicvault/internal/platform/postgres"
)

func TestConfig_SessionParams(t *testing.T) {
	poolConfig, err := postgres.Config("postgres://u:p@db:5432/comics")
	require.NoError(t, err)

	assert.EqualValues(t, 20, poolConfig.MaxConns)
	assert.Equal(t, "comicvault-api", poolConfig.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "30000", poolConfig.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestConfig_DSNOverrides(t *testing.T) {
	poolConfig, err := postgres.Config("postgres://u:p@db:5432/comics?application_name=pagectl&statement_timeout=5000")
	require.NoError(t, err)

	assert.Equal(t, "pagectl", poolConfig.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "5000", poolConfig.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestConfig_InvalidDSN(t *testing.T) {
	_, err := postgres.Config("postgres://u:p@db:notaport/comics")
	assert.Error(t, err)
}
