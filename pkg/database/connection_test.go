package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_EmptyURL(t *testing.T) {
	db, err := NewConnection("")
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestNewConnection_IsLazy(t *testing.T) {
	// nothing listens on port 1, opening must still succeed
	db, err := NewConnection("postgres://shop@127.0.0.1:1/shop?sslmode=disable&connect_timeout=1")
	require.NoError(t, err)
	defer Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	assert.Error(t, Ping(ctx, db))
}
