package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amelnychuk/fableforge/internal/testutil"
)

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)

	require.NoError(t, pc.Pool.Health(context.Background(), 5*time.Second))
	assert.NotNil(t, pc.Pool.DB())
}
