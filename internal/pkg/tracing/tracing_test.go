package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/not-enough-mana/internal/pkg/tracing"
)

func TestSetup_NoopWithoutEndpoint(t *testing.T) {
	shutdown, err := tracing.Setup(context.Background(), "arena-test", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx))
}

func TestSetup_WithEndpoint(t *testing.T) {
	// non-routable, nothing is exported before shutdown
	shutdown, err := tracing.Setup(context.Background(), "arena-test", "http://192.0.2.1:4318")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
