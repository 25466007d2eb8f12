package observability

import (
	"context"
	"testing"

	"github.com/helios-game/helios/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracing_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	tp, err := InitTracing(context.Background(), config.Tracing{Enabled: false}, "dev")
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestInitTracing_Enabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), config.Tracing{
		Enabled:     true,
		Endpoint:    "http://127.0.0.1:1/v1/traces",
		ServiceName: "helios-test",
		Environment: "test",
	}, "dev")
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	span.End()

	// Export fails against the closed port; shutdown still returns.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tp.Shutdown(ctx)
}
