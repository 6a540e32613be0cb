package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "", "portfolio-api")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestHostPort(t *testing.T) {
	tests := map[string]string{
		"collector:4317":              "collector:4317",
		"http://collector:4317":       "collector:4317",
		"https://otel.example.com/v1": "otel.example.com",
	}
	for in, want := range tests {
		assert.Equal(t, want, hostPort(in), in)
	}
}
