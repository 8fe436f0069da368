package telemetry_test

import (
	"context"
	"testing"

	"github.com/goto/fulltext/pkg/telemetry"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("should return a no-op clean up when disabled", func(t *testing.T) {
		cleanUp, err := telemetry.Init(context.Background(), telemetry.Config{AppName: "fulltext"}, log.NewNoop())
		require.NoError(t, err)
		require.NotNil(t, cleanUp)
		assert.NotPanics(t, cleanUp)
	})

	t.Run("should hand out a tracer before init", func(t *testing.T) {
		_, span := telemetry.Tracer().Start(context.Background(), "test")
		defer span.End()
		assert.False(t, span.SpanContext().IsValid())
	})
}
