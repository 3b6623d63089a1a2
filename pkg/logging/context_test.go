package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venalab/hiervet/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("WithFile adds file to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithFile(ctx, "hierarchy.csv")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithCheck adds check to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithCheck(ctx, "duplicates")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithOperation adds operation to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithOperation(ctx, "validate")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithFields adds custom fields to context", func(t *testing.T) {
		ctx := context.Background()
		fields := map[string]interface{}{
			"rows":      42,
			"dimension": "Account",
		}
		ctx = logging.WithFields(ctx, fields)

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("FromContext returns logger from context", func(t *testing.T) {
		ctx := context.Background()

		logger1 := logging.FromContext(ctx)
		assert.NotNil(t, logger1)

		ctx = logging.WithFile(ctx, "tree.csv")
		logger2 := logging.FromContext(ctx)
		assert.NotNil(t, logger2)
	})

	t.Run("Ctx extracts logger from context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithCheck(ctx, "whitespace")

		logger := logging.Ctx(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("chaining context functions", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithFile(ctx, "hierarchy.csv")
		ctx = logging.WithCheck(ctx, "mismatches")
		ctx = logging.WithOperation(ctx, "validate")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})
}
