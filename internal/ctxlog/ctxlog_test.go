package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns embedded logger", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(buf, nil))

		ctx := WithLogger(context.Background(), logger)
		FromContext(ctx).Info("hello", "section", "arch")

		require.Same(t, logger, FromContext(ctx))
		require.Contains(t, buf.String(), "section=arch")
	})

	t.Run("falls back to default", func(t *testing.T) {
		t.Parallel()
		require.Same(t, slog.Default(), FromContext(context.Background()))
	})
}
