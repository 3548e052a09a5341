package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttachesLoggerToContext(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), nil, Config{Writer: &buf, Level: zerolog.InfoLevel})
	require.NoError(t, err)

	Get(ctx).Info().Str("part", "RC0402FR-0710KL").Msg("lookup complete")

	output := buf.String()
	assert.Contains(t, output, `"message":"lookup complete"`)
	assert.Contains(t, output, `"part":"RC0402FR-0710KL"`)
}

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), nil, Config{Writer: &buf, Level: zerolog.WarnLevel})
	require.NoError(t, err)

	Get(ctx).Debug().Msg("should be filtered")
	assert.Empty(t, buf.String())
}

func TestNewRequiresFilesystemForFileLogging(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), nil, Config{})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}
