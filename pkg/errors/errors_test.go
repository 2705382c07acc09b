package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap("upstream_error", "upstream request failed", cause)

	require.True(t, IsCode(err, "upstream_error"))
	require.False(t, IsCode(err, "format_error"))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "upstream request failed: dial tcp: connection refused", err.Error())
	require.Equal(t, "upstream_error", CodeOf(fmt.Errorf("outer: %w", err)))
}

func TestMessageOf(t *testing.T) {
	require.Equal(t, "", MessageOf(nil))
	require.Equal(t, "Missing API url or API key", MessageOf(Wrap("config_error", "Missing API url or API key", nil)))
	require.Equal(t, "boom", MessageOf(errors.New("boom")))
	require.Equal(t, "timeout", MessageOf(Wrap("upstream_error", "", errors.New("timeout"))))
}
