package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLimiterExhaustsBucket(t *testing.T) {
	l := New()

	require.True(t, l.Allow("client", 2, 0.0001))
	require.True(t, l.Allow("client", 2, 0.0001))
	require.False(t, l.Allow("client", 2, 0.0001))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New()

	require.True(t, l.Allow("a", 1, 0.0001))
	require.False(t, l.Allow("a", 1, 0.0001))
	require.True(t, l.Allow("b", 1, 0.0001))
}
