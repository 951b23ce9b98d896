package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 20.0, Clamp(3.2, 20, 999))
	require.Equal(t, 999.0, Clamp(4000, 20, 999))
	require.Equal(t, 120.0, Clamp(120, 20, 999))

	// reversed bounds are normalized
	require.Equal(t, 120.0, Clamp(120, 999, 20))
}
