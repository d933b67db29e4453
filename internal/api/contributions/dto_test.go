package contributions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, totalPages(0, 50))
	require.Equal(t, 0, totalPages(10, 0))
	require.Equal(t, 1, totalPages(50, 50))
	require.Equal(t, 2, totalPages(51, 50))
	require.Equal(t, 3, totalPages(101, 50))
	require.Equal(t, 7, totalPages(7, 1))
}
