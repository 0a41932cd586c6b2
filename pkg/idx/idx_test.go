package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/keychain/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a := idx.New()
	b := idx.New()

	require.False(t, a.IsZero())
	require.NotEqual(t, a, b)
	require.Len(t, a.String(), 26)
}

func TestNewAtIsSortable(t *testing.T) {
	earlier := idx.NewAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	later := idx.NewAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Less(t, earlier.String(), later.String())
	require.Equal(t, 2024, earlier.Time().Year())
}

func TestParse(t *testing.T) {
	id := idx.New()

	t.Run("round trip", func(t *testing.T) {
		parsed, err := idx.Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := idx.Parse("not-a-ulid")
		require.ErrorIs(t, err, idx.ErrInvalid)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := idx.Parse("  ")
		require.ErrorIs(t, err, idx.ErrInvalid)
	})
}
