package idx

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewProducesValidIDs(t *testing.T) {
	t.Parallel()

	id := New()
	require.False(t, id.IsZero())

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "not-a-ulid", "0000"} {
		_, err := Parse(input)
		require.ErrorIs(t, err, ErrInvalid)
	}
}

func TestNewAtEmbedsTimestamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	id := NewAt(at)
	require.WithinDuration(t, at, id.Time(), time.Millisecond)
}

func TestConcurrentGenerationIsUnique(t *testing.T) {
	t.Parallel()

	const n = 500
	ids := make(chan ID, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- New()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[ID]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
