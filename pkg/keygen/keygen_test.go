package keygen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAPIKeyFormat(t *testing.T) {
	t.Parallel()

	key := NewAPIKey()
	require.Len(t, key, 32)
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), key)

	require.NotEqual(t, key, NewAPIKey())
}

func TestNewLicenseKeyFormat(t *testing.T) {
	t.Parallel()

	key, err := NewLicenseKey("TRIAL")
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^TRIAL-[A-Z0-9]{6}$`), key)
}

func TestNewLicenseKeyVaries(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		key, err := NewLicenseKey("X")
		require.NoError(t, err)
		seen[key] = struct{}{}
	}
	// 36^6 possibilities; 100 draws colliding en masse means broken entropy.
	require.Greater(t, len(seen), 90)
}
