package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPairingStore_CreateAndLookup(t *testing.T) {
	store := NewPairingStore(time.Minute)

	code, err := store.Create("req-1")
	require.NoError(t, err)
	require.Len(t, code, 6)

	entry, ok, expired := store.Lookup(code)
	require.True(t, ok)
	require.False(t, expired)
	require.Equal(t, "req-1", entry.requestID)
}

func TestPairingStore_LookupUnknownCode(t *testing.T) {
	store := NewPairingStore(time.Minute)

	_, ok, _ := store.Lookup("000000")
	require.False(t, ok)
}

func TestPairingStore_Consume(t *testing.T) {
	store := NewPairingStore(time.Minute)

	code, err := store.Create("req-1")
	require.NoError(t, err)

	store.Consume(code)
	_, ok, _ := store.Lookup(code)
	require.False(t, ok)
}

func TestPairingStore_Expiry(t *testing.T) {
	store := NewPairingStore(time.Millisecond)

	code, err := store.Create("req-1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, ok, expired := store.Lookup(code)
	require.True(t, ok)
	require.True(t, expired)

	store.CleanupExpired()
	_, ok, _ = store.Lookup(code)
	require.False(t, ok)
}

func TestPairingStore_CodesAreUnique(t *testing.T) {
	store := NewPairingStore(time.Minute)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		code, err := store.Create("req")
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup)
		seen[code] = struct{}{}
	}
}
