package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	require.Len(t, key, APIKeyLength)
	require.True(t, LooksLikeAPIKey(key))
}

func TestGenerateAPIKey_Unique(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)

	for range count {
		key := MustGenerateAPIKey()
		require.NotContains(t, seen, key, "duplicate api key generated")
		seen[key] = struct{}{}
	}
}

func TestLooksLikeAPIKey(t *testing.T) {
	valid := MustGenerateAPIKey()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"generated", valid, true},
		{"empty", "", false},
		{"wrong prefix", "ohno_" + valid[len(APIKeyPrefix):], false},
		{"truncated", valid[:len(valid)-1], false},
		{"upper hex", APIKeyPrefix + "AB" + valid[len(APIKeyPrefix)+2:], false},
		{"non hex", APIKeyPrefix + "zz" + valid[len(APIKeyPrefix)+2:], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, LooksLikeAPIKey(tt.in))
		})
	}
}

func TestHashAPIKey(t *testing.T) {
	key := MustGenerateAPIKey()

	h1 := HashAPIKey(key)
	h2 := HashAPIKey(key)
	require.Equal(t, h1, h2, "hash should be deterministic")
	require.Len(t, h1, 2*APIKeyHashBytes)
	require.NotContains(t, h1, key)

	other := HashAPIKey(MustGenerateAPIKey())
	require.NotEqual(t, h1, other)
}

func TestHashAPIKey_DependsOnPepper(t *testing.T) {
	key := MustGenerateAPIKey()
	require.NotEqual(t,
		hashAPIKeyWithPepper(key, "pepper-a"),
		hashAPIKeyWithPepper(key, "pepper-b"),
	)
}

func TestEqualAPIKeyHash(t *testing.T) {
	h := HashAPIKey("pali_test")
	require.True(t, EqualAPIKeyHash(h, h))
	require.False(t, EqualAPIKeyHash(h, HashAPIKey("pali_other")))
	require.False(t, EqualAPIKeyHash(h, h[:10]))
}
