package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"St Mary Woolnoth", "stmarywoolnoth"},
		{"St. Mary  Woolnoth", "stmarywoolnoth"},
		{" St Magnus'\n", "stmagnus"},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.out, NormalizeName(tc.in), tc.in)
	}
	require.True(t, SameName("Allhallows, Barking", "allhallows barking"))
	require.False(t, SameName("St Mary Woolnoth", "St Mary Woolchurch"))
}
