package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeProfessor(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{input: "Juan Pérez", expect: "Juan Pérez"},
		{input: "  Juan Pérez null ", expect: "Juan Pérez"},
		{input: "Ana null  Soto", expect: "Ana Soto"},
		{input: " null", expect: ""},
		{input: "", expect: ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, NormalizeProfessor(test.input), test.input)
	}
}

func TestSplitLines(t *testing.T) {
	require.Equal(t, []string{"Juan Pérez", "Ana Soto"}, SplitLines(" Juan Pérez \n\n  Ana Soto\n"))
	require.Equal(t, []string{}, SplitLines("   "))
}
