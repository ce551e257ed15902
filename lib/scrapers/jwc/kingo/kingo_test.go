package kingo

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrEncEmptyKeyIsIdentityPacking(t *testing.T) {
	// with no key groups a block passes through as its raw packing,
	// which pins down the UTF-16 big-endian layout
	require.Equal(t, "0061006200000000", StrEnc("ab", ""))
}

func TestStrEncBlockLength(t *testing.T) {
	// every started group of 4 characters yields one 16-hex-digit block
	for n, blocks := range map[int]int{1: 1, 4: 1, 5: 2, 8: 2, 9: 3} {
		out := StrEnc(strings.Repeat("a", n), "testkey1")
		require.Len(t, out, blocks*16, "input length %d", n)
	}
}

func TestStrEncEmptyInput(t *testing.T) {
	require.Equal(t, "", StrEnc("", "testkey1"))
}

func TestStrEncDeterministic(t *testing.T) {
	a := StrEnc("xn=2015&xq=1", "abcd1234")
	b := StrEnc("xn=2015&xq=1", "abcd1234")
	require.Equal(t, a, b)
}

func TestStrEncKeySensitive(t *testing.T) {
	a := StrEnc("xn=2015&xq=1", "abcd1234")
	b := StrEnc("xn=2015&xq=1", "abcd1235")
	require.NotEqual(t, a, b)
}

func TestStrEncOutputIsUpperHex(t *testing.T) {
	out := StrEnc("params", "abcd")
	require.Equal(t, strings.ToUpper(out), out)
	_, err := hex.DecodeString(out)
	require.NoError(t, err)
}

func TestStrEncChainsKeyGroups(t *testing.T) {
	// a 8-char key is two groups; encrypting with both must differ from
	// either group alone
	chained := StrEnc("data", "aaaabbbb")
	require.NotEqual(t, StrEnc("data", "aaaa"), chained)
	require.NotEqual(t, StrEnc("data", "bbbb"), chained)
}
