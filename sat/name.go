package sat

import (
	"math/big"
	"strings"
)

const nameAlphabet = "abcdefghijklmnopqrstuvwxyz"

var big26 = big.NewInt(26)

// Name renders s in the base-26 name encoding: LAST_SAT - s mapped to its
// minimal-length lowercase string, the same spreadsheet-column family as
// package runes' Rune names, using the lowercase alphabet in place of
// runes' uppercase one. The genesis sat is "nvtdijuwxlp"; the last sat to
// be minted is "a".
func (s Sat) Name() string {
	n := new(big.Int).SetUint64(uint64(LastSat - s))
	n.Add(n, big.NewInt(1))

	var out []byte
	one := big.NewInt(1)
	for n.Sign() > 0 {
		n.Sub(n, one)
		_, rem := new(big.Int).DivMod(n, big26, new(big.Int))
		out = append(out, nameAlphabet[rem.Int64()])
		n.Div(n, big26)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// ParseName parses a sat name back into its serial number.
func ParseName(str string) (Sat, bool) {
	if str == "" {
		return 0, false
	}
	n := big.NewInt(0)
	for _, c := range str {
		idx := strings.IndexRune(nameAlphabet, c)
		if idx < 0 {
			return 0, false
		}
		n.Mul(n, big26)
		n.Add(n, big.NewInt(int64(idx+1)))
	}
	n.Sub(n, big.NewInt(1))
	if n.Sign() < 0 || !n.IsUint64() {
		return 0, false
	}
	offset := n.Uint64()
	if offset > uint64(LastSat) {
		return 0, false
	}
	return LastSat - Sat(offset), true
}
