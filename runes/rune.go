package runes

import (
	"math/big"
	"strings"

	"github.com/runestone-project/satrune/varint"
)

// Rune is the u128 identity of an etched rune. Its canonical textual form
// is a modified base-26 encoding over the uppercase Latin alphabet, the
// same "spreadsheet column" family as the sat name encoding in package sat,
// offset by one so that the empty string never appears.
type Rune struct {
	Value varint.Uint128
}

const runeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var big26 = big.NewInt(26)

// String renders the rune's canonical name.
func (r Rune) String() string {
	n := new(big.Int).Add(r.Value.Big(), big.NewInt(1))
	var sb []byte
	one := big.NewInt(1)
	for n.Sign() > 0 {
		n.Sub(n, one)
		_, rem := new(big.Int).DivMod(n, big26, new(big.Int))
		sb = append(sb, runeAlphabet[rem.Int64()])
		n.Div(n, big26)
	}
	for i, j := 0, len(sb)-1; i < j; i, j = i+1, j-1 {
		sb[i], sb[j] = sb[j], sb[i]
	}
	return string(sb)
}

// ParseRune parses a rune name back into its u128 value. It accepts only
// the canonical uppercase alphabet; names are case-sensitive by protocol
// convention (spacers, a display-only concern, are stripped by the caller
// before this function sees the string).
func ParseRune(s string) (Rune, bool) {
	if s == "" {
		return Rune{}, false
	}
	n := big.NewInt(0)
	for _, c := range s {
		idx := strings.IndexRune(runeAlphabet, c)
		if idx < 0 {
			return Rune{}, false
		}
		n.Mul(n, big26)
		n.Add(n, big.NewInt(int64(idx+1)))
	}
	n.Sub(n, big.NewInt(1))
	v, ok := varint.FromBig(n)
	if !ok {
		return Rune{}, false
	}
	return Rune{Value: v}, true
}
