package runes

import "github.com/runestone-project/satrune/varint"

// Flag is a bit position within the value carried by the Flags tag.
type Flag uint8

const (
	FlagEtch     Flag = 0
	FlagMint     Flag = 1
	FlagCenotaph Flag = 127
)

func (f Flag) mask() varint.Uint128 {
	if f < 64 {
		return varint.Uint128{Lo: 1 << uint(f)}
	}
	return varint.Uint128{Hi: 1 << uint(f-64)}
}

// set ORs f's bit into flags.
func (f Flag) set(flags *varint.Uint128) {
	*flags = flags.Or(f.mask())
}

// take reports whether f's bit was set in flags, clearing it either way.
func (f Flag) take(flags *varint.Uint128) bool {
	m := f.mask()
	was := !flags.And(m).IsZero()
	*flags = flags.AndNot(m)
	return was
}
