package runes

import "github.com/runestone-project/satrune/varint"

// MaxDivisibility is the largest divisibility an etching may declare.
const MaxDivisibility = 38

// MaxSpacers is the widest spacer bitmask (27 bits set).
const MaxSpacers = 0x07_FF_FF_FF

// MaxLimit is u64::MAX expressed as a u128, the largest a mint Limit may be.
var MaxLimit = varint.Uint128{Lo: ^uint64(0)}

// Etching describes the creation of a new rune. Only present when the Etch
// flag was set in the runestone; fields left unset by the payload keep Go
// zero values (Divisibility 0, Spacers 0) or nil (Rune, Symbol, Mint).
type Etching struct {
	Divisibility uint8
	Rune         *Rune
	Spacers      uint32
	Symbol       *rune
	Mint         *Mint
}

// Mint describes an open mint schedule attached to an etching. Only present
// when the Mint flag was also set.
type Mint struct {
	Deadline *uint32
	Limit    *varint.Uint128
	Term     *uint32
}
