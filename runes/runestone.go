package runes

import (
	"sort"

	"github.com/runestone-project/satrune/chain"
	"github.com/runestone-project/satrune/varint"
)

// Runestone is the decoded content of a transaction's runestone output, if
// it has one. Cenotaph is a field, not a distinct error: a cenotaph still
// carries whatever structure was recoverable from the payload, but every
// rune it would otherwise have moved or minted is burned instead (see the
// Cenotaph-vs-Invalid distinction in the design notes).
type Runestone struct {
	Cenotaph      bool
	Claim         *RuneId
	DefaultOutput *uint32
	Edicts        []Edict
	Etching       *Etching
}

// payload scans tx's outputs in order for the first OP_RETURN, OP_13 prefix
// and returns the concatenated data of every push that follows it in that
// output's script. found is false if no output matches. invalid is true if
// the matched output's script could not be fully decoded past the prefix
// (a non-push opcode or a truncated push) — this is a Cenotaph condition,
// not an error. A malformed script encountered on an output that has not
// yet matched the prefix aborts the whole search with a hard error, since a
// caller cannot tell whether that output would have matched.
func payload(tx *chain.Tx) (data []byte, invalid bool, found bool, err error) {
	for _, out := range tx.Outputs {
		it := chain.Script(out.ScriptPubKey).Iterator()

		first, ok, ierr := it.Next()
		if ierr != nil {
			return nil, false, false, errf(ErrMalformedScript, "malformed script before runestone match")
		}
		if !ok || !isOp(first, chain.OP_RETURN) {
			continue
		}

		second, ok, ierr := it.Next()
		if ierr != nil {
			return nil, false, false, errf(ErrMalformedScript, "malformed script before runestone match")
		}
		if !ok || !isOp(second, chain.OP_13) {
			continue
		}

		var buf []byte
		bad := false
		for {
			ins, ok, ierr := it.Next()
			if ierr != nil {
				bad = true
				break
			}
			if !ok {
				break
			}
			if !ins.IsPush {
				bad = true
				break
			}
			buf = append(buf, ins.Data...)
		}
		return buf, bad, true, nil
	}
	return nil, false, false, nil
}

func isOp(ins chain.Instruction, op chain.Opcode) bool {
	return !ins.IsPush && ins.Op == op
}

// Decipher extracts the Runestone from tx, if any. A nil Runestone with a
// nil error means tx carries no runestone output at all. A non-nil error
// means a non-matching output's script could not be decoded and the search
// had to abort.
func Decipher(tx *chain.Tx) (*Runestone, error) {
	data, invalid, found, err := payload(tx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	integers, decErr := varint.DecodeStream(data)
	if decErr != nil {
		invalid = true
		integers = nil
	}

	fields := fieldMap{}
	bodyCenotaph := false
	var edicts []Edict

	i := 0
	for i < len(integers) {
		tag := integers[i]
		if tag == TagBody.key() {
			id := RuneId{}
			rest := integers[i+1:]
			for off := 0; off < len(rest); off += 4 {
				chunk := rest[off:]
				if len(chunk) < 4 {
					bodyCenotaph = true
					break
				}
				nextID, ok := next(id, chunk[0], chunk[1])
				if !ok {
					bodyCenotaph = true
					break
				}
				edict, ok := edictFromIntegers(len(tx.Outputs), nextID, chunk[2], chunk[3])
				if !ok {
					bodyCenotaph = true
					break
				}
				id = nextID
				edicts = append(edicts, edict)
			}
			i = len(integers)
			break
		}
		if i+1 >= len(integers) {
			bodyCenotaph = true
			break
		}
		fields.push(tag, integers[i+1])
		i += 2
	}

	flags := varint.Uint128{}
	if v, ok := fields.take(TagFlags, 1); ok {
		flags = v[0]
	}

	etchFlag := FlagEtch.take(&flags)
	mintFlag := FlagMint.take(&flags)
	cenotaphFlag := FlagCenotaph.take(&flags)

	// Every one of these tags is drained unconditionally, whether or not the
	// Etch/Mint flags that would make them meaningful were set: an unused
	// even tag must not be left in the map to trip hasLeftoverEven, but an
	// even tag's value that fails validation still forces a cenotaph
	// regardless of flag state (odd-tag values just get dropped silently).
	rejected := false

	divVals, divOk := fields.take(TagDivisibility, 1) // odd: silently discarded if invalid
	runeVals, runeOk := fields.take(TagRune, 1)        // even: any u128 is a valid identity
	spacerVals, spacerOk := fields.take(TagSpacers, 1) // odd
	symVals, symOk := fields.take(TagSymbol, 1)        // odd

	if divOk && (!divVals[0].Fits64() || divVals[0].Lo > MaxDivisibility) {
		divOk = false
	}
	if spacerOk && (!spacerVals[0].Fits64() || spacerVals[0].Lo > MaxSpacers) {
		spacerOk = false
	}
	if symOk && (!symVals[0].Fits64() || symVals[0].Lo > 0x10ffff ||
		(symVals[0].Lo >= 0xd800 && symVals[0].Lo <= 0xdfff)) {
		symOk = false
	}

	deadlineVals, deadlineOk := fields.take(TagDeadline, 1) // even
	limitVals, limitOk := fields.take(TagLimit, 1)          // even
	termVals, termOk := fields.take(TagTerm, 1)             // even

	if deadlineOk && (!deadlineVals[0].Fits64() || deadlineVals[0].Lo > 0xffffffff) {
		rejected = true
		deadlineOk = false
	}
	if limitOk && limitVals[0].Cmp(MaxLimit) > 0 {
		rejected = true
		limitOk = false
	}
	if termOk && (!termVals[0].Fits64() || termVals[0].Lo > 0xffffffff) {
		rejected = true
		termOk = false
	}

	var etching *Etching
	if etchFlag {
		etching = &Etching{}
		if divOk {
			etching.Divisibility = uint8(divVals[0].Lo)
		}
		if runeOk {
			r := Rune{Value: runeVals[0]}
			etching.Rune = &r
		}
		if spacerOk {
			etching.Spacers = uint32(spacerVals[0].Lo)
		}
		if symOk {
			r := rune(symVals[0].Lo)
			etching.Symbol = &r
		}
		if mintFlag {
			mint := &Mint{}
			if deadlineOk {
				d := uint32(deadlineVals[0].Lo)
				mint.Deadline = &d
			}
			if limitOk {
				limit := limitVals[0]
				mint.Limit = &limit
			}
			if termOk {
				t := uint32(termVals[0].Lo)
				mint.Term = &t
			}
			etching.Mint = mint
		}
	}

	var claim *RuneId
	if v, ok := fields.take(TagClaim, 2); ok {
		if id, ok2 := runeIdFromClaim(v[0], v[1]); ok2 {
			claim = &id
		} else {
			rejected = true
		}
	}

	var defaultOutput *uint32
	if v, ok := fields.take(TagDefaultOutput, 1); ok {
		if v[0].Fits64() && v[0].Lo < uint64(len(tx.Outputs)) {
			o := uint32(v[0].Lo)
			defaultOutput = &o
		} else {
			rejected = true
		}
	}

	cenotaph := invalid || bodyCenotaph || cenotaphFlag || rejected || !flags.IsZero() || fields.hasLeftoverEven()

	return &Runestone{
		Cenotaph:      cenotaph,
		Claim:         claim,
		DefaultOutput: defaultOutput,
		Edicts:        edicts,
		Etching:       etching,
	}, nil
}

func appendTagValue(dst []byte, tag Tag, v varint.Uint128) []byte {
	dst = varint.Encode(dst, tag.key())
	dst = varint.Encode(dst, v)
	return dst
}

// Encipher renders rs as a runestone scriptPubKey: OP_RETURN, OP_13, then
// the payload chunked into pushes no larger than MaxScriptElementSize.
func Encipher(rs *Runestone) []byte {
	var body []byte

	flags := varint.Uint128{}
	if rs.Etching != nil {
		FlagEtch.set(&flags)
		if rs.Etching.Mint != nil {
			FlagMint.set(&flags)
		}
	}
	if !flags.IsZero() {
		body = appendTagValue(body, TagFlags, flags)
	}

	if e := rs.Etching; e != nil {
		if e.Rune != nil {
			body = appendTagValue(body, TagRune, e.Rune.Value)
		}
		if e.Divisibility != 0 {
			body = appendTagValue(body, TagDivisibility, varint.FromUint64(uint64(e.Divisibility)))
		}
		if e.Spacers != 0 {
			body = appendTagValue(body, TagSpacers, varint.FromUint64(uint64(e.Spacers)))
		}
		if e.Symbol != nil {
			body = appendTagValue(body, TagSymbol, varint.FromUint64(uint64(*e.Symbol)))
		}
		if m := e.Mint; m != nil {
			if m.Deadline != nil {
				body = appendTagValue(body, TagDeadline, varint.FromUint64(uint64(*m.Deadline)))
			}
			if m.Limit != nil {
				body = appendTagValue(body, TagLimit, *m.Limit)
			}
			if m.Term != nil {
				body = appendTagValue(body, TagTerm, varint.FromUint64(uint64(*m.Term)))
			}
		}
	}

	if rs.Claim != nil {
		body = appendTagValue(body, TagClaim, varint.FromUint64(rs.Claim.Block))
		body = appendTagValue(body, TagClaim, varint.FromUint64(uint64(rs.Claim.Tx)))
	}

	if rs.DefaultOutput != nil {
		body = appendTagValue(body, TagDefaultOutput, varint.FromUint64(uint64(*rs.DefaultOutput)))
	}

	if rs.Cenotaph {
		body = appendTagValue(body, TagCenotaph, varint.FromUint64(0))
	}

	sorted := append([]Edict(nil), rs.Edicts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.Less(sorted[j].ID) })

	if len(sorted) > 0 {
		body = varint.Encode(body, TagBody.key())

		prev := RuneId{}
		for _, e := range sorted {
			blockDelta, txDelta := delta(prev, e.ID)
			body = varint.Encode(body, varint.FromUint64(blockDelta))
			body = varint.Encode(body, varint.FromUint64(txDelta))
			body = varint.Encode(body, e.Amount)
			body = varint.Encode(body, varint.FromUint64(uint64(e.Output)))
			prev = e.ID
		}
	}

	out := []byte{byte(chain.OP_RETURN), byte(chain.OP_13)}
	for len(body) > 0 {
		n := len(body)
		if n > chain.MaxScriptElementSize {
			n = chain.MaxScriptElementSize
		}
		out = chain.PushData(out, body[:n])
		body = body[n:]
	}
	return out
}
