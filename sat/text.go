package sat

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Decimal renders s as "{height}.{offset}".
func (s Sat) Decimal() string {
	return fmt.Sprintf("%d.%d", s.Height(), s.Offset())
}

// ParseDecimal parses the decimal form back into a sat.
func ParseDecimal(str string) (Sat, bool) {
	height, offsetStr, ok := strings.Cut(str, ".")
	if !ok {
		return 0, false
	}
	h, err := strconv.ParseUint(height, 10, 64)
	if err != nil {
		return 0, false
	}
	o, err := strconv.ParseUint(offsetStr, 10, 64)
	if err != nil {
		return 0, false
	}
	subsidy := Subsidy(h)
	if subsidy == 0 || o >= subsidy {
		return 0, false
	}
	return HeightStartSat(h) + Sat(o), true
}

// Degree renders s as "A°B′C″D‴": A is the cycle number, B the sat's block
// height modulo one cycle's length, C its height modulo one difficulty
// period, D its offset within its block.
func (s Sat) Degree() string {
	h := s.Height()
	cycleLen := uint64(SubsidyHalvingInterval * CycleEpochs)
	a := h / cycleLen
	b := h % cycleLen
	c := h % DifficultyAdjustmentInterval
	d := s.Offset()
	return fmt.Sprintf("%d°%d′%d″%d‴", a, b, c, d)
}

// ParseDegree parses the degree form back into a sat.
func ParseDegree(str string) (Sat, bool) {
	var a, b, c, d uint64
	n, err := fmt.Sscanf(str, "%d°%d′%d″%d‴", &a, &b, &c, &d)
	if err != nil || n != 4 {
		return 0, false
	}
	cycleLen := uint64(SubsidyHalvingInterval * CycleEpochs)
	if b >= cycleLen {
		return 0, false
	}
	if c != (a*cycleLen+b)%DifficultyAdjustmentInterval {
		return 0, false
	}
	height := a*cycleLen + b
	subsidy := Subsidy(height)
	if subsidy == 0 || d >= subsidy {
		return 0, false
	}
	return HeightStartSat(height) + Sat(d), true
}

// percentileDigits bounds the number of fractional digits Percentile will
// compute; sat/LastSat is rarely a terminating decimal, so the expansion is
// truncated here rather than run to exact termination.
const percentileDigits = 20

// Percentile renders s as "{p}%" where p = s*100/LastSat, computed as an
// exact big-integer long division (not float64, which cannot represent the
// ratio precisely enough to keep adjacent sats distinguishable) and
// truncated to percentileDigits fractional digits with trailing zeros
// trimmed.
func (s Sat) Percentile() string {
	num := new(big.Int).Mul(new(big.Int).SetUint64(uint64(s)), big.NewInt(100))
	den := new(big.Int).SetUint64(uint64(LastSat))

	intPart, rem := new(big.Int), new(big.Int)
	intPart.QuoRem(num, den, rem)
	if rem.Sign() == 0 {
		return intPart.String() + "%"
	}

	var digits []byte
	r := new(big.Int).Set(rem)
	ten := big.NewInt(10)
	for i := 0; i < percentileDigits; i++ {
		r.Mul(r, ten)
		d := new(big.Int)
		d.QuoRem(r, den, r)
		digits = append(digits, byte('0')+byte(d.Int64()))
		if r.Sign() == 0 {
			break
		}
	}
	for len(digits) > 0 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
	}
	if len(digits) == 0 {
		return intPart.String() + "%"
	}
	return fmt.Sprintf("%s.%s%%", intPart.String(), digits)
}

// ParsePercentile parses the percentile form back into a sat. It recovers a
// candidate by inverting the ratio with exact rational arithmetic, then
// confirms round-trip by recomputing that candidate's own Percentile
// string: Percentile's truncation means not every percentile string is
// exactly invertible by arithmetic alone.
func ParsePercentile(str string) (Sat, bool) {
	if !strings.HasSuffix(str, "%") {
		return 0, false
	}
	numStr := str[:len(str)-1]
	ratio, ok := new(big.Rat).SetString(numStr)
	if !ok {
		return 0, false
	}
	last := new(big.Rat).SetUint64(uint64(LastSat))
	scaled := new(big.Rat).Mul(ratio, last)
	scaled.Quo(scaled, big.NewRat(100, 1))

	num, den := scaled.Num(), scaled.Denom()
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(num, den, r)
	// Round to nearest.
	if new(big.Int).Mul(r, big.NewInt(2)).CmpAbs(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if q.Sign() < 0 || !q.IsUint64() || q.Uint64() > uint64(LastSat) {
		return 0, false
	}
	candidate := Sat(q.Uint64())
	if candidate.Percentile() != str {
		return 0, false
	}
	return candidate, true
}
