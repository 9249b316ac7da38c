package sat

import "testing"

func TestGenesisSat(t *testing.T) {
	s := Sat(0)
	if s.Height() != 0 {
		t.Fatalf("height = %d, want 0", s.Height())
	}
	if s.Decimal() != "0.0" {
		t.Fatalf("decimal = %q, want 0.0", s.Decimal())
	}
	if s.Degree() != "0°0′0″0‴" {
		t.Fatalf("degree = %q, want 0°0′0″0‴", s.Degree())
	}
	if s.Name() != "nvtdijuwxlp" {
		t.Fatalf("name = %q, want nvtdijuwxlp", s.Name())
	}
	if RarityOf(s) != RarityMythic {
		t.Fatalf("rarity = %v, want mythic", RarityOf(s))
	}
}

func TestLastSatName(t *testing.T) {
	if got := LastSat.Name(); got != "a" {
		t.Fatalf("LastSat.Name() = %q, want a", got)
	}
}

func TestSatOneIsCommon(t *testing.T) {
	if RarityOf(Sat(1)) != RarityCommon {
		t.Fatalf("Sat(1) rarity = %v, want common", RarityOf(Sat(1)))
	}
}

func TestFirstOfEpochIsEpic(t *testing.T) {
	s := FirstOfEpoch(1)
	if RarityOf(s) != RarityEpic {
		t.Fatalf("first sat of epoch 1 rarity = %v, want epic", RarityOf(s))
	}
	if s.Offset() != 0 {
		t.Fatalf("first sat of epoch 1 offset = %d, want 0", s.Offset())
	}
}

func TestFirstOfCycleIsLegendary(t *testing.T) {
	s := FirstOfEpoch(CycleEpochs)
	if RarityOf(s) != RarityLegendary {
		t.Fatalf("first sat of cycle 1 rarity = %v, want legendary", RarityOf(s))
	}
}

func TestSubsidyHalving(t *testing.T) {
	if Subsidy(0) != InitialSubsidy {
		t.Fatalf("Subsidy(0) = %d, want %d", Subsidy(0), InitialSubsidy)
	}
	if Subsidy(SubsidyHalvingInterval) != InitialSubsidy/2 {
		t.Fatalf("Subsidy(210000) = %d, want %d", Subsidy(SubsidyHalvingInterval), InitialSubsidy/2)
	}
	if Subsidy(SubsidyHalvingInterval*EpochCount) != 0 {
		t.Fatalf("Subsidy at epoch %d = %d, want 0", EpochCount, Subsidy(SubsidyHalvingInterval*EpochCount))
	}
}

func TestHeightOffsetRoundTrip(t *testing.T) {
	cases := []Sat{0, 1, 4_999_999_999, 5_000_000_000, Sat(FirstOfEpoch(1)), LastSat}
	for _, s := range cases {
		h := s.Height()
		off := s.Offset()
		if HeightStartSat(h)+Sat(off) != s {
			t.Fatalf("sat %d: height=%d offset=%d does not reconstruct", s, h, off)
		}
	}
}

func TestTextualRoundTrip(t *testing.T) {
	cases := []Sat{0, 1, 25, 26, 5_000_000_000, FirstOfEpoch(1), FirstOfEpoch(2), LastSat}
	for _, s := range cases {
		if got, ok := ParseDecimal(s.Decimal()); !ok || got != s {
			t.Fatalf("decimal round trip for %d: got %d, ok=%v", s, got, ok)
		}
		if got, ok := ParseDegree(s.Degree()); !ok || got != s {
			t.Fatalf("degree round trip for %d: got %d, ok=%v", s, got, ok)
		}
		if got, ok := ParseName(s.Name()); !ok || got != s {
			t.Fatalf("name round trip for %d: got %d, ok=%v", s, got, ok)
		}
		if got, ok := ParsePercentile(s.Percentile()); !ok || got != s {
			t.Fatalf("percentile round trip for %d: got %d, ok=%v (percentile=%q)", s, got, ok, s.Percentile())
		}
	}
}

func TestParseDecimalRejectsOutOfRangeOffset(t *testing.T) {
	if _, ok := ParseDecimal("0.99999999999"); ok {
		t.Fatalf("want reject, offset exceeds block 0 subsidy")
	}
}

func TestParseNameRejectsInvalidChars(t *testing.T) {
	if _, ok := ParseName("NVT"); ok {
		t.Fatalf("want reject, uppercase not part of the name alphabet")
	}
	if _, ok := ParseName(""); ok {
		t.Fatalf("want reject empty string")
	}
}
