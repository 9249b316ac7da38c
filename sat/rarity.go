package sat

// Rarity classifies a sat by how early its position falls in the chain's
// halving/difficulty/block structure.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// String implements fmt.Stringer.
func (r Rarity) String() string { return string(r) }

// RarityOf classifies s. The hierarchy, rarest first: the genesis sat is
// Mythic; the first sat of a cycle (every CycleEpochs halvings) is
// Legendary; the first sat of a halving epoch is Epic; the first sat of a
// difficulty adjustment period is Rare; the first sat of any other block is
// Uncommon; everything else is Common.
func RarityOf(s Sat) Rarity {
	if s == 0 {
		return RarityMythic
	}
	if s.Offset() != 0 {
		return RarityCommon
	}
	h := s.Height()
	switch {
	case h%(SubsidyHalvingInterval*CycleEpochs) == 0:
		return RarityLegendary
	case h%SubsidyHalvingInterval == 0:
		return RarityEpic
	case h%DifficultyAdjustmentInterval == 0:
		return RarityRare
	default:
		return RarityUncommon
	}
}
