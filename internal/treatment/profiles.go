package treatment

// Profile holds the natural-scale demand parameters for one treatment arm.
type Profile struct {
	NaturalMean  float64 `json:"natural_mean"`
	NaturalSigma float64 `json:"natural_sigma"`
}

// profiles is the fixed treatment table. Indexing must stay stable across
// releases: a participant's index is assigned once and reused for the whole
// session.
var profiles = [...]Profile{
	{NaturalMean: 100, NaturalSigma: 50},
	{NaturalMean: 100, NaturalSigma: 100},
	{NaturalMean: 500, NaturalSigma: 150},
	{NaturalMean: 500, NaturalSigma: 150}, // same demand as index 2, alternate costs
	{NaturalMean: 100, NaturalSigma: 50},
	{NaturalMean: 100, NaturalSigma: 100},
}

// NumProfiles is the number of treatment arms.
const NumProfiles = len(profiles)

// UnitCosts holds the per-unit economics of a single selling period.
type UnitCosts struct {
	Retail    float64 `json:"rcpu"` // retail price per unit sold
	Wholesale float64 `json:"wcpu"` // wholesale price per unit ordered
	Salvage   float64 `json:"scpu"` // salvage value per unsold unit
}

var (
	defaultCosts   = UnitCosts{Retail: 25, Wholesale: 14, Salvage: 6}
	alternateCosts = UnitCosts{Retail: 24, Wholesale: 5.5, Salvage: 5}
)

// alternateCostsIndex is the one arm that trades on the alternate triple.
const alternateCostsIndex = 3

// UnitCostsFor returns the cost triple for a treatment index.
func UnitCostsFor(idx int) UnitCosts {
	if idx == alternateCostsIndex {
		return alternateCosts
	}
	return defaultCosts
}

// ProfileFor returns the natural demand parameters for a treatment index.
func ProfileFor(idx int) Profile {
	return profiles[idx]
}
