package fundamental

import "strconv"

// Multiples are the sector-typical valuation multiples applied by the
// fair value models.
type Multiples struct {
	PE       float64
	PB       float64
	PS       float64
	EVEBITDA float64
}

var sectorMultiples = map[string]Multiples{
	"Technology":             {PE: 28, PB: 7.0, PS: 6.0, EVEBITDA: 18},
	"Healthcare":             {PE: 22, PB: 4.0, PS: 4.0, EVEBITDA: 14},
	"Financial Services":     {PE: 14, PB: 1.5, PS: 3.0, EVEBITDA: 10},
	"Consumer Cyclical":      {PE: 20, PB: 4.0, PS: 1.5, EVEBITDA: 12},
	"Consumer Defensive":     {PE: 22, PB: 4.0, PS: 2.0, EVEBITDA: 14},
	"Industrials":            {PE: 20, PB: 3.5, PS: 2.0, EVEBITDA: 12},
	"Energy":                 {PE: 12, PB: 1.8, PS: 1.2, EVEBITDA: 6},
	"Utilities":              {PE: 18, PB: 1.8, PS: 2.2, EVEBITDA: 10},
	"Real Estate":            {PE: 35, PB: 2.2, PS: 6.0, EVEBITDA: 16},
	"Basic Materials":        {PE: 15, PB: 2.0, PS: 1.5, EVEBITDA: 8},
	"Communication Services": {PE: 18, PB: 3.5, PS: 3.0, EVEBITDA: 10},
}

var defaultMultiples = Multiples{PE: 20, PB: 3.0, PS: 2.5, EVEBITDA: 12}

type sicRange struct {
	lo, hi int
	sector string
}

// sicSectorRanges map SIC code bands to sectors. Order matters where
// bands overlap: the financial services band covers real estate SICs
// and the energy band covers part of basic materials.
var sicSectorRanges = []sicRange{
	{3570, 3579, "Technology"},
	{7370, 7379, "Technology"},
	{3825, 3829, "Technology"},
	{2833, 2836, "Healthcare"},
	{3841, 3851, "Healthcare"},
	{6000, 6799, "Financial Services"},
	{5200, 5999, "Consumer Cyclical"},
	{2000, 2111, "Consumer Defensive"},
	{3500, 3569, "Industrials"},
	{1300, 1389, "Energy"},
	{4900, 4999, "Utilities"},
	{6500, 6553, "Real Estate"},
	{1000, 1499, "Basic Materials"},
	{4800, 4899, "Communication Services"},
}

// SectorFromSIC maps a SIC code string to a sector name, defaulting to
// "default" for unknown or unparsable codes.
func SectorFromSIC(sicCode string) string {
	if sicCode == "" {
		return "default"
	}
	sic, err := strconv.Atoi(sicCode)
	if err != nil {
		return "default"
	}
	for _, r := range sicSectorRanges {
		if sic >= r.lo && sic <= r.hi {
			return r.sector
		}
	}
	return "default"
}

// MultiplesForSector returns the sector's valuation multiples or the
// cross-sector defaults.
func MultiplesForSector(sector string) Multiples {
	if m, ok := sectorMultiples[sector]; ok {
		return m
	}
	return defaultMultiples
}
