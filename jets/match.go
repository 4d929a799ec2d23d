package jets

import (
	"sort"

	"makejets/event"
)

// Pair links parton and jet by their indices in the slices given to Match.
type Pair struct {
	Parton int
	Jet    int
	DeltaR float64
}

// Match pairs partons with jets closer than maxDR. Candidates are taken
// greedily from the smallest distance, so every parton and every jet is used
// at most once. Result is ordered by parton index.
func Match(partons []event.Particle, js []Jet, maxDR float64) []Pair {
	var candidates []Pair
	for i := range partons {
		for k := range js {
			if dr := DeltaR(&partons[i].P4, &js[k].P4); dr < maxDR {
				candidates = append(candidates, Pair{Parton: i, Jet: k, DeltaR: dr})
			}
		}
	}
	// ties are resolved by parton then jet order which is already the order
	// candidates were collected in
	sort.SliceStable(candidates, func(i, k int) bool {
		return candidates[i].DeltaR < candidates[k].DeltaR
	})

	usedParton := make([]bool, len(partons))
	usedJet := make([]bool, len(js))
	pairs := make([]Pair, 0, min(len(partons), len(js)))
	for _, c := range candidates {
		if usedParton[c.Parton] || usedJet[c.Jet] {
			continue
		}
		usedParton[c.Parton], usedJet[c.Jet] = true, true
		pairs = append(pairs, c)
	}
	sort.Slice(pairs, func(i, k int) bool {
		return pairs[i].Parton < pairs[k].Parton
	})
	return pairs
}
